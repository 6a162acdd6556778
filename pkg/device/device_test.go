package device

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"farmops/pkg/cycle/types"
)

func testStage() types.Stage {
	on, off := 6, 20
	return types.Stage{
		Type: types.StageGrowth, Name: "Growth", DayStart: 8, DayEnd: 30,
		Schedules: []types.ScheduleConfig{{TargetSubtype: types.ActuatorPump, DurationSeconds: 30, FrequencySeconds: 3600}},
		Lighting:  types.Lighting{Enabled: true, OnHour: &on, OffHour: &off},
		Checklist: []string{"thin trays"},
	}
}

func TestPayloadDigestIgnoresPresentationFields(t *testing.T) {
	a := testStage()
	b := testStage()
	b.Name = "Renamed"
	b.DayEnd = 40
	b.Checklist = nil
	_, da, _ := BuildPayload(a).Encode()
	_, db, _ := BuildPayload(b).Encode()
	if da != db {
		t.Fatalf("expected same digest for same operative parameters")
	}
	b.Schedules[0].DurationSeconds = 45
	_, dc, _ := BuildPayload(b).Encode()
	if dc == da {
		t.Fatalf("expected digest to change with schedules")
	}
}

func TestMockDeployIsIdempotent(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := m.Deploy(ctx, "rack-1", testStage()); err != nil {
			t.Fatalf("Deploy failed: %v", err)
		}
	}
	calls, changes := m.Stats()
	if calls != 3 || changes != 1 {
		t.Fatalf("expected 3 calls / 1 change, got %d / %d", calls, changes)
	}
	if m.Applied("rack-1") == "" {
		t.Fatal("expected applied digest")
	}
	if err := m.Deploy(ctx, "", testStage()); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("expected ErrNoDevice, got %v", err)
	}
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := m.Deploy(cctx, "rack-1", testStage()); err == nil {
		t.Fatal("expected cancelled deploy to fail")
	}
}

func TestHTTPGatewayPutsPayload(t *testing.T) {
	var gotPath, gotAuth, gotKey string
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		gotPath, gotAuth, gotKey = r.URL.Path, r.Header.Get("Authorization"), r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := NewHTTP(srv.URL+"/", "secret", time.Second)
	if err := g.Deploy(context.Background(), "rack 1", testStage()); err != nil {
		t.Fatalf("Deploy failed: %v", err)
	}
	if gotPath != "/devices/rack 1/stage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth %q", gotAuth)
	}
	_, digest, _ := BuildPayload(testStage()).Encode()
	if gotKey != digest {
		t.Fatalf("expected idempotency key %s, got %s", digest, gotKey)
	}
	if got.StageType != types.StageGrowth || len(got.Schedules) != 1 || *got.Lighting.OnHour != 6 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestHTTPGatewayReportsControllerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTP(srv.URL, "", time.Second).Deploy(context.Background(), "rack-1", testStage())
	if err == nil || !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "relay offline") {
		t.Fatalf("expected controller error, got %v", err)
	}
}

func TestHTTPGatewayHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := NewHTTP(srv.URL, "", 5*time.Second).Deploy(ctx, "rack-1", testStage()); err == nil {
		t.Fatal("expected timeout error")
	}
}
