package repositoryImp

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/datatypes"

	"farmops/database"
	"farmops/entities"
)

func TestRecordAndListByCycle(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	r := New(db)
	ctx := context.Background()

	for i, status := range []string{"ok", "failed", "ok"} {
		d := &entities.DeploymentLog{
			CycleID: "c1", DeviceID: "rack-1", StageType: "growth", Revision: int64(i + 1),
			Payload: datatypes.JSON(`{"stage_type":"growth"}`), Status: status,
		}
		if err := r.Record(ctx, d); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := r.Record(ctx, &entities.DeploymentLog{CycleID: "c2", Status: "ok"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := r.ListByCycle(ctx, "c1", 2)
	if err != nil {
		t.Fatalf("ListByCycle failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Revision != 3 || got[1].Status != "failed" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if string(got[0].Payload) != `{"stage_type":"growth"}` {
		t.Fatalf("payload not round-tripped: %s", got[0].Payload)
	}
}
