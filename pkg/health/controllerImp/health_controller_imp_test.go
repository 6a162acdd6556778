package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"farmops/database"
	"farmops/pkg/device"
)

type healthBody struct {
	OK     bool             `json:"ok"`
	Checks map[string]check `json:"checks"`
}

func getHealth(t *testing.T, db *gorm.DB, gw device.Gateway) (int, healthBody) {
	t.Helper()
	e := echo.New()
	e.GET("/health", NewHealthCtrl(db, gw).Health)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestHealth(t *testing.T) {
	code, body := getHealth(t, openDB(t), device.NewMock())
	if code != http.StatusOK || !body.OK {
		t.Fatalf("expected healthy, got %d %+v", code, body)
	}
	if body.Checks["device"].Mode != "mock" || !body.Checks["database"].OK {
		t.Fatalf("unexpected checks %+v", body.Checks)
	}
}

func TestHealthWithoutGateway(t *testing.T) {
	code, body := getHealth(t, openDB(t), nil)
	if code != http.StatusServiceUnavailable || body.OK {
		t.Fatalf("expected 503, got %d %+v", code, body)
	}
	if !body.Checks["database"].OK || body.Checks["device"].OK || body.Checks["device"].Err == "" {
		t.Fatalf("expected only the device check to fail, got %+v", body.Checks)
	}
}

func TestHealthWithoutDB(t *testing.T) {
	code, body := getHealth(t, nil, device.NewMock())
	if code != http.StatusServiceUnavailable || body.Checks["database"].OK {
		t.Fatalf("expected 503 with failed database check, got %d %+v", code, body)
	}
}
