package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"farmops/pkg/device"
)

var appStart = time.Now()

type check struct {
	OK   bool   `json:"ok"`
	Err  string `json:"err,omitempty"`
	Mode string `json:"mode,omitempty"`
}

type HealthCtrl struct {
	db *gorm.DB
	gw device.Gateway
}

func NewHealthCtrl(db *gorm.DB, gw device.Gateway) *HealthCtrl { return &HealthCtrl{db: db, gw: gw} }

func (h *HealthCtrl) database(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "store not configured"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}

// gateway reports which controller transport stage edits are deployed through.
func (h *HealthCtrl) gateway() check {
	if h.gw == nil {
		return check{Err: "no device gateway; edits to running stages cannot deploy"}
	}
	return check{OK: true, Mode: h.gw.Mode()}
}

// Health answers 503 when any check fails.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	checks := map[string]check{
		"database": h.database(ctx),
		"device":   h.gateway(),
	}
	ok := true
	for _, ch := range checks {
		ok = ok && ch.OK
	}
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"ok":         ok,
		"checks":     checks,
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}
