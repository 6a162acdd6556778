package controllerImp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"farmops/entities"
	"farmops/pkg/cycle/repository"
	"farmops/pkg/cycle/service"
	"farmops/pkg/cycle/types"
	"farmops/pkg/middleware"
	"farmops/pkg/template"
)

type CycleCtrl struct {
	svc       service.CycleService
	templates *template.Registry
	now       func() time.Time
}

// New builds the dashboard handlers. now defaults to time.Now.
func New(svc service.CycleService, templates *template.Registry, now func() time.Time) *CycleCtrl {
	if now == nil {
		now = time.Now
	}
	if templates == nil {
		templates = template.NewRegistry()
	}
	return &CycleCtrl{svc: svc, templates: templates, now: now}
}

func errJSON(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}

func (h *CycleCtrl) load(c echo.Context) (*entities.GrowCycle, error) {
	cy, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errJSON(c, http.StatusNotFound, err)
	}
	if err != nil {
		return nil, errJSON(c, http.StatusInternalServerError, err)
	}
	return cy, nil
}

func (h *CycleCtrl) List(c echo.Context) error {
	cycles, err := h.svc.List(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	now := h.now()
	out := make([]cycleSummary, 0, len(cycles))
	for i := range cycles {
		out = append(out, summarize(&cycles[i], now))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CycleCtrl) Get(c echo.Context) error {
	cy, err := h.load(c)
	if cy == nil {
		return err
	}
	return c.JSON(http.StatusOK, viewCycle(cy, h.now()))
}

type createReq struct {
	Program   string     `json:"program"`
	DeviceID  string     `json:"device_id"`
	StartedAt *time.Time `json:"started_at"`
}

// Create starts a cycle from a program template.
func (h *CycleCtrl) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if strings.TrimSpace(req.Program) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "program is required"})
	}
	stages, total, err := h.templates.Instantiate(req.Program)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	cy := &entities.GrowCycle{
		ProgramName: req.Program,
		DeviceID:    strings.TrimSpace(req.DeviceID),
		StartedAt:   h.now(),
		TotalDays:   total,
		Stages:      stages,
	}
	if p, ok := h.templates.Get(req.Program); ok {
		cy.ProgramName = p.Name
	}
	if req.StartedAt != nil {
		cy.StartedAt = *req.StartedAt
	}
	if err := h.svc.Create(c.Request().Context(), cy); err != nil {
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": ve.Error(), "field": ve.Field, "reason": ve.Reason})
		}
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, viewCycle(cy, h.now()))
}

// SubmitStage replaces one stage of the cycle. The body is the full stage;
// its type may be omitted but must match the path when present.
func (h *CycleCtrl) SubmitStage(c echo.Context) error {
	st, err := types.ParseStageType(c.Param("type"))
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	var edited types.Stage
	if err := json.NewDecoder(c.Request().Body).Decode(&edited); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	switch {
	case edited.Type == "":
		edited.Type = st
	case edited.Type != st:
		return errJSON(c, http.StatusBadRequest, fmt.Errorf("body stage type %q does not match path %q", edited.Type, st))
	}

	cy, err := h.load(c)
	if cy == nil {
		return err
	}
	now := h.now()
	updated, ds, err := h.svc.SubmitStageEdit(c.Request().Context(), cy, edited, now,
		service.WithOperator(middleware.OperatorFrom(c)))

	var (
		ve *types.ValidationError
		ue *service.UnknownStageTypeError
		pe *service.PersistenceError
		de *service.DeploymentError
	)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{"saved": true, "device_sync": ds, "cycle": viewCycle(updated, now)})
	case errors.As(err, &de):
		return c.JSON(http.StatusOK, map[string]any{"saved": true, "device_sync": service.SyncFailed, "error": de.Error(), "cycle": viewCycle(updated, now)})
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": ve.Error(), "field": ve.Field, "reason": ve.Reason})
	case errors.As(err, &ue):
		return errJSON(c, http.StatusBadRequest, ue)
	case errors.As(err, &pe) && pe.Conflict:
		return errJSON(c, http.StatusConflict, pe)
	default:
		return errJSON(c, http.StatusInternalServerError, err)
	}
}

func (h *CycleCtrl) Deployments(c echo.Context) error {
	cy, err := h.load(c)
	if cy == nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.svc.Deployments(c.Request().Context(), cy.ID, limit)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	if out == nil {
		out = []entities.DeploymentLog{}
	}
	return c.JSON(http.StatusOK, out)
}

// Events streams cycle changes as Server-Sent Events until the client leaves.
func (h *CycleCtrl) Events(c echo.Context) error {
	cy, err := h.load(c)
	if cy == nil {
		return err
	}
	ch, cancel := h.svc.Watch(cy.ID)
	defer cancel()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "event: ready\ndata: {\"cycle_id\":%q,\"revision\":%d}\n\n", cy.ID, cy.Revision)
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			b, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", b)
			w.Flush()
		}
	}
}

func (h *CycleCtrl) StageTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, types.StageCatalog())
}

func (h *CycleCtrl) Programs(c echo.Context) error {
	out := make([]template.Program, 0)
	for _, n := range h.templates.Names() {
		p, _ := h.templates.Get(n)
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}
