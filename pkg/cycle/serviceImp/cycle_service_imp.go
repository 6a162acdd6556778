package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"farmops/entities"
	"farmops/pkg/cycle/engine"
	"farmops/pkg/cycle/repository"
	"farmops/pkg/cycle/service"
	"farmops/pkg/cycle/types"
	"farmops/pkg/device"
	deployrepo "farmops/pkg/device/repository"
)

type Options struct {
	CommitTimeout time.Duration
	DeployTimeout time.Duration
	// CommitRetries is how many times a revision conflict is resolved by
	// reloading the cycle and re-applying the edit.
	CommitRetries int
}

type cycleSvc struct {
	repo    repository.CycleRepository
	gw      device.Gateway
	deploys deployrepo.DeploymentRepository
	opts    Options
}

// NewCycleService wires the stage editor. deploys may be nil.
func NewCycleService(r repository.CycleRepository, gw device.Gateway, deploys deployrepo.DeploymentRepository, opts Options) service.CycleService {
	if opts.CommitTimeout <= 0 {
		opts.CommitTimeout = 5 * time.Second
	}
	if opts.DeployTimeout <= 0 {
		opts.DeployTimeout = 10 * time.Second
	}
	if opts.CommitRetries < 0 {
		opts.CommitRetries = 0
	}
	return &cycleSvc{repo: r, gw: gw, deploys: deploys, opts: opts}
}

func (s *cycleSvc) Get(ctx context.Context, id string) (*entities.GrowCycle, error) {
	return s.repo.LoadCycle(ctx, id)
}

func (s *cycleSvc) List(ctx context.Context) ([]entities.GrowCycle, error) { return s.repo.List(ctx) }

func (s *cycleSvc) Create(ctx context.Context, c *entities.GrowCycle) error {
	for i, st := range c.Stages {
		if err := st.Validate(); err != nil {
			var ve *types.ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("stages[%d].%s", i, ve.Field)
			}
			return err
		}
	}
	if err := uniqueTypes(c.Stages); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *cycleSvc) Watch(id string) (<-chan entities.CycleChange, func()) { return s.repo.Watch(id) }

func (s *cycleSvc) Deployments(ctx context.Context, cycleID string, limit int) ([]entities.DeploymentLog, error) {
	if s.deploys == nil {
		return nil, nil
	}
	return s.deploys.ListByCycle(ctx, cycleID, limit)
}

func (s *cycleSvc) CurrentDay(c *entities.GrowCycle, now time.Time) int {
	return engine.CurrentDay(c.StartedAt, now)
}

func (s *cycleSvc) ActiveStage(c *entities.GrowCycle, now time.Time) (types.Stage, bool) {
	return engine.ActiveStage(c.Stages, s.CurrentDay(c, now))
}

func (s *cycleSvc) ProgressPercent(c *entities.GrowCycle, now time.Time) int {
	return engine.ProgressPercent(s.CurrentDay(c, now), c.TotalDays)
}

func (s *cycleSvc) SubmitStageEdit(ctx context.Context, c *entities.GrowCycle, edited types.Stage, now time.Time, opts ...service.EditOption) (*entities.GrowCycle, service.DeviceSync, error) {
	var eo service.EditOptions
	for _, o := range opts {
		o(&eo)
	}
	if err := edited.Validate(); err != nil {
		return nil, "", err
	}
	edited = edited.Clone()

	cur := c
	for attempt := 0; ; attempt++ {
		merged, wasActive, err := plan(cur, edited, now)
		if err != nil {
			return nil, "", err
		}
		rev, err := s.commit(ctx, cur, merged)
		if errors.Is(err, repository.ErrConflict) && attempt < s.opts.CommitRetries {
			log.Printf("[cycle] %s revision %d is stale, reloading (attempt %d)", cur.ID, cur.Revision, attempt+1)
			fresh, lerr := s.repo.LoadCycle(ctx, cur.ID)
			if lerr != nil {
				return nil, "", &service.PersistenceError{CycleID: cur.ID, Err: lerr}
			}
			cur = fresh
			continue
		}
		if err != nil {
			return nil, "", &service.PersistenceError{CycleID: cur.ID, Conflict: errors.Is(err, repository.ErrConflict), Err: err}
		}

		updated := *cur
		updated.Stages = merged
		updated.Revision = rev
		log.Printf("[cycle] %s: %s stage saved at revision %d (active=%t)", updated.ID, edited.Type, rev, wasActive)

		if !wasActive {
			return &updated, service.SyncSkipped, nil
		}
		if err := s.deploy(ctx, &updated, edited, eo.Operator); err != nil {
			return &updated, service.SyncFailed, err
		}
		return &updated, service.SyncOK, nil
	}
}

func uniqueTypes(stages []types.Stage) error {
	seen := map[types.StageType]bool{}
	for i, st := range stages {
		if seen[st.Type] {
			return &types.ValidationError{Field: fmt.Sprintf("stages[%d].type", i), Reason: fmt.Sprintf("duplicate stage type %q", st.Type)}
		}
		seen[st.Type] = true
	}
	return nil
}

// plan merges edited into c's stage list and reports whether the edited type
// was the active stage before the edit. Activity is judged on the pre-edit
// ranges: an edit that moves the running stage out of today still reaches
// the device.
func plan(c *entities.GrowCycle, edited types.Stage, now time.Time) ([]types.Stage, bool, error) {
	idx := -1
	for i, st := range c.Stages {
		if st.Type == edited.Type {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false, &service.UnknownStageTypeError{CycleID: c.ID, Type: edited.Type}
	}
	day := engine.CurrentDay(c.StartedAt, now)
	active, ok := engine.ActiveStage(c.Stages, day)
	wasActive := ok && active.Type == edited.Type

	merged := make([]types.Stage, len(c.Stages))
	copy(merged, c.Stages)
	merged[idx] = edited
	return merged, wasActive, nil
}

func (s *cycleSvc) commit(ctx context.Context, c *entities.GrowCycle, stages []types.Stage) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, s.opts.CommitTimeout)
	defer cancel()
	return s.repo.CommitStages(cctx, c.ID, c.Revision, stages)
}

func (s *cycleSvc) deploy(ctx context.Context, c *entities.GrowCycle, stage types.Stage, operator string) error {
	var err error
	if c.DeviceID == "" {
		err = device.ErrNoDevice
	} else {
		dctx, cancel := context.WithTimeout(ctx, s.opts.DeployTimeout)
		err = s.gw.Deploy(dctx, c.DeviceID, stage)
		cancel()
	}
	s.record(ctx, c, stage, operator, err)
	if err != nil {
		log.Printf("[deploy] %s -> %q failed: %v", stage.Type, c.DeviceID, err)
		return &service.DeploymentError{CycleID: c.ID, DeviceID: c.DeviceID, Stage: stage.Type, Err: err}
	}
	log.Printf("[deploy] %s -> %q ok", stage.Type, c.DeviceID)
	return nil
}

func (s *cycleSvc) record(ctx context.Context, c *entities.GrowCycle, stage types.Stage, operator string, deployErr error) {
	if s.deploys == nil {
		return
	}
	body, digest, err := device.BuildPayload(stage).Encode()
	if err != nil {
		log.Printf("[deploy] encode audit payload: %v", err)
		return
	}
	entry := &entities.DeploymentLog{
		CycleID:   c.ID,
		DeviceID:  c.DeviceID,
		StageType: string(stage.Type),
		Revision:  c.Revision,
		Digest:    digest,
		Payload:   datatypes.JSON(body),
		Operator:  operator,
		Status:    "ok",
	}
	if deployErr != nil {
		entry.Status = "failed"
		entry.Error = deployErr.Error()
	}
	// Recorded even when the caller's context is already done.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.CommitTimeout)
	defer cancel()
	if err := s.deploys.Record(rctx, entry); err != nil {
		log.Printf("[deploy] record audit entry for %s: %v", c.ID, err)
	}
}
