package service

import (
	"context"
	"time"

	"farmops/entities"
	"farmops/pkg/cycle/types"
)

// CycleService is what the dashboard talks to. Reads recompute from now on
// every call; only SubmitStageEdit writes.
type CycleService interface {
	Get(ctx context.Context, id string) (*entities.GrowCycle, error)
	List(ctx context.Context) ([]entities.GrowCycle, error)
	Create(ctx context.Context, c *entities.GrowCycle) error
	Watch(id string) (<-chan entities.CycleChange, func())
	Deployments(ctx context.Context, cycleID string, limit int) ([]entities.DeploymentLog, error)

	CurrentDay(c *entities.GrowCycle, now time.Time) int
	ActiveStage(c *entities.GrowCycle, now time.Time) (types.Stage, bool)
	ProgressPercent(c *entities.GrowCycle, now time.Time) int

	// SubmitStageEdit validates and commits edited, replacing the stage of
	// the same type, and deploys it when that type was active at now in the
	// cycle the commit landed on. On *DeploymentError the returned cycle is
	// the committed one and the sync is SyncFailed.
	SubmitStageEdit(ctx context.Context, c *entities.GrowCycle, edited types.Stage, now time.Time, opts ...EditOption) (*entities.GrowCycle, DeviceSync, error)
}

// DeviceSync reports what a saved edit did to the device. Empty when nothing
// was saved.
type DeviceSync string

const (
	SyncSkipped DeviceSync = "skipped" // edited stage was not running
	SyncOK      DeviceSync = "ok"
	SyncFailed  DeviceSync = "failed"
)

type EditOptions struct {
	Operator string
}

type EditOption func(*EditOptions)

func WithOperator(name string) EditOption { return func(o *EditOptions) { o.Operator = name } }
