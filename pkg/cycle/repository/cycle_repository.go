package repository

import (
	"context"
	"errors"

	"farmops/entities"
	"farmops/pkg/cycle/types"
)

var (
	ErrNotFound = errors.New("grow cycle not found")
	ErrConflict = errors.New("grow cycle revision conflict")
)

type CycleRepository interface {
	Create(ctx context.Context, c *entities.GrowCycle) error
	LoadCycle(ctx context.Context, id string) (*entities.GrowCycle, error)
	List(ctx context.Context) ([]entities.GrowCycle, error)
	// CommitStages replaces the whole stage list if the stored revision still
	// equals revision, and returns the new revision. Status, StartedAt and
	// TotalDays are never touched.
	CommitStages(ctx context.Context, id string, revision int64, stages []types.Stage) (int64, error)
	// Watch delivers a CycleChange after each write to the cycle until cancel is called.
	Watch(id string) (<-chan entities.CycleChange, func())
}
