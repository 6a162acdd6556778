package repositoryImp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmops/entities"
	"farmops/pkg/cycle/repository"
	"farmops/pkg/cycle/types"
)

type cycleRepo struct {
	db  *gorm.DB
	hub *hub
}

func New(db *gorm.DB) repository.CycleRepository { return &cycleRepo{db: db, hub: newHub()} }

func (r *cycleRepo) Create(ctx context.Context, c *entities.GrowCycle) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = entities.CycleActive
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create cycle: %w", err)
	}
	r.hub.publish(entities.CycleChange{CycleID: c.ID, Revision: c.Revision})
	return nil
}

func (r *cycleRepo) LoadCycle(ctx context.Context, id string) (*entities.GrowCycle, error) {
	var c entities.GrowCycle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load cycle %s: %w", id, err)
	}
	return &c, nil
}

func (r *cycleRepo) List(ctx context.Context) ([]entities.GrowCycle, error) {
	var out []entities.GrowCycle
	if err := r.db.WithContext(ctx).Order("started_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return out, nil
}

func (r *cycleRepo) CommitStages(ctx context.Context, id string, revision int64, stages []types.Stage) (int64, error) {
	raw, err := json.Marshal(stages)
	if err != nil {
		return 0, fmt.Errorf("encode stages: %w", err)
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.GrowCycle{}).
			Where("id = ? AND revision = ?", id, revision).
			Updates(map[string]any{"stages": string(raw), "revision": gorm.Expr("revision + 1")})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
		var n int64
		if err := tx.Model(&entities.GrowCycle{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("commit stages %s: %w", id, err)
	}
	next := revision + 1
	r.hub.publish(entities.CycleChange{CycleID: id, Revision: next})
	return next, nil
}

func (r *cycleRepo) Watch(id string) (<-chan entities.CycleChange, func()) { return r.hub.subscribe(id) }
