package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"farmops/entities"
	"farmops/pkg/device/repository"
)

type deployRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.DeploymentRepository { return &deployRepo{db} }

func (r *deployRepo) Record(ctx context.Context, d *entities.DeploymentLog) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *deployRepo) ListByCycle(ctx context.Context, cycleID string, limit int) ([]entities.DeploymentLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []entities.DeploymentLog
	err := r.db.WithContext(ctx).Where("cycle_id = ?", cycleID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
