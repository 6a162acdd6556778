package repository

import (
	"context"

	"farmops/entities"
)

type DeploymentRepository interface {
	Record(ctx context.Context, d *entities.DeploymentLog) error
	ListByCycle(ctx context.Context, cycleID string, limit int) ([]entities.DeploymentLog, error)
}
