package entities

import (
	"time"

	"farmops/pkg/cycle/types"
)

type CycleStatus string

const (
	CycleActive    CycleStatus = "active"
	CyclePaused    CycleStatus = "paused"
	CycleCompleted CycleStatus = "completed"
)

func (s CycleStatus) Valid() bool {
	return s == CycleActive || s == CyclePaused || s == CycleCompleted
}

type GrowCycle struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	ProgramName string        `json:"program_name"`
	DeviceID    string        `gorm:"index" json:"device_id"`
	StartedAt   time.Time     `json:"started_at"`
	TotalDays   int           `json:"total_days"`
	Status      CycleStatus   `gorm:"index" json:"status"` // active|paused|completed
	Stages      []types.Stage `gorm:"serializer:json;type:text" json:"stages"`
	Revision    int64         `json:"revision"` // bumped by every stage commit
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CycleChange is published to watchers after a cycle is written.
type CycleChange struct {
	CycleID  string `json:"cycle_id"`
	Revision int64  `json:"revision"`
}
