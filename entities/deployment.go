package entities

import (
	"time"

	"gorm.io/datatypes"
)

type DeploymentLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CycleID   string         `gorm:"index" json:"cycle_id"`
	DeviceID  string         `json:"device_id"`
	StageType string         `json:"stage_type"`
	Revision  int64          `json:"revision"`
	Digest    string         `json:"digest"`
	Payload   datatypes.JSON `json:"payload"`
	Operator  string         `json:"operator"`
	Status    string         `gorm:"index" json:"status"` // ok|failed
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
