// pkg/device/client.go

package device

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"farmops/pkg/cycle/types"
)

var ErrNoDevice = errors.New("cycle has no bound device")

// Gateway pushes the operative part of a stage to a hardware controller.
// Deploy must be idempotent: the same payload twice changes nothing on the device.
type Gateway interface {
	Deploy(ctx context.Context, deviceID string, stage types.Stage) error
	Mode() string
}

// Payload is what a controller receives. Name, day range, checklist and notes
// stay on the dashboard.
type Payload struct {
	StageType   types.StageType        `json:"stage_type"`
	Schedules   []types.ScheduleConfig `json:"schedules"`
	Lighting    types.Lighting         `json:"lighting"`
	Environment types.Environment      `json:"environment"`
}

func BuildPayload(stage types.Stage) Payload {
	s := stage.Clone()
	if s.Schedules == nil {
		s.Schedules = []types.ScheduleConfig{}
	}
	return Payload{StageType: s.Type, Schedules: s.Schedules, Lighting: s.Lighting, Environment: s.Environment}
}

// Encode returns the canonical JSON body and its SHA-256 digest, which doubles
// as the idempotency key for retries.
func (p Payload) Encode() ([]byte, string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(b)
	return b, hex.EncodeToString(sum[:]), nil
}
