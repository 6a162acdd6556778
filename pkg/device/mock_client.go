// pkg/device/mock_client.go

package device

import (
	"context"
	"sync"

	"farmops/pkg/cycle/types"
)

// Mock is an in-memory controller fleet used when no DEVICE_ENDPOINT is set.
type Mock struct {
	mu      sync.Mutex
	applied map[string]string // device -> digest of active payload
	calls   int
	changes int
}

func NewMock() *Mock { return &Mock{applied: map[string]string{}} }

func (m *Mock) Mode() string { return "mock" }

func (m *Mock) Deploy(ctx context.Context, deviceID string, stage types.Stage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deviceID == "" {
		return ErrNoDevice
	}
	_, digest, err := BuildPayload(stage).Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.applied[deviceID] != digest {
		m.applied[deviceID] = digest
		m.changes++
	}
	return nil
}

// Applied returns the digest currently running on deviceID.
func (m *Mock) Applied(deviceID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied[deviceID]
}

// Stats reports deploy calls received and how many changed a device.
func (m *Mock) Stats() (calls, changes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.changes
}
