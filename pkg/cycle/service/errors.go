package service

import (
	"fmt"

	"farmops/pkg/cycle/types"
)

// ValidationError is re-exported so callers can match every edit failure from
// this package.
type ValidationError = types.ValidationError

// UnknownStageTypeError means the edited stage names a type the cycle does
// not hold. Stage types are fixed once a cycle exists, so this is an
// integration error rather than something to retry.
type UnknownStageTypeError struct {
	CycleID string
	Type    types.StageType
}

func (e *UnknownStageTypeError) Error() string {
	return fmt.Sprintf("cycle %s has no %q stage", e.CycleID, e.Type)
}

// PersistenceError wraps a failed commit. Nothing was written.
type PersistenceError struct {
	CycleID  string
	Conflict bool
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("commit stages of cycle %s: concurrent update: %v", e.CycleID, e.Err)
	}
	return fmt.Sprintf("commit stages of cycle %s: %v", e.CycleID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeploymentError means the edit was saved but the controller did not
// acknowledge the new configuration. Retrying the deploy is safe.
type DeploymentError struct {
	CycleID  string
	DeviceID string
	Stage    types.StageType
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("saved, but deploying %s to device %q failed: %v", e.Stage, e.DeviceID, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }
