package orchestrator

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline stage in which a failure occurred.
type Stage string

const (
	// StagePreCheck is the pre-deploy task list stage.
	StagePreCheck Stage = "pre-check"
	// StageRender is the manifest rendering stage.
	StageRender Stage = "render"
	// StageApply is the manifest apply stage.
	StageApply Stage = "apply"
	// StageWaitRollout is the rollout readiness wait.
	StageWaitRollout Stage = "wait-rollout"
	// StagePostCheck is the post-deploy task list stage.
	StagePostCheck Stage = "post-check"
)

// StageError is the failure surfaced by a deployment attempt. It names the
// stage that failed, the underlying cause, and whether a rollback was
// attempted and how it went.
type StageError struct {
	// Stage is the pipeline stage that failed.
	Stage Stage
	// Err is the underlying failure.
	Err error
	// RollbackAttempted reports whether an automatic rollback was triggered.
	RollbackAttempted bool
	// RollbackErr is the rollback failure, when the rollback itself failed.
	RollbackErr error
}

func (e *StageError) Error() string {
	if e == nil {
		return "deployment failed"
	}
	msg := fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	switch {
	case !e.RollbackAttempted:
		return msg
	case e.RollbackErr != nil:
		return fmt.Sprintf("%s; rollback failed: %v", msg, e.RollbackErr)
	default:
		return fmt.Sprintf("%s; rolled back to previous revision", msg)
	}
}

func (e *StageError) Unwrap() error { return e.Err }

// AsStageError extracts a StageError from err when present.
func AsStageError(err error) (*StageError, bool) {
	var target *StageError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
