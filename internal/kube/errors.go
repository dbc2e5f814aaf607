package kube

import (
	"errors"
	"fmt"
	"time"
)

// ApplyError indicates that the cluster rejected or failed a manifest.
// Manifests applied before the failing one are left in place.
type ApplyError struct {
	// Manifest is the logical name of the manifest that failed.
	Manifest string
	// Output is the trimmed kubectl output.
	Output string
	// Err is the underlying execution failure.
	Err error
}

func (e *ApplyError) Error() string {
	if e == nil {
		return "apply failed"
	}
	if e.Output != "" {
		return fmt.Sprintf("apply manifest %q: %v: %s", e.Manifest, e.Err, e.Output)
	}
	return fmt.Sprintf("apply manifest %q: %v", e.Manifest, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// IsApplyError reports whether err is a manifest apply failure.
func IsApplyError(err error) bool {
	var target *ApplyError
	return errors.As(err, &target)
}

// RollbackError indicates that a rollback could not be performed, either
// because no previous revision exists or the rollback itself failed.
type RollbackError struct {
	Namespace string
	Workload  string
	// NoPreviousRevision is set when the cluster has no revision to revert to.
	NoPreviousRevision bool
	Output             string
	Err                error
}

func (e *RollbackError) Error() string {
	if e == nil {
		return "rollback failed"
	}
	if e.NoPreviousRevision {
		return fmt.Sprintf("rollback %s/%s: no previous revision exists", e.Namespace, e.Workload)
	}
	return fmt.Sprintf("rollback %s/%s: %v", e.Namespace, e.Workload, e.Err)
}

func (e *RollbackError) Unwrap() error { return e.Err }

// IsRollbackError reports whether err is a rollback failure.
func IsRollbackError(err error) bool {
	var target *RollbackError
	return errors.As(err, &target)
}

// RolloutTimeoutError indicates that a workload did not become ready within
// the configured wait duration.
type RolloutTimeoutError struct {
	Namespace string
	Workload  string
	Timeout   time.Duration
}

func (e *RolloutTimeoutError) Error() string {
	if e == nil {
		return "rollout timed out"
	}
	return fmt.Sprintf("rollout of %s/%s did not become ready within %s", e.Namespace, e.Workload, e.Timeout)
}

// IsRolloutTimeout reports whether err is a rollout wait expiry.
func IsRolloutTimeout(err error) bool {
	var target *RolloutTimeoutError
	return errors.As(err, &target)
}
