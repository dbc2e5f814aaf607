// Package orchestrator sequences render, pre-flight checks, apply, rollout
// verification and rollback into a single deployment attempt.
package orchestrator

import (
	"sync/atomic"
	"time"
)

// Status is the state of a deployment attempt.
type Status int

const (
	// StatusPending means the attempt has been created but not started.
	StatusPending Status = iota
	// StatusPreCheck means the pre-deploy task list is running.
	StatusPreCheck
	// StatusApplied means manifests were applied to the cluster.
	StatusApplied
	// StatusPostCheck means the rollout wait and post-deploy task list are running.
	StatusPostCheck
	// StatusSucceeded is the successful terminal state.
	StatusSucceeded
	// StatusFailed is the terminal state for an unrecovered failure.
	StatusFailed
	// StatusRolledBack is the terminal state after a successful rollback.
	StatusRolledBack
)

// String returns the textual form of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusPreCheck:
		return "PRE_CHECK"
	case StatusApplied:
		return "APPLIED"
	case StatusPostCheck:
		return "POST_CHECK"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	case StatusRolledBack:
		return "ROLLED_BACK"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the status is a terminal state.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusRolledBack
}

// Attempt represents one orchestration run. It lives only for the duration of
// a single deploy call; the cluster's own revision history is the durable
// record of prior state.
type Attempt struct {
	// ID is a monotonically increasing attempt identifier.
	ID uint64
	// App is the application / workload name.
	App string
	// Namespace is the target namespace.
	Namespace string
	// Image is the container image reference being deployed.
	Image string
	// Replicas is the desired replica count.
	Replicas int
	// Status is the current state of the attempt.
	Status Status
	// StartedAt marks the beginning of the attempt.
	StartedAt time.Time
	// FinishedAt marks when a terminal state was reached.
	FinishedAt time.Time
}

// attemptCounter provides process-wide monotonically increasing attempt IDs.
var attemptCounter atomic.Uint64

func newAttempt(spec Spec) *Attempt {
	return &Attempt{
		ID:        attemptCounter.Add(1),
		App:       spec.App,
		Namespace: spec.Namespace,
		Image:     spec.Image,
		Replicas:  spec.Replicas,
		Status:    StatusPending,
		StartedAt: time.Now().UTC(),
	}
}

func (a *Attempt) finish(status Status) {
	a.Status = status
	a.FinishedAt = time.Now().UTC()
}
