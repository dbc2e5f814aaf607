package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/k8s-cicd/deployctl/internal/render"
	"github.com/k8s-cicd/deployctl/internal/values"
)

// ClusterGateway is the cluster capability consumed by the orchestrator.
// It is satisfied by kube.Session; its internals are out of scope here.
type ClusterGateway interface {
	Apply(ctx context.Context, manifests []render.Manifest) error
	RollbackWorkload(ctx context.Context, namespace, workload string) error
	WaitForRollout(ctx context.Context, namespace, workload string, timeout time.Duration) error
}

// HookRunner executes a named task list with a variable set.
// It is satisfied by hooks.ExecRunner.
type HookRunner interface {
	Run(ctx context.Context, taskList string, vars values.Set) error
}

// Spec describes one deployment: what to render, where to apply it, and
// which task lists wrap the apply.
type Spec struct {
	// App is the application / workload name.
	App string
	// Namespace is the target namespace.
	Namespace string
	// Image is the container image reference being deployed.
	Image string
	// Replicas is the desired replica count.
	Replicas int
	// Templates are the manifest templates to render, in declaration order.
	Templates []render.Template
	// Values is the resolved variable set for rendering and hooks.
	Values values.Set
	// OutputDir is where rendered manifests are written.
	OutputDir string
	// PreCheck is the pre-deploy task list; empty skips the stage.
	PreCheck string
	// PostCheck is the post-deploy task list; empty skips the stage.
	PostCheck string
	// RolloutTimeout bounds the wait for the workload to become ready.
	RolloutTimeout time.Duration
	// DisableRollback turns off the automatic rollback on apply and
	// post-check failures.
	DisableRollback bool
}

// key identifies the serialization unit for concurrent deploy attempts.
func (s Spec) key() string {
	return s.Namespace + "/" + s.App
}

// Orchestrator runs deployment attempts against a cluster gateway and hook
// runner. Attempts for the same namespace/application pair are serialized;
// attempts for distinct pairs may run concurrently.
type Orchestrator struct {
	gateway  ClusterGateway
	hooks    HookRunner
	renderer *render.Renderer
	logger   *slog.Logger
	locks    keyedLock
}

// New constructs an Orchestrator from its collaborators.
func New(gateway ClusterGateway, hookRunner HookRunner, renderer *render.Renderer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gateway:  gateway,
		hooks:    hookRunner,
		renderer: renderer,
		logger:   logger,
	}
}

// Deploy runs one deployment attempt through the state machine:
// PENDING -> PRE_CHECK -> APPLIED -> POST_CHECK -> SUCCEEDED. Pre-check
// failures end in FAILED with no rollback since nothing was applied yet;
// apply, rollout-wait and post-check failures trigger exactly one rollback
// attempt because cluster state has already been mutated.
// The returned Attempt is always non-nil and carries the terminal status.
func (o *Orchestrator) Deploy(ctx context.Context, spec Spec) (*Attempt, error) {
	attempt := newAttempt(spec)

	unlock := o.locks.lock(spec.key())
	defer unlock()

	log := o.logger.With("attempt", attempt.ID, "app", spec.App, "namespace", spec.Namespace)
	log.Info("starting deployment", "image", spec.Image, "replicas", spec.Replicas)

	attempt.Status = StatusPreCheck
	if spec.PreCheck != "" {
		log.Info("running pre-deploy checks", "taskList", spec.PreCheck)
		if err := o.hooks.Run(ctx, spec.PreCheck, spec.Values.Clone()); err != nil {
			attempt.finish(StatusFailed)
			return attempt, &StageError{Stage: StagePreCheck, Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		attempt.finish(StatusFailed)
		return attempt, &StageError{Stage: StagePreCheck, Err: err}
	}

	manifests, err := o.renderer.RenderAll(spec.Templates, spec.Values, spec.OutputDir)
	if err != nil {
		// Rendering failed before any cluster mutation: no rollback.
		attempt.finish(StatusFailed)
		return attempt, &StageError{Stage: StageRender, Err: err}
	}

	log.Info("applying manifests", "count", len(manifests))
	if err := o.gateway.Apply(ctx, manifests); err != nil {
		return attempt, o.failWithRollback(ctx, attempt, spec, StageApply, err, log)
	}
	attempt.Status = StatusApplied

	attempt.Status = StatusPostCheck
	log.Info("waiting for rollout", "timeout", spec.RolloutTimeout)
	if err := o.gateway.WaitForRollout(ctx, spec.Namespace, spec.App, spec.RolloutTimeout); err != nil {
		return attempt, o.failWithRollback(ctx, attempt, spec, StageWaitRollout, err, log)
	}

	if spec.PostCheck != "" {
		log.Info("running post-deploy checks", "taskList", spec.PostCheck)
		if err := o.hooks.Run(ctx, spec.PostCheck, spec.Values.Clone()); err != nil {
			return attempt, o.failWithRollback(ctx, attempt, spec, StagePostCheck, err, log)
		}
	}

	attempt.finish(StatusSucceeded)
	log.Info("deployment succeeded", "attempt", attempt.ID)
	return attempt, nil
}

// failWithRollback marks the attempt failed and, unless rollback is disabled,
// performs exactly one rollback attempt. A successful rollback moves the
// attempt to ROLLED_BACK; a failed one leaves it FAILED with the rollback
// error recorded alongside the original failure.
func (o *Orchestrator) failWithRollback(ctx context.Context, attempt *Attempt, spec Spec, stage Stage, cause error, log *slog.Logger) error {
	attempt.finish(StatusFailed)
	stageErr := &StageError{Stage: stage, Err: cause}

	if spec.DisableRollback {
		log.Error("stage failed, rollback disabled", "stage", stage, "error", cause)
		return stageErr
	}

	log.Warn("stage failed, rolling back", "stage", stage, "error", cause)
	stageErr.RollbackAttempted = true

	// The deploy context may already be cancelled or expired; rollback still
	// has to run, so it gets its own bounded context.
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	if err := o.Rollback(rbCtx, spec.Namespace, spec.App); err != nil {
		stageErr.RollbackErr = err
		log.Error("rollback failed", "error", err)
		return stageErr
	}

	attempt.finish(StatusRolledBack)
	log.Info("rollback succeeded")
	return stageErr
}

// rollbackTimeout bounds the automatic rollback triggered by a failed stage.
const rollbackTimeout = 5 * time.Minute

// Rollback restores the previous known-good revision of the named workload.
// It performs a single gateway call: a gateway that reports no prior revision
// cannot succeed on retry, so the failure is surfaced as fatal.
func (o *Orchestrator) Rollback(ctx context.Context, namespace, workload string) error {
	o.logger.Info("rolling back workload", "namespace", namespace, "workload", workload)
	return o.gateway.RollbackWorkload(ctx, namespace, workload)
}
