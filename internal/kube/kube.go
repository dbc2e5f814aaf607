// Package kube provides low-level integration with Kubernetes via kubectl.
package kube

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/k8s-cicd/deployctl/internal/render"
)

// Session wraps kubectl execution with explicit kubeconfig and context
// selection. It is created once at CLI entry and passed through the
// orchestration call chain instead of relying on implicit login state.
type Session struct {
	Kubeconfig string
	Context    string

	// Stdout and Stderr receive kubectl output for streaming commands.
	// They default to the process streams when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// NewSession constructs a new cluster session.
func NewSession(kubeconfig, kubeContext string) *Session {
	return &Session{
		Kubeconfig: kubeconfig,
		Context:    kubeContext,
	}
}

// Apply applies the manifests in the order supplied using kubectl apply -f.
// It stops at the first failure and returns an ApplyError naming the failing
// manifest; manifests applied before the failure are left in place.
func (s *Session) Apply(ctx context.Context, manifests []render.Manifest) error {
	for _, m := range manifests {
		output, err := s.runKubectl(ctx, "apply", "-f", m.Path)
		if err != nil {
			return &ApplyError{Manifest: m.Name, Output: output, Err: err}
		}
	}
	return nil
}

// RollbackWorkload reverts the named workload to its previous revision via
// kubectl rollout undo. A missing revision history surfaces as a RollbackError.
func (s *Session) RollbackWorkload(ctx context.Context, namespace, workload string) error {
	output, err := s.runKubectl(ctx, rollbackArgs(namespace, workload)...)
	if err != nil {
		return &RollbackError{
			Namespace:          namespace,
			Workload:           workload,
			NoPreviousRevision: indicatesNoRevision(output),
			Output:             output,
			Err:                err,
		}
	}
	return nil
}

// WaitForRollout blocks until the workload reports ready or the timeout
// elapses, using kubectl rollout status. Expiry surfaces as a RolloutTimeoutError.
func (s *Session) WaitForRollout(ctx context.Context, namespace, workload string, timeout time.Duration) error {
	output, err := s.runKubectl(ctx, rolloutStatusArgs(namespace, workload, timeout)...)
	if err != nil {
		if indicatesTimeout(output) || ctx.Err() == context.DeadlineExceeded {
			return &RolloutTimeoutError{Namespace: namespace, Workload: workload, Timeout: timeout}
		}
		return fmt.Errorf("rollout status for %s/%s: %w: %s", namespace, workload, err, firstLine(output))
	}
	return nil
}

// Status streams a simple status view for deployments, services and pods.
func (s *Session) Status(ctx context.Context, namespace string, watch bool) error {
	args := []string{"get", "deploy,svc,pods"}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	if watch {
		args = append(args, "-w")
	}
	return s.runStreaming(ctx, args...)
}

// rollbackArgs builds the kubectl argument list for a rollout undo.
func rollbackArgs(namespace, workload string) []string {
	args := []string{"rollout", "undo", "deployment/" + workload}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	return args
}

// rolloutStatusArgs builds the kubectl argument list for a rollout status wait.
func rolloutStatusArgs(namespace, workload string, timeout time.Duration) []string {
	args := []string{"rollout", "status", "deployment/" + workload}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	if timeout > 0 {
		args = append(args, fmt.Sprintf("--timeout=%s", timeout))
	}
	return args
}

// indicatesNoRevision reports whether kubectl output means the workload has
// no revision history to roll back to.
func indicatesNoRevision(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "no rollout history") ||
		strings.Contains(lower, "no revision found") ||
		strings.Contains(lower, "unable to find last revision")
}

// indicatesTimeout reports whether kubectl output means a rollout wait expired.
func indicatesTimeout(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "timed out") || strings.Contains(lower, "deadline exceeded")
}

func firstLine(output string) string {
	if i := strings.IndexByte(output, '\n'); i >= 0 {
		return output[:i]
	}
	return output
}

// runKubectl executes kubectl with session flags and returns combined output.
func (s *Session) runKubectl(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "kubectl", s.sessionArgs(args)...)
	cmd.Env = s.commandEnv()
	output, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(output)), fmt.Errorf("kubectl %v failed: %w", args, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// runStreaming executes kubectl with output attached to the session streams.
func (s *Session) runStreaming(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "kubectl", s.sessionArgs(args)...)
	cmd.Env = s.commandEnv()
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("kubectl %v failed: %w", args, err)
	}
	return nil
}

func (s *Session) sessionArgs(args []string) []string {
	cmdArgs := make([]string, 0, len(args)+2)
	if s.Context != "" {
		cmdArgs = append(cmdArgs, "--context", s.Context)
	}
	return append(cmdArgs, args...)
}

func (s *Session) commandEnv() []string {
	if s.Kubeconfig == "" {
		return nil
	}
	return append(os.Environ(), "KUBECONFIG="+s.Kubeconfig)
}
