package kube

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRollbackArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"rollout", "undo", "deployment/hello", "-n", "demo"},
		rollbackArgs("demo", "hello"))

	assert.Equal(t,
		[]string{"rollout", "undo", "deployment/hello"},
		rollbackArgs("", "hello"))
}

func TestRolloutStatusArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"rollout", "status", "deployment/hello", "-n", "demo", "--timeout=5m0s"},
		rolloutStatusArgs("demo", "hello", 5*time.Minute))

	assert.Equal(t,
		[]string{"rollout", "status", "deployment/hello"},
		rolloutStatusArgs("", "hello", 0))
}

func TestSessionArgs(t *testing.T) {
	s := NewSession("", "prod-cluster")
	assert.Equal(t,
		[]string{"--context", "prod-cluster", "get", "pods"},
		s.sessionArgs([]string{"get", "pods"}))

	plain := NewSession("", "")
	assert.Equal(t, []string{"get", "pods"}, plain.sessionArgs([]string{"get", "pods"}))
}

func TestIndicatesNoRevision(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{
			name:   "no rollout history",
			output: `error: no rollout history found for deployment "hello"`,
			want:   true,
		},
		{
			name:   "no revision found",
			output: "error: no revision found for deployment",
			want:   true,
		},
		{
			name:   "unrelated failure",
			output: "error: deployments.apps \"hello\" not found",
			want:   false,
		},
		{
			name:   "empty output",
			output: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, indicatesNoRevision(tt.output))
		})
	}
}

func TestIndicatesTimeout(t *testing.T) {
	assert.True(t, indicatesTimeout("error: timed out waiting for the condition"))
	assert.True(t, indicatesTimeout("context deadline exceeded"))
	assert.False(t, indicatesTimeout("error: server refused connection"))
}

func TestErrorTypes(t *testing.T) {
	applyErr := &ApplyError{Manifest: "deployment.yaml", Err: errors.New("exit status 1")}
	assert.True(t, IsApplyError(applyErr))
	assert.Contains(t, applyErr.Error(), "deployment.yaml")

	rbErr := &RollbackError{Namespace: "demo", Workload: "hello", NoPreviousRevision: true}
	assert.True(t, IsRollbackError(rbErr))
	assert.Contains(t, rbErr.Error(), "no previous revision")

	timeoutErr := &RolloutTimeoutError{Namespace: "demo", Workload: "hello", Timeout: 30 * time.Second}
	assert.True(t, IsRolloutTimeout(timeoutErr))
	assert.Contains(t, timeoutErr.Error(), "30s")

	assert.False(t, IsApplyError(errors.New("plain")))
	assert.False(t, IsRollbackError(applyErr))
}
