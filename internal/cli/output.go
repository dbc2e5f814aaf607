package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/k8s-cicd/deployctl/internal/orchestrator"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
)

// statusColor picks the display color for a terminal attempt status.
func statusColor(status orchestrator.Status) *color.Color {
	switch status {
	case orchestrator.StatusSucceeded:
		return successColor
	case orchestrator.StatusRolledBack:
		return warningColor
	default:
		return failureColor
	}
}

// printDeploySummary writes the human-facing outcome of a deployment attempt:
// final status, the failing stage when there is one, and the rollback outcome
// when a rollback was attempted.
func printDeploySummary(w io.Writer, attempt *orchestrator.Attempt, err error) {
	if attempt == nil {
		return
	}

	fmt.Fprintln(w)
	_, _ = statusColor(attempt.Status).Fprintf(w, "deployment %s\n", attempt.Status)
	fmt.Fprintf(w, "  attempt:   %d\n", attempt.ID)
	fmt.Fprintf(w, "  app:       %s\n", attempt.App)
	fmt.Fprintf(w, "  namespace: %s\n", attempt.Namespace)
	if attempt.Image != "" {
		fmt.Fprintf(w, "  image:     %s\n", attempt.Image)
	}
	if !attempt.FinishedAt.IsZero() {
		fmt.Fprintf(w, "  duration:  %s\n", attempt.FinishedAt.Sub(attempt.StartedAt).Round(time.Millisecond))
	}

	stageErr, ok := orchestrator.AsStageError(err)
	if !ok {
		return
	}

	fmt.Fprintf(w, "  failed stage: %s\n", stageErr.Stage)
	fmt.Fprintf(w, "  cause:        %v\n", stageErr.Err)
	switch {
	case !stageErr.RollbackAttempted:
		fmt.Fprintln(w, "  rollback:     not attempted")
	case stageErr.RollbackErr != nil:
		_, _ = failureColor.Fprintf(w, "  rollback:     FAILED: %v\n", stageErr.RollbackErr)
	default:
		_, _ = warningColor.Fprintln(w, "  rollback:     succeeded, previous revision restored")
	}
}
