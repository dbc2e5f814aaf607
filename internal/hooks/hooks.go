// Package hooks runs named task lists before and after the core apply step.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	"github.com/k8s-cicd/deployctl/internal/values"
)

// Runner executes a named, ordered task list with a variable set. The task
// list is atomic from the caller's point of view: any failure marks the whole
// list as failed regardless of how many tasks already succeeded.
type Runner interface {
	Run(ctx context.Context, taskList string, vars values.Set) error
}

// ExecRunner runs task lists by invoking an external automation engine binary
// (ansible-playbook by default) with the variable set passed as extra vars.
type ExecRunner struct {
	// Command is the automation engine binary.
	Command string
	// Dir is the working directory containing the task lists.
	Dir string
	// Inventory is an optional inventory path passed to the engine.
	Inventory string
	// Stream, when set, additionally receives engine output as it is produced.
	Stream io.Writer

	logger *slog.Logger
}

// DefaultCommand is the automation engine used when none is configured.
const DefaultCommand = "ansible-playbook"

// NewExecRunner constructs an ExecRunner for the given engine configuration.
func NewExecRunner(command, dir, inventory string, logger *slog.Logger) *ExecRunner {
	if command == "" {
		command = DefaultCommand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{
		Command:   command,
		Dir:       dir,
		Inventory: inventory,
		logger:    logger,
	}
}

// Run executes the named task list. On failure it returns a TaskError naming
// the first failing task when the engine output identifies one.
func (r *ExecRunner) Run(ctx context.Context, taskList string, vars values.Set) error {
	args := r.buildArgs(taskList, vars)
	r.logger.Debug("running task list", "engine", r.Command, "taskList", taskList)

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if r.Stream != nil {
		cmd.Stdout = io.MultiWriter(&buf, r.Stream)
		cmd.Stderr = cmd.Stdout
	}

	err := cmd.Run()
	text := strings.TrimSpace(buf.String())
	if err != nil {
		return &TaskError{
			TaskList: taskList,
			Task:     parseFailedTask(text),
			Output:   text,
			Err:      fmt.Errorf("%s %s failed: %w", r.Command, taskList, err),
		}
	}

	r.logger.Debug("task list completed", "taskList", taskList)
	return nil
}

// buildArgs builds the engine argument list. Variables are passed in sorted
// key order so repeated invocations are reproducible.
func (r *ExecRunner) buildArgs(taskList string, vars values.Set) []string {
	args := []string{taskList}
	if r.Inventory != "" {
		args = append(args, "-i", r.Inventory)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--extra-vars", fmt.Sprintf("%s=%s", k, vars[k]))
	}
	return args
}

// parseFailedTask scans engine output for the name of the task that failed.
// Ansible prints "TASK [name]" banners before execution and "fatal:" or
// "FAILED!" lines on failure; the last banner before a failure wins.
func parseFailedTask(output string) string {
	var lastTask string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "TASK [") {
			if end := strings.Index(trimmed, "]"); end > len("TASK [") {
				lastTask = trimmed[len("TASK ["):end]
			}
			continue
		}
		if strings.HasPrefix(trimmed, "fatal:") || strings.Contains(trimmed, "FAILED!") {
			return lastTask
		}
	}
	return ""
}
