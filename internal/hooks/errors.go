package hooks

import (
	"errors"
	"fmt"
)

// TaskError indicates that a task in a pre- or post-deploy task list failed.
type TaskError struct {
	// TaskList is the name of the task list that was running.
	TaskList string
	// Task is the first failing task, when the engine output identifies it.
	Task string
	// Output is the trimmed engine output.
	Output string
	// Err is the underlying execution failure.
	Err error
}

func (e *TaskError) Error() string {
	if e == nil {
		return "task list failed"
	}
	if e.Task != "" {
		return fmt.Sprintf("task list %q failed at task %q", e.TaskList, e.Task)
	}
	return fmt.Sprintf("task list %q failed: %v", e.TaskList, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// IsTaskError reports whether err is a hook task failure.
func IsTaskError(err error) bool {
	var target *TaskError
	return errors.As(err, &target)
}
