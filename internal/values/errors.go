package values

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError indicates that a values source is unreadable or malformed,
// or that required keys are absent from a resolved Set.
type ConfigError struct {
	// Source is the values source path, when the failure is tied to one.
	Source string
	// Missing lists required keys absent from the Set.
	Missing []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "values configuration error"
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required values: %s", strings.Join(e.Missing, ", "))
	}
	if e.Source != "" {
		return fmt.Sprintf("values source %q: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("values configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is a values configuration failure.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}
