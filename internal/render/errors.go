package render

import (
	"errors"
	"fmt"
)

// MissingVariableError indicates that a template references a variable absent
// from the value set.
type MissingVariableError struct {
	// Template is the logical name of the failing template.
	Template string
	// Variable is the unresolved placeholder name.
	Variable string
}

func (e *MissingVariableError) Error() string {
	if e == nil {
		return "missing template variable"
	}
	return fmt.Sprintf("template %q references undefined variable %q", e.Template, e.Variable)
}

// IsMissingVariable reports whether err names an unresolved template variable.
func IsMissingVariable(err error) bool {
	var target *MissingVariableError
	return errors.As(err, &target)
}
