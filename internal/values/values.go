// Package values loads and validates the variable sets used for manifest
// rendering and hook execution.
package values

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Set represents a resolved mapping of variable names to string values.
// A Set is treated as immutable once resolved; callers that need to extend
// one should Merge into a new Set instead of mutating it in place.
type Set map[string]string

// FromOS builds a Set from the current process environment.
func FromOS() Set {
	out := make(Set)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = parts[1]
	}
	return out
}

// Resolve reads a key=value values source file and returns the resolved Set.
// Blank lines and # comments are ignored; a malformed source produces a ConfigError.
func Resolve(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	envMap, err := godotenv.Parse(f)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}

	out := make(Set, len(envMap))
	for k, v := range envMap {
		out[k] = v
	}
	return out, nil
}

// Merge merges several Sets into one, later Sets overriding earlier keys.
func Merge(sets ...Set) Set {
	out := make(Set)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// Clone returns an independent copy of the Set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Require validates that every named key is present in the Set and returns a
// single ConfigError listing all missing keys.
func (s Set) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if _, ok := s[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ConfigError{Missing: missing}
	}
	return nil
}

// ParseInline parses a comma-separated k=v list (e.g. "A=1,B=2") into a Set.
func ParseInline(s string) (Set, error) {
	out := make(Set)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid inline value %q, expected key=value", part)
		}
		key := strings.TrimSpace(kv[0])
		if key == "" {
			return nil, fmt.Errorf("empty key in inline value %q", part)
		}
		out[key] = strings.TrimSpace(kv[1])
	}
	return out, nil
}
