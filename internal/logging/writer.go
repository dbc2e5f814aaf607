package logging

import (
	"log/slog"
	"strings"
)

// Writer is an io.Writer implementation that forwards external tool output to slog.
// It is used to capture kubectl and hook-engine output line by line.
type Writer struct {
	logger *slog.Logger
	source string
}

// NewWriter constructs a Writer bound to the provided logger and source label.
func NewWriter(logger *slog.Logger, source string) *Writer {
	return &Writer{logger: logger, source: source}
}

// Write logs the given bytes line by line at info level.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger != nil {
		for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
			if line == "" {
				continue
			}
			w.logger.Info("tool output", "source", w.source, "line", line)
		}
	}
	return len(p), nil
}
