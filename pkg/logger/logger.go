// Package logger configures the process-wide structured logger used by the
// compiler driver.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
	Output io.Writer
}

// DefaultConfig only reports warnings, so that normal runs print nothing but
// the generated code.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
}

func Init(cfg Config) error {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case "", "text":
		handler = slog.NewTextHandler(cfg.Output, opts)
	case "json":
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// LogPhase logs the start of a compilation phase.
func LogPhase(phase string) {
	slog.Debug("Starting compilation phase", "phase", phase)
}

// LogPhaseComplete logs the end of a phase along with how long it took.
func LogPhaseComplete(phase string, start time.Time, args ...any) {
	args = append([]any{"phase", phase, "duration", time.Since(start)}, args...)
	slog.Debug("Completed compilation phase", args...)
}

func LogCompileFailed(phase string, err error) {
	slog.Debug("Compilation failed", "phase", phase, "error", err)
}
