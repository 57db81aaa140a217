// internal/logging/logger.go
//
// Structured logging for the CLI and console surfaces. Diagnostics go to
// stderr in text or JSON form; the console additionally appends to a log
// file under .agentkit/logs so failures stay inspectable after the
// alternate screen is torn down.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"agentkit/internal/config"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// FileName is the log file kept under the project's .agentkit directory.
const FileName = "agentkit.log"

// Options configure New. The zero value logs info-level text to stderr.
type Options struct {
	Level     string    // debug, info, warn, error
	Format    string    // text or json
	Output    io.Writer // defaults to os.Stderr
	AddSource bool
}

// New builds a structured logger from the options.
func New(opts Options) (*slog.Logger, error) {
	level := slog.LevelInfo
	if opts.Level != "" {
		var err error
		if level, err = ParseLevel(opts.Level); err != nil {
			return nil, err
		}
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatText:
		handler = slog.NewTextHandler(out, hopts)
	case FormatJSON:
		handler = slog.NewJSONHandler(out, hopts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q (want %q or %q)", opts.Format, FormatText, FormatJSON)
	}
	return slog.New(handler), nil
}

// ParseLevel maps a level name onto its slog constant. The empty string
// means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// Default returns the stderr info-level text logger used before flags are
// parsed.
func Default() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// Discard returns a logger that drops everything. Handy as a test default.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithComponent tags a child logger with the component it serves.
func WithComponent(log *slog.Logger, name string) *slog.Logger {
	if log == nil {
		return Discard()
	}
	return log.With("component", name)
}

// OpenProjectFile opens the append-only log file under the project's
// .agentkit directory, creating the directory as needed. The caller owns
// the handle.
func OpenProjectFile(projectDir string) (*os.File, error) {
	logDir := filepath.Join(projectDir, config.AgentKitDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return f, nil
}
