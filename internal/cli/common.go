package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/danieljhkim/sweep/internal/clock"
	"github.com/danieljhkim/sweep/internal/config"
	"github.com/danieljhkim/sweep/internal/engine"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/gitx"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(cfg *config.Config, logger *slog.Logger) *engine.Engine {
	return engine.New(
		fsops.NewRealFS(),
		gitx.NewRealStatusChecker(),
		&clock.RealClock{},
		logger,
		cfg.Workers,
	)
}

// newLogger builds the run's logger. Reports log to stderr; the interactive
// UI owns the terminal, so it logs to --log-file or nowhere. The returned
// close function releases the log file.
func newLogger(cfg *config.Config, interactive bool, stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	noop := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }, nil
	}
	if interactive {
		return slog.New(slog.DiscardHandler), noop, nil
	}
	return slog.New(slog.NewTextHandler(stderr, opts)), noop, nil
}

// stdioIsTerminal reports whether both stdin and stdout are terminals, which
// the interactive UI needs.
var stdioIsTerminal = func() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}
