// Package engine provides the core scan and cleanup logic for sweep.
//
// The engine package is the orchestration layer between the front ends (CLI,
// TUI) and the lower-level packages. It runs discovery, fans enrichment out
// to a bounded worker pool, publishes progress, and executes deletions.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Scan: discovery, size aggregation and VCS checks into a Registry
//   - Aggregator: apparent-size sums over project and artifact trees
//   - Delete: validated, per-directory artifact removal
package engine

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/danieljhkim/sweep/internal/clock"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/gitx"
)

// Engine orchestrates all sweep operations.
// It is the main API surface called by the CLI and the TUI.
type Engine struct {
	fs      fsops.FS
	vcs     gitx.StatusChecker
	clock   clock.Clock
	logger  *slog.Logger
	workers int
}

// New creates a new Engine with the given dependencies. A nil logger discards
// output; workers <= 0 means one worker per CPU.
func New(
	fs fsops.FS,
	vcs gitx.StatusChecker,
	clk clock.Clock,
	logger *slog.Logger,
	workers int,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		fs:      fs,
		vcs:     vcs,
		clock:   clk,
		logger:  logger,
		workers: DefaultWorkers(workers),
	}
}

// DefaultWorkers returns n, or the CPU count when n is not positive.
func DefaultWorkers(n int) int {
	if n > 0 {
		return n
	}
	return max(runtime.NumCPU(), 1)
}

// Workers returns the size of the worker pool.
func (e *Engine) Workers() int {
	return e.workers
}

// pool returns an errgroup bounded by the engine's worker count.
func (e *Engine) pool(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	return g, gctx
}

// publish sends u on ch unless ch is nil or ctx is done.
func publish(ctx context.Context, ch chan<- Update, u Update) {
	if ch == nil {
		return
	}
	select {
	case ch <- u:
	case <-ctx.Done():
	}
}
