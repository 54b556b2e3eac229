package engine

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/danieljhkim/sweep/internal/discover"
	"github.com/danieljhkim/sweep/internal/gitx"
	"github.com/danieljhkim/sweep/internal/project"
)

// errorLog collects per-path errors from concurrent workers. A path error
// seen twice, e.g. from the full and the artifact traversal of the same
// subtree, is kept once.
type errorLog struct {
	mu   sync.Mutex
	errs []error
	seen map[string]bool
}

func (l *errorLog) add(errs ...error) {
	if len(errs) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = make(map[string]bool)
	}
	for _, err := range errs {
		var pe *project.PathError
		if errors.As(err, &pe) {
			key := string(pe.Kind) + "\x00" + pe.Path
			if l.seen[key] {
				continue
			}
			l.seen[key] = true
		}
		l.errs = append(l.errs, err)
	}
}

// sorted returns the errors ordered by path.
func (l *errorLog) sorted() []error {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := append([]error(nil), l.errs...)
	sort.SliceStable(out, func(i, j int) bool {
		return errorPath(out[i]) < errorPath(out[j])
	})
	return out
}

func errorPath(err error) string {
	var pe *project.PathError
	if errors.As(err, &pe) {
		return pe.Path
	}
	return ""
}

// Scan discovers projects under req.Root, registers them, and enriches each
// with sizes and VCS status.
// Algorithm steps:
// 1. Resolve and validate the root
// 2. Walk the tree sequentially, registering each classified project
// 3. Fan size and VCS tasks out to the worker pool
// 4. Publish ScanDone and return collected errors
//
// Only an unusable root is returned as an error. Cancelling ctx stops new
// work; what was registered so far stays in the registry.
func (e *Engine) Scan(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	if req.Registry == nil {
		return nil, ErrNoRegistry
	}
	start := e.clock.Now()

	// Step 1: Resolve and validate the root
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}
	root, err := ResolveRoot(e.fs, req.Root, cwd)
	if err != nil {
		return nil, err
	}

	log := &errorLog{}
	result := &ScanResult{Root: root}

	// Step 2: Discover
	walker := discover.NewWalker(e.fs, req.MaxDepth)
	walker.OnVisit = func(string) { result.Dirs++ }
	resolver := discover.NewResolver(e.fs)
	for cand, err := range walker.Walk(ctx, root) {
		if err != nil {
			e.logger.Warn("discovery error", "error", err)
			log.add(err)
			continue
		}

		dirs, errs := resolver.Resolve(ctx, cand)
		log.add(errs...)

		p := project.New(cand.Root, cand.Match, dirs)
		if err := req.Registry.Add(p); err != nil {
			e.logger.Debug("skipping duplicate project", "root", cand.Root)
			continue
		}
		e.logger.Debug("discovered project",
			"root", p.RootPath, "ecosystem", p.Ecosystem.String(),
			"depth", cand.Depth, "artifacts", len(dirs))
		publish(ctx, req.Updates, Update{Kind: UpdateDiscovered, Root: p.RootPath})
	}
	publish(ctx, req.Updates, Update{Kind: UpdateDiscoveryDone})

	// Step 3: Enrich
	e.enrich(ctx, req, log)

	// Step 4: Done
	result.Projects = req.Registry.Len()
	result.Errors = log.sorted()
	result.Cancelled = ctx.Err() != nil
	result.Duration = e.clock.Now().Sub(start)
	publish(ctx, req.Updates, Update{Kind: UpdateScanDone})

	e.logger.Debug("scan finished",
		"root", root, "projects", result.Projects, "dirs", result.Dirs, "errors", len(result.Errors),
		"duration", result.Duration, "cancelled", result.Cancelled)
	return result, nil
}

// enrich runs one size task and one VCS task per registered project on the
// worker pool and waits for all of them.
func (e *Engine) enrich(ctx context.Context, req *ScanRequest, log *errorLog) {
	agg := NewAggregator(e.fs)
	g, gctx := e.pool(ctx)

	for _, p := range req.Registry.Snapshot() {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			sizes, errs := agg.Aggregate(gctx, p)
			log.add(errs...)
			if gctx.Err() != nil {
				return nil
			}
			if req.Registry.SetSizes(p.RootPath, sizes) {
				publish(gctx, req.Updates, Update{Kind: UpdateSized, Root: p.RootPath})
			}
			return nil
		})

		g.Go(func() error {
			status, err := e.vcs.Status(gctx, p.RootPath)
			if gctx.Err() != nil {
				return nil
			}
			if err != nil {
				e.logger.Debug("vcs check failed", "root", p.RootPath, "error", err)
				log.add(project.NewPathError(project.KindVCSUnavailable, p.RootPath, err))
				status = gitx.StatusNone
			}
			if req.Registry.SetVCS(p.RootPath, status) {
				publish(gctx, req.Updates, Update{Kind: UpdateVCSChecked, Root: p.RootPath})
			}
			return nil
		})
	}

	// Tasks never fail; errors are collected in log.
	_ = g.Wait()
}
