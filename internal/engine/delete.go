package engine

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/project"
)

// target is a validated deletion target.
type target struct {
	dir      string
	root     string
	measured int64
}

// Delete removes the requested artifact directories.
// Algorithm steps:
// 1. Validate every directory against the registry (no filesystem access)
// 2. Remove directories on the worker pool, one outcome per directory
// 3. Apply successful outcomes to the registry
// 4. Return result
//
// A directory that is not a registered artifact directory fails the whole
// request with ErrInvalidSelection before anything is touched. After that,
// per-directory failures never abort the batch. A removal that has started is
// not interrupted by ctx.
func (e *Engine) Delete(ctx context.Context, req *DeleteRequest) (*DeleteResult, error) {
	if req.Registry == nil {
		return nil, ErrNoRegistry
	}

	// Step 1: Validate
	targets, err := validateTargets(req.Registry, req.Dirs)
	if err != nil {
		return nil, err
	}

	// Step 2: Remove
	results := make([]DirResult, len(targets))
	g, _ := e.pool(context.WithoutCancel(ctx))
	for i, t := range targets {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = DirResult{
					Path:    t.dir,
					Project: t.root,
					Outcome: OutcomeFailed,
					Err:     project.NewPathError(project.KindDeletionFailure, t.dir, ctx.Err()),
				}
				return nil
			}
			results[i] = e.removeOne(t)
			return nil
		})
	}
	_ = g.Wait()

	// Step 3: Apply to registry
	result := &DeleteResult{Results: results}
	for i, res := range results {
		if res.Outcome == OutcomeFailed {
			e.logger.Warn("delete failed", "path", res.Path, "error", res.Err)
			continue
		}
		result.BytesFreed += res.Bytes
		if req.Registry.ApplyDeletion(res.Project, res.Path, targets[i].measured) {
			result.Dropped = append(result.Dropped, res.Project)
		}
		e.logger.Debug("artifact removed",
			"path", res.Path, "outcome", res.Outcome.String(), "bytes", res.Bytes)
	}

	return result, nil
}

// validateTargets maps each directory to its owning project. Duplicates are
// collapsed, first occurrence wins.
func validateTargets(reg *project.Registry, dirs []string) ([]target, error) {
	targets := make([]target, 0, len(dirs))
	seen := make(map[string]bool, len(dirs))

	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true

		owner, ok := reg.OwnerOf(dir)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a registered artifact directory", ErrInvalidSelection, dir)
		}
		if err := fsops.ValidateWithin(owner.RootPath, dir); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
		targets = append(targets, target{
			dir:      dir,
			root:     owner.RootPath,
			measured: owner.ArtifactSizes[dir],
		})
	}

	return targets, nil
}

// removeOne deletes one validated directory.
func (e *Engine) removeOne(t target) DirResult {
	res := DirResult{Path: t.dir, Project: t.root}

	fail := func(err error) DirResult {
		res.Outcome = OutcomeFailed
		res.Err = project.NewPathError(project.KindDeletionFailure, t.dir, err)
		return res
	}

	// The tree may have changed since the scan; re-check every component.
	info, err := fsops.LstatWithin(e.fs, t.root, t.dir)
	if err != nil {
		if fsops.IsVanished(err) {
			res.Outcome = OutcomeAlreadyGone
			return res
		}
		return fail(err)
	}
	if !info.IsDir() {
		return fail(ErrNotADirectory)
	}

	if err := e.removeAll(t.dir); err != nil {
		return fail(err)
	}

	res.Outcome = OutcomeRemoved
	res.Bytes = t.measured
	return res
}

// removeRetries bounds how often a removal that raced with a writer is retried.
const removeRetries = 3

func newRemoveBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 20 * time.Millisecond
	bo.MaxInterval = 200 * time.Millisecond
	return backoff.WithMaxRetries(bo, removeRetries)
}

// isTransientRemoveError reports whether a failed removal may succeed on a
// second attempt, e.g. a build tool wrote into the tree while it was removed.
func isTransientRemoveError(err error) bool {
	return errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, syscall.EBUSY)
}

// removeAll removes dir, retrying transient failures with backoff.
func (e *Engine) removeAll(dir string) error {
	return backoff.Retry(func() error {
		err := e.fs.RemoveAll(dir)
		if err != nil && !isTransientRemoveError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, newRemoveBackoff())
}
