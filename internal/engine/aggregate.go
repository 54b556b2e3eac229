package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/project"
)

// Aggregator computes apparent sizes of project trees. It holds no state and
// is safe to use from concurrent workers on different projects.
type Aggregator struct {
	fs fsops.FS
}

// NewAggregator creates an Aggregator.
func NewAggregator(fs fsops.FS) *Aggregator {
	return &Aggregator{fs: fs}
}

// tally accumulates one traversal.
type tally struct {
	bytes  int64
	latest time.Time
	errs   []error
}

// Aggregate measures p. The full size and each artifact directory are summed
// by independent traversals. LastModified is the newest file anywhere under
// the root. Vanished entries are skipped; unreadable ones are returned as
// errors and their subtree is left out.
func (a *Aggregator) Aggregate(ctx context.Context, p project.Project) (project.Sizes, []error) {
	var full tally
	a.sum(ctx, p.RootPath, &full)

	sizes := project.Sizes{
		Full:         full.bytes,
		PerArtifact:  make(map[string]int64, len(p.ArtifactDirs)),
		LastModified: full.latest,
	}
	errs := full.errs

	for _, dir := range p.ArtifactDirs {
		var t tally
		a.sum(ctx, dir, &t)
		sizes.PerArtifact[dir] = t.bytes
		sizes.Artifact += t.bytes
		errs = append(errs, t.errs...)
	}

	sizes.Artifact = min(sizes.Artifact, sizes.Full)
	return sizes, errs
}

// sum walks dir depth-first.
func (a *Aggregator) sum(ctx context.Context, dir string, t *tally) {
	if ctx.Err() != nil {
		return
	}

	entries, err := a.fs.ReadDir(dir)
	if err != nil {
		if !fsops.IsVanished(err) {
			t.errs = append(t.errs, project.NewPathError(project.KindSizeIO, dir, err))
		}
		return
	}

	for _, e := range entries {
		if e.Type()&os.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			a.sum(ctx, path, t)
			continue
		}

		info, err := a.fs.Lstat(path)
		if err != nil {
			if !fsops.IsVanished(err) {
				t.errs = append(t.errs, project.NewPathError(project.KindSizeIO, path, err))
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		t.bytes += info.Size()
		if info.ModTime().After(t.latest) {
			t.latest = info.ModTime()
		}
	}
}
