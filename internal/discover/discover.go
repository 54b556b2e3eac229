// Package discover walks a directory tree looking for project roots.
//
// A directory is a project root when one of its direct files matches the
// marker catalog. The walk never descends into a project root it has yielded,
// never follows symlinks, never enters hidden or always-skip directories, and
// stops descending below MaxDepth. Errors on individual directories are
// yielded to the caller and the walk carries on with the next branch.
package discover

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/sweep/internal/catalog"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/project"
)

// DefaultMaxDepth is the depth limit used when none is configured.
const DefaultMaxDepth = 5

// Candidate is a directory whose listing matched the marker catalog.
type Candidate struct {
	// Root is the absolute path of the directory.
	Root string

	// Match is the classification of the files directly inside Root.
	Match catalog.Match

	// Depth is the number of directory levels below the scan root.
	Depth int
}

// Walker performs depth-bounded project discovery.
type Walker struct {
	fs       fsops.FS
	maxDepth int
	skip     map[string]bool

	// OnVisit, when set, is called with every directory the walk reads.
	OnVisit func(dir string)
}

// NewWalker creates a Walker. A negative maxDepth means DefaultMaxDepth.
func NewWalker(fsys fsops.FS, maxDepth int) *Walker {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Walker{
		fs:       fsys,
		maxDepth: maxDepth,
		skip:     catalog.SkipDirs(),
	}
}

// Walk yields every project root under root. A non-nil error in the pair is
// a *project.PathError for a directory that could not be read; the candidate
// is empty in that case. Iteration stops when ctx is done or the consumer
// stops pulling.
func (w *Walker) Walk(ctx context.Context, root string) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		w.walk(ctx, filepath.Clean(root), 0, yield)
	}
}

// walk returns false when iteration must stop.
func (w *Walker) walk(ctx context.Context, dir string, depth int, yield func(Candidate, error) bool) bool {
	if depth > w.maxDepth {
		return true
	}
	if ctx.Err() != nil {
		return false
	}

	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		if fsops.IsVanished(err) && depth > 0 {
			return true
		}
		return yield(Candidate{}, project.NewPathError(project.KindDiscoveryIO, dir, err))
	}

	if w.OnVisit != nil {
		w.OnVisit(dir)
	}

	var files, dirs []string
	for _, e := range entries {
		switch {
		case e.Type()&os.ModeSymlink != 0:
			// Symlinked files still count as markers; symlinked dirs are never entered.
			files = append(files, e.Name())
		case e.IsDir():
			dirs = append(dirs, e.Name())
		default:
			files = append(files, e.Name())
		}
	}

	if m, ok := catalog.Classify(files); ok {
		return yield(Candidate{
			Root:  dir,
			Match: m,
			Depth: depth,
		}, nil)
	}

	sort.Strings(dirs)
	for _, name := range dirs {
		if strings.HasPrefix(name, ".") || w.skip[name] {
			continue
		}
		if !w.walk(ctx, filepath.Join(dir, name), depth+1, yield) {
			return false
		}
	}
	return true
}
