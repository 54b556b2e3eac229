package discover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"syscall"

	"github.com/danieljhkim/sweep/internal/catalog"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/project"
)

// Resolver turns a candidate's artifact names into existing absolute
// directories.
type Resolver struct {
	fs   fsops.FS
	skip map[string]bool
}

// NewResolver creates a Resolver.
func NewResolver(fsys fsops.FS) *Resolver {
	return &Resolver{fs: fsys, skip: catalog.SkipDirs()}
}

// Resolve returns the artifact directories of c that exist as real
// directories reached without passing through a symlink. Recursive artifact names are also searched for below the root.
// No returned directory lies inside another returned directory.
func (r *Resolver) Resolve(ctx context.Context, c Candidate) ([]string, []error) {
	var (
		dirs []string
		errs []error
	)

	for _, name := range c.Match.Artifacts {
		if err := fsops.ValidateRelPath(name); err != nil {
			continue
		}
		p := filepath.Join(c.Root, filepath.FromSlash(name))
		info, err := fsops.LstatWithin(r.fs, c.Root, p)
		switch {
		case err == nil:
			if info.IsDir() {
				dirs = append(dirs, p)
			}
		case fsops.IsVanished(err), errors.Is(err, fsops.ErrSymlinkInPath), errors.Is(err, syscall.ENOTDIR):
			// Absent, or reached through a link out of the project.
		default:
			errs = append(errs, project.NewPathError(project.KindDiscoveryIO, p, err))
		}
	}

	for _, name := range c.Match.Artifacts {
		if !catalog.IsRecursive(name) {
			continue
		}
		nested, nerrs := r.findNested(ctx, c.Root, name)
		dirs = append(dirs, nested...)
		errs = append(errs, nerrs...)
	}

	return pruneNested(c.Root, dirs), errs
}

// findNested collects every directory called name strictly below root,
// skipping hidden and always-skip directories and never following symlinks.
func (r *Resolver) findNested(ctx context.Context, root, name string) ([]string, []error) {
	var (
		found []string
		errs  []error
	)

	var walk func(dir string)
	walk = func(dir string) {
		if ctx.Err() != nil {
			return
		}
		entries, err := r.fs.ReadDir(dir)
		if err != nil {
			if !fsops.IsVanished(err) {
				errs = append(errs, project.NewPathError(project.KindDiscoveryIO, dir, err))
			}
			return
		}
		for _, e := range entries {
			if !e.IsDir() || e.Type()&os.ModeSymlink != 0 {
				continue
			}
			child := filepath.Join(dir, e.Name())
			if e.Name() == name {
				if dir != root {
					found = append(found, child)
				}
				continue
			}
			if strings.HasPrefix(e.Name(), ".") || r.skip[e.Name()] {
				continue
			}
			walk(child)
		}
	}
	walk(root)

	sort.Strings(found)
	return found, errs
}

// pruneNested drops duplicates, paths outside root, and any path that lies
// inside another path of the list. Order of the survivors is preserved.
func pruneNested(root string, dirs []string) []string {
	valid := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if fsops.IsStrictDescendant(root, d) && !slices.Contains(valid, d) {
			valid = append(valid, d)
		}
	}

	out := make([]string, 0, len(valid))
	for _, d := range valid {
		nested := slices.ContainsFunc(valid, func(other string) bool {
			return fsops.IsStrictDescendant(other, d)
		})
		if !nested {
			out = append(out, d)
		}
	}
	return out
}
