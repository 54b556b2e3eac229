// Package fsops provides filesystem operations with safety guarantees.
//
// Every filesystem access made by a scan or a deletion goes through the FS
// interface, which keeps traversal symlink-aware (nothing here follows a
// link) and gives deletion a single place to verify containment before it
// removes anything.
//
// Key features:
//   - Lstat-based metadata, never following symlinks
//   - Containment checks for absolute paths, component by component
//   - Relative path validation for catalog-provided names
//   - Testable via the FS interface
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Lstat returns file info without following symlinks.
	Lstat(path string) (os.FileInfo, error)

	// ReadDir lists a directory without following symlinks in its entries.
	ReadDir(path string) ([]os.DirEntry, error)

	// RemoveAll removes a path and all its contents.
	RemoveAll(path string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Lstat returns file info without following symlinks.
func (r *RealFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// ReadDir lists a directory.
func (r *RealFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// RemoveAll removes a path and all its contents.
func (r *RealFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// IsVanished reports whether err means the path disappeared, which is a
// normal race when walking a live tree.
func IsVanished(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// IsDir reports whether path is a real directory (not a symlink to one).
func IsDir(fsys FS, path string) (bool, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		if IsVanished(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// ValidateRelPath validates a relative path for safety.
// Returns an error if the path is invalid or unsafe.
func ValidateRelPath(relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	// Reject empty or current directory
	if cleaned == "" || cleaned == "." {
		return fmt.Errorf("invalid path: empty or current directory")
	}

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid path: must be relative, got absolute path %q", cleaned)
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid path: path traversal not allowed in %q", cleaned)
	}

	return nil
}

// IsStrictDescendant reports whether path lies strictly inside root. Both
// must be absolute; they are cleaned before comparison.
func IsStrictDescendant(root, path string) bool {
	if !filepath.IsAbs(root) || !filepath.IsAbs(path) {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

// ErrSymlinkInPath indicates a path reaches its target through a symlink.
var ErrSymlinkInPath = errors.New("symlink in path")

// LstatWithin returns the info of path after checking that it lies strictly
// inside root and that no component between root and path is a symlink. A
// symlinked parent would let a path that is textually inside root resolve to
// a directory outside it. The final component may itself be a symlink; the
// caller decides what to do with it.
func LstatWithin(fsys FS, root, path string) (os.FileInfo, error) {
	if err := ValidateWithin(root, path); err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cur := filepath.Clean(root)
	parts := strings.Split(rel, string(filepath.Separator))
	for i, part := range parts {
		cur = filepath.Join(cur, part)
		info, err := fsys.Lstat(cur)
		if err != nil {
			return nil, err
		}
		if i == len(parts)-1 {
			return info, nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil, fmt.Errorf("%w: %s", ErrSymlinkInPath, cur)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", syscall.ENOTDIR, cur)
		}
	}
	return nil, fmt.Errorf("path %q is not inside %q", path, root)
}

// ValidateWithin returns an error unless path is strictly inside root.
func ValidateWithin(root, path string) error {
	if !IsStrictDescendant(root, path) {
		return fmt.Errorf("path %q is not inside %q", path, root)
	}
	return nil
}
