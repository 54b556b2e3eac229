package engine

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/sweep/internal/fsops"
)

// ResolveRoot resolves a user-provided scan root (absolute, relative, or
// containing "..") to a clean absolute path of an existing directory. A root
// given as a symlink is resolved once here; nothing below it is followed.
func ResolveRoot(fsys fsops.FS, userPath, cwd string) (string, error) {
	if userPath == "" {
		userPath = "."
	}

	var absPath string
	if filepath.IsAbs(userPath) {
		absPath = userPath
	} else {
		absPath = filepath.Join(cwd, userPath)
	}
	absPath = filepath.Clean(absPath)

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidRoot, userPath, err)
	}

	ok, err := fsops.IsDir(fsys, resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidRoot, userPath, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, userPath)
	}

	return resolved, nil
}
