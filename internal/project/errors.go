package project

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoot indicates the scan root does not exist or is not a directory.
	ErrInvalidRoot = errors.New("invalid scan root")

	// ErrInvalidSelection indicates a deletion request named a path outside
	// every registered artifact set.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrAlreadyGone indicates an artifact directory vanished before deletion.
	ErrAlreadyGone = errors.New("already gone")
)

// Kind classifies per-path errors collected during a run.
type Kind string

const (
	KindDiscoveryIO     Kind = "discovery"
	KindSizeIO          Kind = "size"
	KindVCSUnavailable  Kind = "vcs"
	KindDeletionFailure Kind = "delete"
)

// PathError records a failure tied to one path. Runs collect these instead of
// aborting.
type PathError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewPathError creates a PathError.
func NewPathError(kind Kind, path string, err error) *PathError {
	return &PathError{Kind: kind, Path: path, Err: err}
}

// IsKind reports whether err is a PathError of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
