package engine

import (
	"errors"

	"github.com/danieljhkim/sweep/internal/project"
)

var (
	// ErrInvalidRoot indicates the scan root does not exist or is not a directory.
	ErrInvalidRoot = project.ErrInvalidRoot

	// ErrInvalidSelection indicates a deletion request named a path that is
	// not a registered artifact directory.
	ErrInvalidSelection = project.ErrInvalidSelection

	// ErrNoRegistry indicates a request was made without a registry.
	ErrNoRegistry = errors.New("no registry")

	// ErrNotADirectory indicates an artifact path is no longer a directory.
	ErrNotADirectory = errors.New("not a directory")
)
