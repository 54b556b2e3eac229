package engine

import "github.com/danieljhkim/sweep/internal/project"

// ScanRequest represents a request to scan a directory tree.
type ScanRequest struct {
	// Root is the directory to scan (absolute or relative to the process cwd)
	Root string

	// MaxDepth is how many directory levels below Root discovery descends
	MaxDepth int

	// Registry receives the discovered projects; it must be empty
	Registry *project.Registry

	// Updates, when non-nil, receives progress notifications. The engine
	// never closes it.
	Updates chan<- Update
}

// DeleteRequest represents a request to remove artifact directories.
type DeleteRequest struct {
	// Registry holds the projects the directories belong to
	Registry *project.Registry

	// Dirs are absolute artifact directory paths
	Dirs []string
}
