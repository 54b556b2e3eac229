// Package gitx answers one question about a directory: does it hold a git
// repository, and if so, does it have uncommitted changes.
//
// The check is read-only. git is run with optional locks disabled so that
// `git status` never refreshes the index, and with terminal prompts disabled
// so it never blocks on credentials. Nothing here touches the network.
package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Status is the version-control state of a directory.
type Status int

const (
	// StatusUnknown means the check has not run yet.
	StatusUnknown Status = iota
	// StatusNone means no repository metadata is present or it is unreadable.
	StatusNone
	// StatusClean means a repository with no uncommitted changes.
	StatusClean
	// StatusDirty means staged, unstaged or untracked changes exist.
	StatusDirty
)

// String returns "clean", "dirty", "none" or "" for unknown.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusClean:
		return "clean"
	case StatusDirty:
		return "dirty"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler. Unknown serialises as none.
func (s Status) MarshalText() ([]byte, error) {
	if s == StatusUnknown {
		return []byte(StatusNone.String()), nil
	}
	return []byte(s.String()), nil
}

// DefaultTimeout bounds a single status query.
const DefaultTimeout = 10 * time.Second

// StatusChecker reports the version-control status of a project root.
type StatusChecker interface {
	// Status returns StatusNone with a nil error when root has no .git entry.
	// Any failure while querying an existing repository returns StatusNone
	// together with the error.
	Status(ctx context.Context, root string) (Status, error)
}

// RealStatusChecker implements StatusChecker by running git.
type RealStatusChecker struct {
	// GitPath is the git executable; defaults to "git" on PATH.
	GitPath string

	// Timeout bounds each query; defaults to DefaultTimeout.
	Timeout time.Duration
}

// NewRealStatusChecker creates a new RealStatusChecker.
func NewRealStatusChecker() *RealStatusChecker {
	return &RealStatusChecker{GitPath: "git", Timeout: DefaultTimeout}
}

// HasMetadata reports whether root contains a .git directory or file
// (worktrees and submodules use a file).
func HasMetadata(root string) bool {
	info, err := os.Lstat(filepath.Join(root, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}

// Status runs `git status --porcelain` in root.
func (g *RealStatusChecker) Status(ctx context.Context, root string) (Status, error) {
	if !HasMetadata(root) {
		return StatusNone, nil
	}

	gitPath := g.GitPath
	if gitPath == "" {
		gitPath = "git"
	}
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, gitPath,
		"--no-optional-locks", "status", "--porcelain", "--untracked-files=normal")
	cmd.Dir = root
	cmd.Env = append(os.Environ(),
		"GIT_OPTIONAL_LOCKS=0",
		"GIT_TERMINAL_PROMPT=0",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return StatusNone, fmt.Errorf("git status failed: %w", err)
		}
		return StatusNone, fmt.Errorf("git status failed: %s: %w", msg, err)
	}

	if len(bytes.TrimSpace(stdout.Bytes())) > 0 {
		return StatusDirty, nil
	}
	return StatusClean, nil
}

// FakeStatusChecker implements StatusChecker with predetermined values for testing.
type FakeStatusChecker struct {
	mu       sync.Mutex
	statuses map[string]Status
	errs     map[string]error
	calls    []string
}

// NewFakeStatusChecker creates a new FakeStatusChecker. Roots without a
// configured status report StatusNone.
func NewFakeStatusChecker() *FakeStatusChecker {
	return &FakeStatusChecker{
		statuses: make(map[string]Status),
		errs:     make(map[string]error),
	}
}

// Set configures the status returned for root.
func (g *FakeStatusChecker) Set(root string, s Status) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[root] = s
}

// SetError makes Status fail for root.
func (g *FakeStatusChecker) SetError(root string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[root] = err
}

// Calls returns the roots queried so far.
func (g *FakeStatusChecker) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// Status returns the predetermined status.
func (g *FakeStatusChecker) Status(ctx context.Context, root string) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, root)
	if err := ctx.Err(); err != nil {
		return StatusNone, err
	}
	if err, ok := g.errs[root]; ok {
		return StatusNone, err
	}
	if s, ok := g.statuses[root]; ok {
		return s, nil
	}
	return StatusNone, nil
}

// Available reports whether the git executable can be found.
func Available(gitPath string) bool {
	if gitPath == "" {
		gitPath = "git"
	}
	_, err := exec.LookPath(gitPath)
	return err == nil
}
