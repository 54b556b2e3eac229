package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/sweep/internal/clock"
	"github.com/danieljhkim/sweep/internal/engine"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/gitx"
	"github.com/danieljhkim/sweep/internal/project"
)

const (
	KiB = 1 << 10
	MiB = 1 << 20
)

// writeSparse creates a file with an apparent size of n bytes without
// writing its data.
func writeSparse(t *testing.T, root, rel string, n int64) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", rel, err)
	}
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create %s: %v", rel, err)
	}
	defer f.Close()
	if err := f.Truncate(n); err != nil {
		t.Fatalf("failed to size %s: %v", rel, err)
	}
}

// tempRoot returns a temp dir with symlinks resolved so paths compare equal
// to the ones sweep reports.
func tempRoot(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

// runGit runs a git command in dir and fails the test on error.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

// initRepo turns dir into a repository with everything but ignored paths
// committed.
func initRepo(t *testing.T, dir string) {
	t.Helper()
	if !gitx.Available("git") {
		t.Skip("git not installed")
	}
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")
}

// harness wires a real engine over the real filesystem and git.
type harness struct {
	engine   *engine.Engine
	registry *project.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		engine:   engine.New(fsops.NewRealFS(), gitx.NewRealStatusChecker(), &clock.RealClock{}, nil, 4),
		registry: project.NewRegistry(),
	}
}

func (h *harness) scan(t *testing.T, root string) *engine.ScanResult {
	t.Helper()
	res, err := h.engine.Scan(context.Background(), &engine.ScanRequest{
		Root:     root,
		MaxDepth: 5,
		Registry: h.registry,
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return res
}

func (h *harness) project(t *testing.T, root string) project.Project {
	t.Helper()
	p, ok := h.registry.Get(root)
	if !ok {
		t.Fatalf("project %s not registered; have %v", root, h.roots())
	}
	return p
}

// roots lists the registered project roots, for failure messages.
func (h *harness) roots() []string {
	var out []string
	for _, p := range h.registry.Snapshot() {
		out = append(out, p.RootPath)
	}
	return out
}
