package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/sweep/internal/engine"
)

func writeFile(t *testing.T, root, rel string, n int) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, make([]byte, n), 0644))
}

// fixture lays out a node project with 4 KiB of node_modules, a Rust project
// with nothing built yet, and a plain directory.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "web/package.json", 100)
	writeFile(t, root, "web/src/index.js", 924)
	writeFile(t, root, "web/node_modules/left-pad/index.js", 4096)
	writeFile(t, root, "crate/Cargo.toml", 50)
	writeFile(t, root, "notes/todo.txt", 10)
	return root
}

func TestRun_DryRun(t *testing.T) {
	root := fixture(t)

	out, _, err := execute(t, "--dry-run", root)
	require.NoError(t, err)

	assert.Contains(t, out, "PROJECT")
	assert.Contains(t, out, "web")
	assert.Contains(t, out, "Node.js")
	assert.Contains(t, out, "4.0 KiB")
	assert.Contains(t, out, "Total: 4.0 KiB across 1 project")
	assert.NotContains(t, out, "crate", "projects with nothing to reclaim are hidden")
}

func TestRun_DryRunAll(t *testing.T) {
	root := fixture(t)

	out, _, err := execute(t, "--dry-run", "--all", root)
	require.NoError(t, err)
	assert.Contains(t, out, "crate")
	assert.Contains(t, out, "Rust")
}

func TestRun_NotATerminalFallsBackToReport(t *testing.T) {
	root := fixture(t)

	out, _, err := execute(t, root)
	require.NoError(t, err)
	assert.Contains(t, out, "Total:")
	assert.DirExists(t, filepath.Join(root, "web", "node_modules"), "reports never delete")
}

func TestRun_Empty(t *testing.T) {
	out, _, err := execute(t, "--dry-run", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No projects with cleanable artifacts found.")
}

func TestRun_MinSizeFilter(t *testing.T) {
	root := fixture(t)

	out, _, err := execute(t, "--dry-run", "--min-size", "1MB", root)
	require.NoError(t, err)
	assert.Contains(t, out, "No projects with cleanable artifacts found.")
}

func TestRun_JSON(t *testing.T) {
	root := fixture(t)

	out, _, err := execute(t, "--json", root)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 1, report.TotalProjects)
	assert.Equal(t, int64(4096), report.TotalSize)
	assert.Equal(t, "4.0 KiB", report.TotalSizeHuman)
	assert.Empty(t, report.Errors)
	require.Len(t, report.Projects, 1)

	p := report.Projects[0]
	assert.Equal(t, "web", p.Name)
	assert.Equal(t, "Node.js", p.Ecosystem)
	assert.Equal(t, int64(4096), p.Size)
	assert.Equal(t, int64(5120), p.FullSize)
	assert.InDelta(t, 0.8, p.JunkRatio, 1e-9)
	assert.NotNil(t, p.LastModified)
	assert.Nil(t, p.GitDirty, "no repository")
	require.Len(t, p.Artifacts, 1)
	assert.True(t, strings.HasSuffix(p.Artifacts[0].Path, filepath.Join("web", "node_modules")))
	assert.Equal(t, int64(4096), p.Artifacts[0].Size)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	project := raw["projects"].([]any)[0].(map[string]any)
	assert.Equal(t, "none", project["vcs_status"])
	assert.Contains(t, project, "git_dirty")
}

func TestRun_InvalidRoot(t *testing.T) {
	_, _, err := execute(t, "--dry-run", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRun_InteractiveInvalidRootFailsBeforeUI(t *testing.T) {
	orig := stdioIsTerminal
	stdioIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdioIsTerminal = orig })

	out, _, err := execute(t, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidRoot)
	assert.Empty(t, out)
}

func TestRun_InvalidRootIsNotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", 1)

	_, _, err := execute(t, "--dry-run", filepath.Join(root, "file.txt"))
	assert.ErrorIs(t, err, engine.ErrInvalidRoot)
}

func TestRun_SortByName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zeta/package.json", 1)
	writeFile(t, root, "zeta/node_modules/x", 9000)
	writeFile(t, root, "alpha/package.json", 1)
	writeFile(t, root, "alpha/node_modules/x", 10)

	out, _, err := execute(t, "--dry-run", "--sort", "name", root)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "zeta"))

	out, _, err = execute(t, "--dry-run", root)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "zeta"), strings.Index(out, "alpha"), "size order by default")
}

func TestRun_PathNamedLikeACommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "version/package.json", 10)
	writeFile(t, root, "version/node_modules/x.js", 2048)
	t.Chdir(root)

	out, _, err := execute(t, "--dry-run", "./version")
	require.NoError(t, err)
	assert.Contains(t, out, "2.0 KiB")
}
