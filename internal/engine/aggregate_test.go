package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/sweep/internal/catalog"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/project"
)

// faultyFS injects errors for selected paths.
type faultyFS struct {
	fsops.FS
	readDirErr map[string]error
	lstatErr   map[string]error
	removeErr  map[string]error
	calls      atomic.Int64

	// flaky makes RemoveAll fail with ENOTEMPTY this many times per path
	mu    sync.Mutex
	flaky map[string]int
}

func newFaultyFS() *faultyFS {
	return &faultyFS{
		FS:         fsops.NewRealFS(),
		readDirErr: make(map[string]error),
		lstatErr:   make(map[string]error),
		removeErr:  make(map[string]error),
		flaky:      make(map[string]int),
	}
}

func (f *faultyFS) ReadDir(path string) ([]os.DirEntry, error) {
	f.calls.Add(1)
	if err, ok := f.readDirErr[path]; ok {
		return nil, err
	}
	return f.FS.ReadDir(path)
}

func (f *faultyFS) Lstat(path string) (os.FileInfo, error) {
	f.calls.Add(1)
	if err, ok := f.lstatErr[path]; ok {
		return nil, err
	}
	return f.FS.Lstat(path)
}

func (f *faultyFS) RemoveAll(path string) error {
	f.calls.Add(1)
	if err, ok := f.removeErr[path]; ok {
		return err
	}
	f.mu.Lock()
	if f.flaky[path] > 0 {
		f.flaky[path]--
		f.mu.Unlock()
		return &os.PathError{Op: "unlinkat", Path: path, Err: syscall.ENOTEMPTY}
	}
	f.mu.Unlock()
	return f.FS.RemoveAll(path)
}

func nodeProject(root string) project.Project {
	m, _ := catalog.Classify([]string{"package.json"})
	return project.New(root, m, []string{filepath.Join(root, "node_modules")})
}

func TestAggregate(t *testing.T) {
	root := tempRoot(t)
	writeSized(t, root, "package.json", 10)
	writeSized(t, root, "src/index.js", 100)
	writeSized(t, root, "node_modules/a/index.js", 1000)
	writeSized(t, root, "node_modules/b/index.js", 24)

	sizes, errs := NewAggregator(fsops.NewRealFS()).Aggregate(context.Background(), nodeProject(root))
	require.Empty(t, errs)

	assert.Equal(t, int64(1134), sizes.Full)
	assert.Equal(t, int64(1024), sizes.Artifact)
	assert.Equal(t, map[string]int64{filepath.Join(root, "node_modules"): 1024}, sizes.PerArtifact)
	assert.False(t, sizes.LastModified.IsZero())
}

func TestAggregate_LastModifiedCoversWholeTree(t *testing.T) {
	root := tempRoot(t)
	old := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	installed := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	for path, mtime := range map[string]time.Time{
		writeSized(t, root, "package.json", 1):              old,
		writeSized(t, root, "src/app.js", 1):                newer,
		writeSized(t, root, "node_modules/dep/index.js", 1): installed,
	} {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	sizes, errs := NewAggregator(fsops.NewRealFS()).Aggregate(context.Background(), nodeProject(root))
	require.Empty(t, errs)
	assert.True(t, sizes.LastModified.Equal(installed), "got %v", sizes.LastModified)
}

func TestAggregate_SymlinksNotFollowed(t *testing.T) {
	root := tempRoot(t)
	outside := tempRoot(t)
	writeSized(t, root, "package.json", 10)
	writeSized(t, outside, "big.bin", 5000)
	writeSized(t, outside, "lib/x.js", 700)

	if err := os.Symlink(filepath.Join(outside, "big.bin"), filepath.Join(root, "big.bin")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(outside, "lib"), filepath.Join(root, "node_modules", "lib")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	sizes, errs := NewAggregator(fsops.NewRealFS()).Aggregate(context.Background(), nodeProject(root))
	require.Empty(t, errs)
	assert.Equal(t, int64(10), sizes.Full)
	assert.Zero(t, sizes.Artifact)
}

func TestAggregate_UnreadableSubtree(t *testing.T) {
	root := tempRoot(t)
	writeSized(t, root, "package.json", 10)
	writeSized(t, root, "secret/data.bin", 300)
	writeSized(t, root, "node_modules/x.js", 50)

	fsys := newFaultyFS()
	fsys.readDirErr[filepath.Join(root, "secret")] = fs.ErrPermission

	sizes, errs := NewAggregator(fsys).Aggregate(context.Background(), nodeProject(root))
	assert.Equal(t, int64(60), sizes.Full)
	assert.Equal(t, int64(50), sizes.Artifact)
	require.Len(t, errs, 1)
	assert.True(t, project.IsKind(errs[0], project.KindSizeIO))
	assert.ErrorIs(t, errs[0], fs.ErrPermission)
}

func TestAggregate_VanishedEntriesIgnored(t *testing.T) {
	root := tempRoot(t)
	writeSized(t, root, "package.json", 10)
	gone := writeSized(t, root, "tmp/gone.txt", 99)
	writeSized(t, root, "node_modules/x.js", 50)

	fsys := newFaultyFS()
	fsys.lstatErr[gone] = fs.ErrNotExist
	fsys.readDirErr[filepath.Join(root, "node_modules")] = fs.ErrNotExist

	sizes, errs := NewAggregator(fsys).Aggregate(context.Background(), nodeProject(root))
	assert.Empty(t, errs)
	assert.Equal(t, int64(10), sizes.Full)
	assert.Zero(t, sizes.Artifact)
}

func TestAggregate_Idempotent(t *testing.T) {
	root := tempRoot(t)
	writeSized(t, root, "package.json", 10)
	writeSized(t, root, "src/a.js", 123)
	writeSized(t, root, "node_modules/a/b/c.js", 4567)

	agg := NewAggregator(fsops.NewRealFS())
	p := nodeProject(root)

	first, errs := agg.Aggregate(context.Background(), p)
	require.Empty(t, errs)
	second, errs := agg.Aggregate(context.Background(), p)
	require.Empty(t, errs)
	assert.Equal(t, first, second)
}

func TestAggregate_Bounds(t *testing.T) {
	root := tempRoot(t)
	writeSized(t, root, "package.json", 1)
	writeSized(t, root, "node_modules/x", 9)

	sizes, _ := NewAggregator(fsops.NewRealFS()).Aggregate(context.Background(), nodeProject(root))
	assert.GreaterOrEqual(t, sizes.Artifact, int64(0))
	assert.LessOrEqual(t, sizes.Artifact, sizes.Full)
}

func TestAggregate_Cancelled(t *testing.T) {
	root := tempRoot(t)
	writeSized(t, root, "package.json", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sizes, errs := NewAggregator(fsops.NewRealFS()).Aggregate(ctx, nodeProject(root))
	assert.Empty(t, errs)
	assert.Zero(t, sizes.Full)
}
