package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/sweep/internal/catalog"
	"github.com/danieljhkim/sweep/internal/clock"
	"github.com/danieljhkim/sweep/internal/engine"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/gitx"
	"github.com/danieljhkim/sweep/internal/project"
	"github.com/danieljhkim/sweep/internal/selection"
)

func writeFile(t *testing.T, root, rel string, n int) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, make([]byte, n), 0644))
}

// newTestModel builds a model over two node projects: alpha with 1000 bytes
// of node_modules and beta with 200.
func newTestModel(t *testing.T) (*Model, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "alpha/package.json", 10)
	writeFile(t, root, "alpha/node_modules/a/index.js", 1000)
	writeFile(t, root, "beta/package.json", 10)
	writeFile(t, root, "beta/node_modules/b/index.js", 200)

	clk := clock.NewFakeClock(time.Now())
	eng := engine.New(fsops.NewRealFS(), gitx.NewFakeStatusChecker(), clk, nil, 2)
	m := New(context.Background(), Options{
		Engine:   eng,
		Clock:    clk,
		Root:     root,
		MaxDepth: 5,
		Sort:     project.SortBySize,
		Filter:   project.Filter{HideEmpty: true, Now: clk.Now()},
	})
	t.Cleanup(m.cancel)
	return m, root
}

// scanned runs the scan synchronously and feeds its result to the model.
func scanned(t *testing.T) (*Model, string) {
	t.Helper()
	m, root := newTestModel(t)
	msg := m.startScan()()
	finished, ok := msg.(scanFinishedMsg)
	require.True(t, ok, "expected scanFinishedMsg, got %T", msg)
	require.NoError(t, finished.err)

	updated, _ := m.Update(finished)
	m = updated.(*Model)
	require.Equal(t, selection.StateReady, m.ctrl.State())
	return m, root
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	updated, cmd := m.Update(msg)
	require.Same(t, m, updated.(*Model))
	return cmd
}

// runBatch executes cmd and every command it batches, returning the messages.
func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runBatch(c)...)
	}
	return out
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NotNil(t, m.Init())
	assert.Equal(t, selection.StateScanning, m.ctrl.State())
}

func TestModel_ScanFinished(t *testing.T) {
	m, _ := scanned(t)

	v := m.ctrl.View()
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "alpha", v.Rows[0].Project.Name)
	assert.Equal(t, int64(1200), v.Totals.Reclaimable)
	assert.False(t, v.Enriching)
	assert.False(t, m.scanning)
}

func TestModel_ScanError(t *testing.T) {
	m, root := newTestModel(t)
	m.root = filepath.Join(root, "missing")

	msg := m.startScan()()
	updated, cmd := m.Update(msg)
	m = updated.(*Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	_, err := m.Result()
	assert.ErrorIs(t, err, engine.ErrInvalidRoot)
}

func TestModel_ProgressUpdates(t *testing.T) {
	m, root := newTestModel(t)
	require.NoError(t, m.registry.Add(project.New(filepath.Join(root, "alpha"), nodeMatch(), nil)))

	updated, cmd := m.Update(updateMsg{Kind: engine.UpdateDiscovered})
	m = updated.(*Model)
	assert.NotNil(t, cmd, "keeps listening")
	assert.True(t, m.dirty)
	assert.Equal(t, selection.StateScanning, m.ctrl.State())

	updated, _ = m.Update(tickMsg(time.Now()))
	m = updated.(*Model)
	assert.False(t, m.dirty)
	assert.Len(t, m.ctrl.View().Rows, 1)

	updated, _ = m.Update(updateMsg{Kind: engine.UpdateDiscoveryDone})
	m = updated.(*Model)
	assert.Equal(t, selection.StateReady, m.ctrl.State())

	_, cmd = m.Update(updateMsg{Kind: engine.UpdateScanDone})
	assert.Nil(t, cmd, "stops listening after the scan")
}

func TestModel_SelectAndDelete(t *testing.T) {
	m, root := scanned(t)

	press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.True(t, m.ctrl.IsSelected(filepath.Join(m.scan.Root, "alpha")))

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, selection.StateConfirming, m.ctrl.State())
	assert.Contains(t, m.View(), "Delete 1 directories")

	cmd := press(t, m, runes("y"))
	require.Equal(t, selection.StateDeleting, m.ctrl.State())

	var finished tea.Msg
	for _, msg := range runBatch(cmd) {
		if _, ok := msg.(deleteFinishedMsg); ok {
			finished = msg
		}
	}
	require.NotNil(t, finished, "delete command not issued")

	updated, _ := m.Update(finished)
	m = updated.(*Model)
	assert.Equal(t, selection.StateReady, m.ctrl.State())

	v := m.ctrl.View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "beta", v.Rows[0].Project.Name)
	require.NotNil(t, v.Summary)
	assert.Equal(t, int64(1000), v.Summary.BytesFreed)
	assert.Contains(t, m.View(), "Freed")

	assert.NoDirExists(t, filepath.Join(root, "alpha", "node_modules"))
	assert.FileExists(t, filepath.Join(root, "alpha", "package.json"))

	res, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.BytesFreed)
	assert.Equal(t, 1, res.Removed)
	assert.Zero(t, res.Failed)
}

func TestModel_DeclineKeepsSelection(t *testing.T) {
	m, _ := scanned(t)

	press(t, m, runes("a"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, selection.StateConfirming, m.ctrl.State())

	assert.Nil(t, press(t, m, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, selection.StateReady, m.ctrl.State())
	assert.Equal(t, 2, m.ctrl.View().Totals.Selected)
}

func TestModel_Quit(t *testing.T) {
	m, _ := scanned(t)

	cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, selection.StateExited, m.ctrl.State())
	assert.Error(t, m.ctx.Err(), "quitting cancels background work")
}

func TestModel_SortKeys(t *testing.T) {
	m, _ := scanned(t)

	press(t, m, runes("n"))
	assert.Equal(t, project.SortByName, m.ctrl.View().Sort)
	press(t, m, runes("d"))
	assert.Equal(t, project.SortByAge, m.ctrl.View().Sort)
	press(t, m, runes("s"))
	assert.Equal(t, project.SortBySize, m.ctrl.View().Sort)
}

func TestModel_HelpToggle(t *testing.T) {
	m, _ := scanned(t)
	press(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	press(t, m, runes("?"))
	assert.False(t, m.help.ShowAll)
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := scanned(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 9})
	m = updated.(*Model)

	assert.Equal(t, 120, m.width)
	assert.Len(t, m.ctrl.View().Rows, 1, "one row fits")
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Scanning")

	m, _ = scanned(t)
	out := m.View()
	for _, want := range []string{"sweep", "PROJECT", "STATUS", "alpha", "beta", "Node.js"} {
		assert.Contains(t, out, want)
	}
}

func TestKeyMap_EventFor(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		name  string
		msg   tea.KeyMsg
		state selection.State
		want  selection.Event
	}{
		{"down in list", runes("j"), selection.StateReady, selection.Down{}},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, selection.StateReady, selection.Up{}},
		{"end", runes("G"), selection.StateReady, selection.End{}},
		{"n sorts in list", runes("n"), selection.StateReady, selection.SortBy{Key: project.SortByName}},
		{"n declines in dialog", runes("n"), selection.StateConfirming, selection.Decline{}},
		{"y accepts", runes("y"), selection.StateConfirming, selection.Accept{}},
		{"esc declines in dialog", tea.KeyMsg{Type: tea.KeyEsc}, selection.StateConfirming, selection.Decline{}},
		{"esc quits list", tea.KeyMsg{Type: tea.KeyEsc}, selection.StateReady, selection.Quit{}},
		{"ctrl+c in dialog", tea.KeyMsg{Type: tea.KeyCtrlC}, selection.StateConfirming, selection.Quit{}},
		{"navigation while scanning", runes("j"), selection.StateScanning, nil},
		{"quit while scanning", runes("q"), selection.StateScanning, selection.Quit{}},
		{"y outside dialog", runes("y"), selection.StateReady, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, k.eventFor(tt.msg, tt.state))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a-very-lo…", truncate("a-very-long-name", 10))
}

func nodeMatch() catalog.Match {
	m, _ := catalog.Classify([]string{"package.json"})
	return m
}

func TestModel_DeleteWaitsForScan(t *testing.T) {
	m, root := newTestModel(t)
	require.NoError(t, m.registry.Add(project.New(filepath.Join(root, "alpha"), nodeMatch(), nil)))
	m.Update(updateMsg{Kind: engine.UpdateDiscoveryDone})
	require.Equal(t, selection.StateReady, m.ctrl.State())

	press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, selection.StateReady, m.ctrl.State())
}
