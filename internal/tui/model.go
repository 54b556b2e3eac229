// Package tui is the interactive front end: a Bubble Tea program that runs a
// scan in the background, feeds its progress into the selection controller
// and paints the controller's view.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/sweep/internal/clock"
	"github.com/danieljhkim/sweep/internal/engine"
	"github.com/danieljhkim/sweep/internal/project"
	"github.com/danieljhkim/sweep/internal/selection"
)

// refreshInterval bounds how often the list is rebuilt while enrichment is
// streaming in.
const refreshInterval = 250 * time.Millisecond

// chromeLines is the number of screen lines not used by project rows.
const chromeLines = 8

// Options configures a Model.
type Options struct {
	Engine   *engine.Engine
	Registry *project.Registry
	Clock    clock.Clock

	Root     string
	MaxDepth int
	Sort     project.SortKey
	Filter   project.Filter
}

// Result summarises what an interactive session did.
type Result struct {
	Scan       *engine.ScanResult
	BytesFreed int64
	Removed    int
	Failed     int
}

// Model is the Bubble Tea model for the project list.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	engine   *engine.Engine
	registry *project.Registry
	clock    clock.Clock
	root     string
	maxDepth int

	ctrl    *selection.Controller
	updates chan engine.Update

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	width  int
	height int

	// dirty is set when the registry changed since the last Refresh
	dirty    bool
	scanning bool
	scan     *engine.ScanResult
	err      error
	result   Result
}

type updateMsg engine.Update

type scanFinishedMsg struct {
	result *engine.ScanResult
	err    error
}

type deleteFinishedMsg struct {
	result *engine.DeleteResult
	err    error
}

type tickMsg time.Time

// New creates the model. The scan starts when the program calls Init.
func New(ctx context.Context, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)

	clk := opts.Clock
	if clk == nil {
		clk = &clock.RealClock{}
	}
	reg := opts.Registry
	if reg == nil {
		reg = project.NewRegistry()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sizeStyle

	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		engine:   opts.Engine,
		registry: reg,
		clock:    clk,
		root:     opts.Root,
		maxDepth: opts.MaxDepth,
		ctrl:     selection.New(opts.Sort, opts.Filter),
		updates:  make(chan engine.Update, 64),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		scanning: true,
	}
}

// Init starts the scan, the update listener, the refresh ticker and the
// spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startScan(),
		waitForUpdate(m.ctx, m.updates),
		tick(),
		m.spinner.Tick,
	)
}

func (m *Model) startScan() tea.Cmd {
	req := &engine.ScanRequest{
		Root:     m.root,
		MaxDepth: m.maxDepth,
		Registry: m.registry,
		Updates:  m.updates,
	}
	return func() tea.Msg {
		res, err := m.engine.Scan(m.ctx, req)
		return scanFinishedMsg{result: res, err: err}
	}
}

// waitForUpdate blocks until the engine publishes the next update.
func waitForUpdate(ctx context.Context, ch <-chan engine.Update) tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-ch:
			return updateMsg(u)
		case <-ctx.Done():
			return nil
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) deleteDirs(dirs []string) tea.Cmd {
	req := &engine.DeleteRequest{Registry: m.registry, Dirs: dirs}
	return func() tea.Msg {
		res, err := m.engine.Delete(m.ctx, req)
		return deleteFinishedMsg{result: res, err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ctrl.Handle(selection.Resize{PageSize: max(msg.Height-chromeLines, 1)})
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case updateMsg:
		return m.handleUpdate(engine.Update(msg))

	case scanFinishedMsg:
		m.scanning = false
		if msg.err != nil {
			m.err = msg.err
			m.cancel()
			return m, tea.Quit
		}
		m.scan = msg.result
		m.refresh()
		m.ctrl.Handle(selection.ScanDone{Errors: len(msg.result.Errors)})
		return m, nil

	case deleteFinishedMsg:
		summary := summarize(msg.result, msg.err)
		m.result.BytesFreed += summary.BytesFreed
		m.result.Removed += summary.Removed
		m.result.Failed += len(summary.Failed)
		m.ctrl.Handle(selection.DeletionFinished{
			Summary:  summary,
			Projects: m.registry.Snapshot(),
		})
		return m, nil

	case tickMsg:
		if m.dirty {
			m.refresh()
		}
		if !m.scanning {
			return m, nil
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.ctrl.State()
	if state == selection.StateReady && key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	ev := m.keys.eventFor(msg, state)
	if ev == nil {
		return m, nil
	}
	// Sizes reported after a deletion would be stale, so deleting waits for
	// the scan.
	if _, ok := ev.(selection.Commit); ok && m.scanning {
		return m, nil
	}

	eff := m.ctrl.Handle(ev)
	switch eff.Kind {
	case selection.EffectQuit:
		m.cancel()
		return m, tea.Quit
	case selection.EffectDelete:
		return m, tea.Batch(m.deleteDirs(eff.Dirs), m.spinner.Tick)
	}
	return m, nil
}

func (m *Model) handleUpdate(u engine.Update) (tea.Model, tea.Cmd) {
	switch u.Kind {
	case engine.UpdateDiscoveryDone:
		m.refresh()
		m.ctrl.Handle(selection.DiscoveryDone{})
	case engine.UpdateScanDone:
		m.dirty = true
		return m, nil
	default:
		m.dirty = true
	}
	return m, waitForUpdate(m.ctx, m.updates)
}

// refresh hands the controller a fresh registry snapshot.
func (m *Model) refresh() {
	m.dirty = false
	m.ctrl.Handle(selection.Refresh{Projects: m.registry.Snapshot()})
}

// summarize converts an executor result into the operator summary.
func summarize(res *engine.DeleteResult, err error) selection.Summary {
	if err != nil {
		return selection.Summary{Err: err}
	}
	s := selection.Summary{
		BytesFreed: res.BytesFreed,
		Removed:    len(res.Removed()),
		Gone:       len(res.Gone()),
		Dropped:    res.Dropped,
	}
	for _, r := range res.Failed() {
		s.Failed = append(s.Failed, selection.Failure{Path: r.Path, Err: r.Err})
	}
	return s
}

// Result returns what the session did. It reports the scan error, if the scan
// could not start.
func (m *Model) Result() (*Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	res := m.result
	res.Scan = m.scan
	return &res, nil
}

// Run starts the interactive program and blocks until the operator quits.
func Run(ctx context.Context, opts Options) (*Result, error) {
	m := New(ctx, opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, err
	}
	return m.Result()
}
