// Package selection implements the interactive select/sort/delete state
// machine. It owns the cursor, the selection set and the display order; it
// never touches the filesystem and never draws. Front ends feed it events
// and paint the View it returns.
package selection

import (
	"slices"

	"github.com/danieljhkim/sweep/internal/project"
)

// State is the controller's current mode.
type State int

const (
	StateScanning State = iota
	StateReady
	StateConfirming
	StateDeleting
	StateDone
	StateExited
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateReady:
		return "ready"
	case StateConfirming:
		return "confirming"
	case StateDeleting:
		return "deleting"
	case StateDone:
		return "done"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// DefaultPageSize is used until the first Resize.
const DefaultPageSize = 20

// Controller is the selection state machine. It is not safe for concurrent
// use; the UI loop owns it.
type Controller struct {
	state   State
	sortKey project.SortKey
	filter  project.Filter

	// all is the latest registry snapshot; rows is all filtered and sorted.
	all  []project.Project
	rows []project.Project

	selected map[string]bool
	cursor   int
	anchor   string
	offset   int
	pageSize int

	pending []project.Project
	summary *Summary

	discoveryDone bool
	scanDone      bool
	scanErrors    int
}

// New creates a controller in the scanning state.
func New(sortKey project.SortKey, filter project.Filter) *Controller {
	return &Controller{
		state:    StateScanning,
		sortKey:  sortKey,
		filter:   filter,
		selected: make(map[string]bool),
		pageSize: DefaultPageSize,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Handle applies ev and returns what the caller must do next.
func (c *Controller) Handle(ev Event) Effect {
	if c.state == StateExited {
		return Effect{Kind: EffectQuit}
	}

	switch ev := ev.(type) {
	case Refresh:
		c.setProjects(ev.Projects)
		return Effect{}

	case DiscoveryDone:
		c.discoveryDone = true
		if c.state == StateScanning {
			c.state = StateReady
		}
		return Effect{}

	case ScanDone:
		c.discoveryDone = true
		c.scanDone = true
		c.scanErrors = ev.Errors
		if c.state == StateScanning {
			c.state = StateReady
		}
		return Effect{}

	case DeletionFinished:
		return c.finishDeletion(ev)

	case Resize:
		if ev.PageSize > 0 {
			c.pageSize = ev.PageSize
			c.scroll()
		}
		return Effect{}

	case Quit:
		if c.state == StateDeleting {
			return Effect{}
		}
		c.state = StateExited
		return Effect{Kind: EffectQuit}
	}

	switch c.state {
	case StateReady:
		return c.handleReady(ev)
	case StateConfirming:
		return c.handleConfirming(ev)
	}
	return Effect{}
}

func (c *Controller) handleReady(ev Event) Effect {
	switch ev := ev.(type) {
	case Up:
		c.moveTo(c.cursor - 1)
	case Down:
		c.moveTo(c.cursor + 1)
	case PageUp:
		c.moveTo(c.cursor - c.pageSize)
	case PageDown:
		c.moveTo(c.cursor + c.pageSize)
	case Home:
		c.moveTo(0)
	case End:
		c.moveTo(len(c.rows) - 1)

	case Toggle:
		if len(c.rows) == 0 {
			break
		}
		root := c.rows[c.cursor].RootPath
		if c.selected[root] {
			delete(c.selected, root)
		} else {
			c.selected[root] = true
		}
		c.moveTo(c.cursor + 1)

	case SelectAll:
		if c.allSelected() {
			clear(c.selected)
		} else {
			for _, p := range c.rows {
				c.selected[p.RootPath] = true
			}
		}

	case SortBy:
		c.sortKey = ev.Key
		c.rederive()

	case Commit:
		pending := c.selectedRows()
		if len(pending) == 0 {
			break
		}
		c.pending = pending
		c.summary = nil
		c.state = StateConfirming
	}
	return Effect{}
}

func (c *Controller) handleConfirming(ev Event) Effect {
	switch ev.(type) {
	case Accept:
		c.state = StateDeleting
		eff := Effect{Kind: EffectDelete}
		for _, p := range c.pending {
			eff.Dirs = append(eff.Dirs, p.ArtifactDirs...)
		}
		return eff
	case Decline:
		c.pending = nil
		c.state = StateReady
	}
	return Effect{}
}

func (c *Controller) finishDeletion(ev DeletionFinished) Effect {
	if c.state != StateDeleting {
		return Effect{}
	}

	summary := ev.Summary
	c.summary = &summary
	c.pending = nil
	for _, root := range summary.Dropped {
		delete(c.selected, root)
	}
	c.setProjects(ev.Projects)

	if len(c.rows) > 0 {
		c.state = StateReady
	} else {
		c.state = StateDone
	}
	return Effect{}
}

// setProjects replaces the snapshot and re-derives the display order.
func (c *Controller) setProjects(projects []project.Project) {
	c.all = projects
	c.rederive()
}

// rederive filters and sorts the snapshot, keeps the cursor on the same
// project when it is still shown, and drops selections that are no longer
// visible.
func (c *Controller) rederive() {
	rows := c.filter.Apply(c.all)
	project.Sort(rows, c.sortKey)
	c.rows = rows

	visible := make(map[string]bool, len(rows))
	for _, p := range rows {
		visible[p.RootPath] = true
	}
	for root := range c.selected {
		if !visible[root] {
			delete(c.selected, root)
		}
	}

	if i := slices.IndexFunc(rows, func(p project.Project) bool { return p.RootPath == c.anchor }); i >= 0 {
		c.cursor = i
	}
	c.moveTo(c.cursor)
}

// moveTo places the cursor at i, clamped to the rows.
func (c *Controller) moveTo(i int) {
	if len(c.rows) == 0 {
		c.cursor, c.offset, c.anchor = 0, 0, ""
		return
	}
	c.cursor = min(max(i, 0), len(c.rows)-1)
	c.anchor = c.rows[c.cursor].RootPath
	c.scroll()
}

// scroll keeps the cursor inside the visible page.
func (c *Controller) scroll() {
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.pageSize {
		c.offset = c.cursor - c.pageSize + 1
	}
	c.offset = max(min(c.offset, len(c.rows)-c.pageSize), 0)
}

func (c *Controller) allSelected() bool {
	if len(c.rows) == 0 {
		return false
	}
	for _, p := range c.rows {
		if !c.selected[p.RootPath] {
			return false
		}
	}
	return true
}

// selectedRows returns the selected projects in display order.
func (c *Controller) selectedRows() []project.Project {
	var out []project.Project
	for _, p := range c.rows {
		if c.selected[p.RootPath] {
			out = append(out, p)
		}
	}
	return out
}

// IsSelected reports whether the project at root is selected.
func (c *Controller) IsSelected(root string) bool {
	return c.selected[root]
}
