package selection

import "github.com/danieljhkim/sweep/internal/project"

// Event is an input to the controller. System events come from the scan and
// the deletion executor; input events come from the keyboard.
type Event interface {
	event()
}

// System events.
type (
	// Refresh replaces the controller's copy of the registry.
	Refresh struct{ Projects []project.Project }

	// DiscoveryDone means the registry is fully populated; enrichment may
	// still be running.
	DiscoveryDone struct{}

	// ScanDone means all enrichment finished. Errors is the number of
	// per-path errors the scan collected.
	ScanDone struct{ Errors int }

	// DeletionFinished reports the executor's result together with a fresh
	// registry snapshot.
	DeletionFinished struct {
		Summary  Summary
		Projects []project.Project
	}

	// Resize sets how many rows fit on one page.
	Resize struct{ PageSize int }
)

// Input events.
type (
	Up        struct{}
	Down      struct{}
	PageUp    struct{}
	PageDown  struct{}
	Home      struct{}
	End       struct{}
	Toggle    struct{}
	SelectAll struct{}
	SortBy    struct{ Key project.SortKey }
	Commit    struct{}
	Accept    struct{}
	Decline   struct{}
	Quit      struct{}
)

func (Refresh) event()          {}
func (DiscoveryDone) event()    {}
func (ScanDone) event()         {}
func (DeletionFinished) event() {}
func (Resize) event()           {}
func (Up) event()               {}
func (Down) event()             {}
func (PageUp) event()           {}
func (PageDown) event()         {}
func (Home) event()             {}
func (End) event()              {}
func (Toggle) event()           {}
func (SelectAll) event()        {}
func (SortBy) event()           {}
func (Commit) event()           {}
func (Accept) event()           {}
func (Decline) event()          {}
func (Quit) event()             {}

// EffectKind says what the caller must do after an event.
type EffectKind int

const (
	// EffectNone requires nothing beyond re-rendering.
	EffectNone EffectKind = iota
	// EffectQuit ends the program.
	EffectQuit
	// EffectDelete starts the deletion executor on Dirs.
	EffectDelete
)

// Effect is the controller's answer to an event.
type Effect struct {
	Kind EffectKind

	// Dirs are the artifact directories to delete (EffectDelete only)
	Dirs []string
}

// Failure is one directory the executor could not remove.
type Failure struct {
	Path string
	Err  error
}

// Summary is the outcome of a deletion as shown to the operator.
type Summary struct {
	BytesFreed int64
	Removed    int
	Gone       int
	Failed     []Failure

	// Dropped are projects with nothing left to reclaim
	Dropped []string

	// Err is set when the executor rejected the request outright
	Err error
}
