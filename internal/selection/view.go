package selection

import (
	"github.com/danieljhkim/sweep/internal/gitx"
	"github.com/danieljhkim/sweep/internal/project"
)

// Row is one line of the project list.
type Row struct {
	Project  project.Project
	Selected bool
	Cursor   bool
}

// Totals are the aggregate figures shown in the header and footer.
type Totals struct {
	// Projects is the number of listed projects
	Projects int

	// Reclaimable sums the artifact size of listed projects
	Reclaimable int64

	// Selected counts selected projects; SelectedBytes sums their artifacts
	Selected      int
	SelectedBytes int64

	// PendingSizes and PendingVCS count projects still being enriched
	PendingSizes int
	PendingVCS   int

	// Hidden counts registered projects the filter hides
	Hidden int
}

// View is the render model handed to the terminal layer.
type View struct {
	State State
	Sort  project.SortKey

	// Rows is the visible page of the list, starting at Offset
	Rows   []Row
	Offset int

	Totals Totals

	// Confirm lists the projects awaiting confirmation
	Confirm      []project.Project
	ConfirmBytes int64
	ConfirmDirs  int

	// Summary is the result of the last deletion, nil before the first one
	Summary *Summary

	// Enriching is true until the scan has finished
	Enriching  bool
	ScanErrors int
}

// View returns the render model for the current state.
func (c *Controller) View() View {
	v := View{
		State:      c.state,
		Sort:       c.sortKey,
		Offset:     c.offset,
		Summary:    c.summary,
		Enriching:  !c.scanDone,
		ScanErrors: c.scanErrors,
	}

	end := min(c.offset+c.pageSize, len(c.rows))
	for i := c.offset; i < end; i++ {
		p := c.rows[i]
		v.Rows = append(v.Rows, Row{
			Project:  p,
			Selected: c.selected[p.RootPath],
			Cursor:   i == c.cursor,
		})
	}

	v.Totals.Projects, v.Totals.Reclaimable = project.Totals(c.rows)
	v.Totals.Hidden = len(c.all) - len(c.rows)
	for _, p := range c.rows {
		if c.selected[p.RootPath] {
			v.Totals.Selected++
			v.Totals.SelectedBytes += p.ArtifactSize
		}
	}
	for _, p := range c.all {
		if !p.Sized {
			v.Totals.PendingSizes++
		}
		if p.VCS == gitx.StatusUnknown {
			v.Totals.PendingVCS++
		}
	}

	if c.state == StateConfirming || c.state == StateDeleting {
		v.Confirm = c.pending
		for _, p := range c.pending {
			v.ConfirmBytes += p.ArtifactSize
			v.ConfirmDirs += len(p.ArtifactDirs)
		}
	}

	return v
}
