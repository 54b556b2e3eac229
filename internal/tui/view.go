package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/danieljhkim/sweep/internal/project"
	"github.com/danieljhkim/sweep/internal/selection"
)

// Column widths, excluding the name column which takes the rest.
const (
	colMarker   = 6
	colType     = 10
	colSize     = 11
	colJunk     = 5
	colModified = 10
	colStatus   = 7
	minName     = 12
	defaultCols = 100
)

// View renders the UI.
func (m *Model) View() string {
	v := m.ctrl.View()
	now := m.clock.Now()

	var b strings.Builder
	b.WriteString(m.renderHeader(v))
	b.WriteString("\n\n")

	switch v.State {
	case selection.StateScanning:
		fmt.Fprintf(&b, "%s Scanning %s ... %d projects so far\n",
			m.spinner.View(), m.root, v.Totals.Projects)
		return b.String()

	case selection.StateDone:
		b.WriteString(renderSummary(v.Summary))
		b.WriteString(mutedStyle.Render("Nothing left to clean. Press q to quit."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderTable(v, now))
	b.WriteString("\n")

	switch v.State {
	case selection.StateConfirming:
		b.WriteString(renderConfirm(v))
	case selection.StateDeleting:
		fmt.Fprintf(&b, "%s Deleting %d directories (%s) ...\n",
			m.spinner.View(), v.ConfirmDirs, project.HumanSize(v.ConfirmBytes))
	default:
		b.WriteString(renderSummary(v.Summary))
		b.WriteString(m.renderFooter(v))
		b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

func (m *Model) renderHeader(v selection.View) string {
	title := titleStyle.Render("sweep")
	stats := fmt.Sprintf("%d projects, %s reclaimable, sorted by %s",
		v.Totals.Projects, project.HumanSize(v.Totals.Reclaimable), v.Sort)
	line := title + "  " + stats
	if v.Enriching && v.State != selection.StateScanning {
		line += "  " + m.spinner.View() + mutedStyle.Render(fmt.Sprintf(
			"sizing %d, checking %d", v.Totals.PendingSizes, v.Totals.PendingVCS))
	}
	return line
}

func (m *Model) renderTable(v selection.View, now time.Time) string {
	if len(v.Rows) == 0 {
		return mutedStyle.Render("No projects with cleanable artifacts found.") + "\n"
	}

	width := m.width
	if width <= 0 {
		width = defaultCols
	}
	nameWidth := max(width-colMarker-colType-colSize-colJunk-colModified-colStatus-6, minName)

	var b strings.Builder
	header := fmt.Sprintf("%-*s%-*s %-*s %*s %*s %-*s %-*s",
		colMarker, "", nameWidth, "PROJECT", colType, "TYPE", colSize, "SIZE",
		colJunk, "JUNK", colModified, "MODIFIED", colStatus, "STATUS")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, row := range v.Rows {
		b.WriteString(renderRow(row, nameWidth, now))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(row selection.Row, nameWidth int, now time.Time) string {
	p := row.Project

	marker := "  "
	if row.Cursor {
		marker = "> "
	}
	check := "[ ] "
	if row.Selected {
		check = checkStyle.Render("[x]") + " "
	}

	size := "..."
	junk := ""
	if p.Sized {
		size = project.HumanSize(p.ArtifactSize)
		junk = fmt.Sprintf("%.0f%%", p.JunkRatio()*100)
	}
	modified := ""
	if p.Sized {
		modified = project.HumanAge(now, p.LastModified)
	}
	activity := project.ActivityOf(p, now)

	cells := fmt.Sprintf("%-*s %-*s %*s %*s %-*s ",
		nameWidth, truncate(p.Name, nameWidth),
		colType, truncate(p.Ecosystem.String(), colType),
		colSize, size,
		colJunk, junk,
		colModified, modified)
	status := activityStyle(activity).Render(fmt.Sprintf("%-*s", colStatus, activity))

	style := normalRowStyle
	if row.Cursor {
		style = cursorRowStyle
	}
	return style.Render(marker) + check + style.Render(cells) + status
}

func renderConfirm(v selection.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Delete %d directories from %d projects (%s)?\n",
		v.ConfirmDirs, len(v.Confirm), project.HumanSize(v.ConfirmBytes))
	for _, p := range v.Confirm {
		for _, dir := range p.ArtifactDirs {
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(dir))
		}
	}
	b.WriteString("\n[y] delete   [n] cancel")
	return dialogStyle.Render(b.String()) + "\n"
}

func renderSummary(s *selection.Summary) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	if s.Err != nil {
		b.WriteString(errorStyle.Render("Deletion rejected: " + s.Err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	line := fmt.Sprintf("Freed %s from %d directories", project.HumanSize(s.BytesFreed), s.Removed)
	if s.Gone > 0 {
		line += fmt.Sprintf(", %d already gone", s.Gone)
	}
	b.WriteString(successStyle.Render(line))
	b.WriteString("\n")
	for _, f := range s.Failed {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  failed: %v", f.Err)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderFooter(v selection.View) string {
	parts := []string{
		fmt.Sprintf("%d selected (%s)", v.Totals.Selected, project.HumanSize(v.Totals.SelectedBytes)),
	}
	if v.Totals.Hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d hidden by filters", v.Totals.Hidden))
	}
	if v.ScanErrors > 0 {
		parts = append(parts, fmt.Sprintf("%d paths could not be read", v.ScanErrors))
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

// truncate shortens s to at most n cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
