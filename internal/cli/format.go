package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/danieljhkim/sweep/internal/project"
)

var (
	// Color functions - fatih/color disables them when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)

	dirtyColor  = color.New(color.FgRed, color.Bold)
	recentColor = color.New(color.FgYellow)
	cleanColor  = color.New(color.FgGreen)
)

// PROJECT column bounds of the dry-run table. The other columns take
// fixedColumns cells.
const (
	defaultNameWidth = 35
	minNameWidth     = 20
	maxNameWidth     = 60
	fixedColumns     = 50
)

// projectColumnWidth sizes the PROJECT column to the terminal behind f.
func projectColumnWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultNameWidth
	}
	return min(max(w-fixedColumns, minNameWidth), maxNameWidth)
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(w io.Writer, msg string) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", msg)
}

// PrintError prints an error message
func PrintError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintf(w, "✗ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(w io.Writer, msg string) {
	_, _ = infoColor.Fprintln(w, msg)
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(w io.Writer, msg string) {
	_, _ = dimColor.Fprintln(w, msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// PrintProjectTable prints the dry-run table: one line per project with its
// reclaimable size, age and status, framed by a header and a total line.
func PrintProjectTable(w io.Writer, projects []project.Project, now time.Time, nameWidth int) {
	if len(projects) == 0 {
		PrintEmptyState(w, "No projects with cleanable artifacts found.")
		return
	}

	count, total := project.Totals(projects)
	_, _ = fmt.Fprintln(w)
	_, _ = labelColor.Fprintf(w, "  SWEEP · %s | %s reclaimable\n\n",
		PrintCount(count, "project", "projects"), project.HumanSize(total))

	_, _ = headerColor.Fprintf(w, "  %-*s %-12s %10s %14s %8s\n",
		nameWidth, "PROJECT", "TYPE", "SIZE", "MODIFIED", "STATUS")
	rule := "  " + strings.Repeat("─", nameWidth+47)
	_, _ = dimColor.Fprintln(w, rule)

	for _, p := range projects {
		name := p.Name
		if len([]rune(name)) > nameWidth-2 {
			name = string([]rune(name)[:nameWidth-3]) + "…"
		}
		activity := project.ActivityOf(p, now)
		status := string(activity)
		if activity == project.ActivityNone {
			status = ""
		}
		_, _ = fmt.Fprintf(w, "  %-*s %-12s %10s %14s ",
			nameWidth, name, p.Ecosystem, project.HumanSize(p.ArtifactSize), project.HumanAge(now, p.LastModified))
		_, _ = activityColor(activity).Fprintf(w, "%8s\n", status)
	}

	_, _ = dimColor.Fprintln(w, rule)
	_, _ = fmt.Fprintf(w, "  Total: %s across %s\n\n",
		project.HumanSize(total), PrintCount(count, "project", "projects"))
}

// PrintScanErrors prints the per-path errors collected during a scan.
func PrintScanErrors(w io.Writer, errs []error) {
	if len(errs) == 0 {
		return
	}
	PrintWarning(w, fmt.Sprintf("%s could not be read:", PrintCount(len(errs), "path", "paths")))
	for _, err := range errs {
		_, _ = dimColor.Fprintf(w, "  %v\n", err)
	}
}

func activityColor(a project.Activity) *color.Color {
	switch a {
	case project.ActivityDirty:
		return dirtyColor
	case project.ActivityRecent:
		return recentColor
	case project.ActivityClean:
		return cleanColor
	default:
		return dimColor
	}
}
