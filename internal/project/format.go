package project

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danieljhkim/sweep/internal/gitx"
)

// HumanSize formats a byte count with binary units ("1.5 GiB").
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// HumanAge formats the time elapsed since t: "today", "12d ago", "3mo ago",
// "2y ago", or "unknown" for the zero time.
func HumanAge(now, t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days < 1:
		return "today"
	case days < 30:
		return fmt.Sprintf("%dd ago", days)
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

// RecentWindow is how recently a project must have been modified to be
// flagged as recent.
const RecentWindow = 7 * 24 * time.Hour

// Activity is the condensed STATUS column shown for a project.
type Activity string

const (
	ActivityDirty  Activity = "dirty"
	ActivityRecent Activity = "recent"
	ActivityClean  Activity = "clean"
	ActivityNone   Activity = "-"
)

// ActivityOf condenses VCS status and age: dirty beats recent, recent beats
// clean. Projects outside version control that are not recent report none.
func ActivityOf(p Project, now time.Time) Activity {
	if p.VCS == gitx.StatusDirty {
		return ActivityDirty
	}
	if !p.LastModified.IsZero() && now.Sub(p.LastModified) < RecentWindow {
		return ActivityRecent
	}
	if p.VCS == gitx.StatusClean {
		return ActivityClean
	}
	return ActivityNone
}
