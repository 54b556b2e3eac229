package project

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the display order of a project list.
type SortKey int

const (
	// SortBySize orders by artifact size, largest first.
	SortBySize SortKey = iota
	// SortByAge orders by last modification, oldest first.
	SortByAge
	// SortByName orders by project name, case-insensitive.
	SortByName
)

// String returns the short name used in the UI and on the command line.
func (k SortKey) String() string {
	switch k {
	case SortBySize:
		return "size"
	case SortByAge:
		return "date"
	case SortByName:
		return "name"
	default:
		return "unknown"
	}
}

// ParseSortKey parses "size", "date"/"age", or "name".
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "size", "":
		return SortBySize, nil
	case "date", "age":
		return SortByAge, nil
	case "name":
		return SortByName, nil
	default:
		return SortBySize, fmt.Errorf("invalid sort key %q (want size, date or name)", s)
	}
}

// Sort orders projects in place. Ties always fall back to RootPath so the
// result depends only on the input set, not on its current order.
func Sort(projects []Project, key SortKey) {
	slices.SortStableFunc(projects, func(a, b Project) int {
		var c int
		switch key {
		case SortBySize:
			c = cmp.Compare(b.ArtifactSize, a.ArtifactSize)
		case SortByAge:
			c = a.LastModified.Compare(b.LastModified)
		case SortByName:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.RootPath, b.RootPath)
	})
}
