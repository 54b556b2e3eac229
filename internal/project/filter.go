package project

import "time"

// Filter decides which projects are shown to the operator. Size and age
// criteria only apply once a project has been sized; until then a project
// passes unless a criterion is set that it cannot yet be judged against.
type Filter struct {
	// MinSize hides projects whose artifact size is below this many bytes.
	MinSize int64

	// OlderThan hides projects modified more recently than Now-OlderThan.
	OlderThan time.Duration

	// HideEmpty hides sized projects that have nothing to reclaim.
	HideEmpty bool

	// Now is the reference time for OlderThan.
	Now time.Time
}

// Keep reports whether p passes the filter.
func (f Filter) Keep(p Project) bool {
	if !p.Sized {
		return f.MinSize <= 0 && f.OlderThan <= 0
	}
	if f.HideEmpty && p.ArtifactSize == 0 {
		return false
	}
	if p.ArtifactSize < f.MinSize {
		return false
	}
	if f.OlderThan > 0 {
		if p.LastModified.IsZero() {
			return false
		}
		if !p.LastModified.Before(f.Now.Add(-f.OlderThan)) {
			return false
		}
	}
	return true
}

// Apply returns the projects that pass the filter, preserving order.
func (f Filter) Apply(projects []Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if f.Keep(p) {
			out = append(out, p)
		}
	}
	return out
}
