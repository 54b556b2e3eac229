package catalog

import "path"

// Match is the outcome of classifying one directory listing.
type Match struct {
	// Ecosystem is the most specific matched tag.
	Ecosystem Ecosystem

	// Ecosystems lists every matched tag in precedence order.
	Ecosystems []Ecosystem

	// Artifacts is the deduplicated union of artifact directory names.
	Artifacts []string
}

// Classify matches the names present directly in a directory against the
// marker table. It performs no I/O. The second return value is false when no
// marker matched.
func Classify(names []string) (Match, bool) {
	var m Match
	seen := make(map[string]bool)

	for _, e := range entries {
		if !matchesAny(names, e.Markers) {
			continue
		}
		if len(m.Ecosystems) == 0 {
			m.Ecosystem = e.Ecosystem
		}
		m.Ecosystems = append(m.Ecosystems, e.Ecosystem)
		for _, a := range e.Artifacts {
			if seen[a] {
				continue
			}
			seen[a] = true
			m.Artifacts = append(m.Artifacts, a)
		}
	}

	if len(m.Ecosystems) == 0 {
		return Match{}, false
	}
	return m, true
}

func matchesAny(names, markers []string) bool {
	for _, marker := range markers {
		for _, name := range names {
			if matchMarker(marker, name) {
				return true
			}
		}
	}
	return false
}

func matchMarker(marker, name string) bool {
	if marker == name {
		return true
	}
	ok, err := path.Match(marker, name)
	return err == nil && ok
}
