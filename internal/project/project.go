// Package project defines the Project record produced by a scan and the
// Registry that holds every project found during one run.
//
// Fields of a Project are partitioned by writer: discovery sets identity and
// artifact paths, the size aggregator sets sizes and LastModified, the VCS
// checker sets VCS. The Registry is the only place those writes happen, under
// one lock, and readers always work on copies returned by Snapshot.
package project

import (
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/danieljhkim/sweep/internal/catalog"
	"github.com/danieljhkim/sweep/internal/gitx"
)

// Project is a discovered directory with at least one recognised marker file.
type Project struct {
	// RootPath is the absolute path of the project; unique within a scan.
	RootPath string

	// Name is the base name of RootPath.
	Name string

	// Ecosystem is the most specific matched ecosystem.
	Ecosystem catalog.Ecosystem

	// Ecosystems lists every matched ecosystem.
	Ecosystems []catalog.Ecosystem

	// ArtifactDirs are absolute paths of regenerable subtrees, each a strict
	// descendant of RootPath.
	ArtifactDirs []string

	// FullSize is the apparent size of every file under RootPath.
	FullSize int64

	// ArtifactSize is the apparent size of every file under ArtifactDirs.
	ArtifactSize int64

	// ArtifactSizes holds the measured size per artifact directory.
	ArtifactSizes map[string]int64

	// LastModified is the newest modification time of any file under RootPath.
	LastModified time.Time

	// VCS is the version-control status of RootPath.
	VCS gitx.Status

	// Sized is set once the size aggregator has reported.
	Sized bool
}

// New creates a project record for a classified root.
func New(root string, match catalog.Match, artifactDirs []string) Project {
	return Project{
		RootPath:      root,
		Name:          filepath.Base(root),
		Ecosystem:     match.Ecosystem,
		Ecosystems:    slices.Clone(match.Ecosystems),
		ArtifactDirs:  slices.Clone(artifactDirs),
		ArtifactSizes: make(map[string]int64, len(artifactDirs)),
		VCS:           gitx.StatusUnknown,
	}
}

// JunkRatio returns the fraction of FullSize attributable to artifacts, in [0,1].
func (p Project) JunkRatio() float64 {
	if p.FullSize <= 0 || p.ArtifactSize <= 0 {
		return 0
	}
	r := float64(p.ArtifactSize) / float64(p.FullSize)
	if r > 1 {
		return 1
	}
	return r
}

// HasArtifact reports whether dir is one of the project's artifact directories.
func (p Project) HasArtifact(dir string) bool {
	return slices.Contains(p.ArtifactDirs, dir)
}

// Clone returns a deep copy.
func (p Project) Clone() Project {
	c := p
	c.Ecosystems = slices.Clone(p.Ecosystems)
	c.ArtifactDirs = slices.Clone(p.ArtifactDirs)
	c.ArtifactSizes = maps.Clone(p.ArtifactSizes)
	return c
}

// Sizes is what the size aggregator reports for one project.
type Sizes struct {
	Full         int64
	Artifact     int64
	PerArtifact  map[string]int64
	LastModified time.Time
}

// Totals sums artifact bytes over a list of projects.
func Totals(projects []Project) (count int, artifactBytes int64) {
	for _, p := range projects {
		artifactBytes += p.ArtifactSize
	}
	return len(projects), artifactBytes
}
