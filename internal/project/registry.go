package project

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/danieljhkim/sweep/internal/gitx"
)

// Registry is the in-memory set of projects for one scan.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	projects map[string]*Project
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		projects: make(map[string]*Project),
	}
}

// Add registers a new project. Adding the same root twice is an error.
func (r *Registry) Add(p Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.RootPath]; ok {
		return fmt.Errorf("project %s already registered", p.RootPath)
	}
	c := p.Clone()
	r.projects[p.RootPath] = &c
	r.order = append(r.order, p.RootPath)
	return nil
}

// Len returns the number of registered projects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Get returns a copy of the project registered at root.
func (r *Registry) Get(root string) (Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[root]
	if !ok {
		return Project{}, false
	}
	return p.Clone(), true
}

// Snapshot returns copies of all projects in registration order.
func (r *Registry) Snapshot() []Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Project, 0, len(r.order))
	for _, root := range r.order {
		out = append(out, r.projects[root].Clone())
	}
	return out
}

// SetSizes records the aggregator's result for root. It reports false when
// root is not registered (for example after its artifacts were deleted).
func (r *Registry) SetSizes(root string, s Sizes) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[root]
	if !ok {
		return false
	}
	p.FullSize = max(s.Full, 0)
	p.ArtifactSize = min(max(s.Artifact, 0), p.FullSize)
	p.ArtifactSizes = maps.Clone(s.PerArtifact)
	if p.ArtifactSizes == nil {
		p.ArtifactSizes = make(map[string]int64)
	}
	p.LastModified = s.LastModified
	p.Sized = true
	return true
}

// SetVCS records the version-control status for root.
func (r *Registry) SetVCS(root string, status gitx.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[root]
	if !ok {
		return false
	}
	p.VCS = status
	return true
}

// OwnerOf returns the project whose artifact set contains dir.
func (r *Registry) OwnerOf(dir string) (Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, root := range r.order {
		p := r.projects[root]
		if p.HasArtifact(dir) {
			return p.Clone(), true
		}
	}
	return Project{}, false
}

// ApplyDeletion removes dir from its project's artifact set and subtracts the
// freed bytes from both sizes. A project left with no artifact directories is
// dropped from the registry; the return value reports whether that happened.
func (r *Registry) ApplyDeletion(root, dir string, freed int64) (dropped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[root]
	if !ok {
		return false
	}

	p.ArtifactDirs = slices.DeleteFunc(p.ArtifactDirs, func(d string) bool { return d == dir })
	delete(p.ArtifactSizes, dir)
	p.ArtifactSize = max(p.ArtifactSize-freed, 0)
	p.FullSize = max(p.FullSize-freed, p.ArtifactSize)

	if len(p.ArtifactDirs) > 0 {
		return false
	}

	delete(r.projects, root)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == root })
	return true
}
