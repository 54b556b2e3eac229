package engine

import "time"

// UpdateKind identifies a progress notification.
type UpdateKind int

const (
	// UpdateDiscovered means a project was added to the registry.
	UpdateDiscovered UpdateKind = iota
	// UpdateDiscoveryDone means no more projects will be added.
	UpdateDiscoveryDone
	// UpdateSized means a project's sizes were published.
	UpdateSized
	// UpdateVCSChecked means a project's VCS status was published.
	UpdateVCSChecked
	// UpdateScanDone means every enrichment task has finished.
	UpdateScanDone
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateDiscovered:
		return "discovered"
	case UpdateDiscoveryDone:
		return "discovery-done"
	case UpdateSized:
		return "sized"
	case UpdateVCSChecked:
		return "vcs-checked"
	case UpdateScanDone:
		return "scan-done"
	default:
		return "unknown"
	}
}

// Update is a progress notification published while a scan runs. Consumers
// re-read the registry; the update only says what changed.
type Update struct {
	Kind UpdateKind

	// Root is the affected project, empty for DiscoveryDone and ScanDone
	Root string
}

// ScanResult represents the outcome of a scan.
type ScanResult struct {
	// Root is the resolved absolute scan root
	Root string

	// Projects is the number of projects discovered
	Projects int

	// Dirs is the number of directories discovery read
	Dirs int

	// Errors are the per-path errors collected during the scan
	Errors []error

	// Duration is the wall time of the scan
	Duration time.Duration

	// Cancelled reports whether the scan stopped before finishing
	Cancelled bool
}

// Outcome is the result of removing one artifact directory.
type Outcome int

const (
	// OutcomeRemoved means the directory was deleted.
	OutcomeRemoved Outcome = iota
	// OutcomeAlreadyGone means the directory had vanished; counts as success.
	OutcomeAlreadyGone
	// OutcomeFailed means the directory could not be deleted.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRemoved:
		return "removed"
	case OutcomeAlreadyGone:
		return "already gone"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DirResult is the outcome for one artifact directory.
type DirResult struct {
	// Path is the artifact directory
	Path string

	// Project is the root of the owning project
	Project string

	Outcome Outcome

	// Bytes is the measured size freed (zero unless removed)
	Bytes int64

	// Err is a *project.PathError when Outcome is OutcomeFailed
	Err error
}

// DeleteResult represents the outcome of a deletion batch.
type DeleteResult struct {
	// BytesFreed sums Bytes over removed directories
	BytesFreed int64

	// Results has one entry per requested directory, in request order
	Results []DirResult

	// Dropped are projects removed from the registry because nothing is left
	// to reclaim
	Dropped []string
}

// Failed returns the results that did not succeed.
func (r *DeleteResult) Failed() []DirResult {
	return r.filter(OutcomeFailed)
}

// Gone returns the results for directories that had already vanished.
func (r *DeleteResult) Gone() []DirResult {
	return r.filter(OutcomeAlreadyGone)
}

// Removed returns the results for directories that were deleted.
func (r *DeleteResult) Removed() []DirResult {
	return r.filter(OutcomeRemoved)
}

func (r *DeleteResult) filter(o Outcome) []DirResult {
	if r == nil {
		return nil
	}
	var out []DirResult
	for _, res := range r.Results {
		if res.Outcome == o {
			out = append(out, res)
		}
	}
	return out
}
