package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/danieljhkim/sweep/internal/gitx"
	"github.com/danieljhkim/sweep/internal/project"
)

// Report is the JSON document printed by --json.
type Report struct {
	Root           string          `json:"root"`
	TotalProjects  int             `json:"total_projects"`
	TotalSize      int64           `json:"total_size"`
	TotalSizeHuman string          `json:"total_size_human"`
	Projects       []ProjectReport `json:"projects"`
	Errors         []string        `json:"errors"`
}

// ProjectReport is one project in a Report.
type ProjectReport struct {
	Path         string           `json:"path"`
	Name         string           `json:"name"`
	Ecosystem    string           `json:"ecosystem"`
	Ecosystems   []string         `json:"ecosystems"`
	Size         int64            `json:"size"`
	SizeHuman    string           `json:"size_human"`
	FullSize     int64            `json:"full_size"`
	JunkRatio    float64          `json:"junk_ratio"`
	LastModified *time.Time       `json:"last_modified"`
	GitDirty     *bool            `json:"git_dirty"`
	VCSStatus    gitx.Status      `json:"vcs_status"`
	Artifacts    []ArtifactReport `json:"artifacts"`
}

// ArtifactReport is one artifact directory in a ProjectReport.
type ArtifactReport struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// buildReport converts listed projects and scan errors into a Report.
func buildReport(root string, projects []project.Project, errs []error) Report {
	count, total := project.Totals(projects)
	r := Report{
		Root:           root,
		TotalProjects:  count,
		TotalSize:      total,
		TotalSizeHuman: project.HumanSize(total),
		Projects:       make([]ProjectReport, 0, len(projects)),
		Errors:         make([]string, 0, len(errs)),
	}

	for _, p := range projects {
		pr := ProjectReport{
			Path:      p.RootPath,
			Name:      p.Name,
			Ecosystem: p.Ecosystem.String(),
			Size:      p.ArtifactSize,
			SizeHuman: project.HumanSize(p.ArtifactSize),
			FullSize:  p.FullSize,
			JunkRatio: p.JunkRatio(),
			VCSStatus: p.VCS,
			Artifacts: make([]ArtifactReport, 0, len(p.ArtifactDirs)),
		}
		for _, e := range p.Ecosystems {
			pr.Ecosystems = append(pr.Ecosystems, e.String())
		}
		if !p.LastModified.IsZero() {
			t := p.LastModified
			pr.LastModified = &t
		}
		switch p.VCS {
		case gitx.StatusDirty, gitx.StatusClean:
			dirty := p.VCS == gitx.StatusDirty
			pr.GitDirty = &dirty
		}
		for _, dir := range p.ArtifactDirs {
			pr.Artifacts = append(pr.Artifacts, ArtifactReport{Path: dir, Size: p.ArtifactSizes[dir]})
		}
		r.Projects = append(r.Projects, pr)
	}

	for _, err := range errs {
		r.Errors = append(r.Errors, err.Error())
	}
	return r
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
