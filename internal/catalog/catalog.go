// Package catalog holds the static marker table that maps ecosystems to the
// files that identify them and the directories they regenerate.
//
// Classification is a pure lookup over the table: given the names found
// directly inside a directory, Classify returns every matching ecosystem, the
// union of their artifact directory names, and the most specific display tag.
package catalog

import "strings"

// Ecosystem is a closed set of toolchain tags.
type Ecosystem int

const (
	Unknown Ecosystem = iota
	NodeJS
	NextJS
	Python
	Rust
	Go
	JavaMaven
	JavaGradle
	DotNet
	Flutter
	Ruby
)

var ecosystemNames = map[Ecosystem]string{
	Unknown:    "Unknown",
	NodeJS:     "Node.js",
	NextJS:     "Next.js",
	Python:     "Python",
	Rust:       "Rust",
	Go:         "Go",
	JavaMaven:  "Java/Maven",
	JavaGradle: "Java/Gradle",
	DotNet:     ".NET",
	Flutter:    "Flutter",
	Ruby:       "Ruby",
}

// String returns the display name of the ecosystem.
func (e Ecosystem) String() string {
	if name, ok := ecosystemNames[e]; ok {
		return name
	}
	return ecosystemNames[Unknown]
}

// MarshalText implements encoding.TextMarshaler.
func (e Ecosystem) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Entry is one row of the marker table.
type Entry struct {
	Ecosystem Ecosystem
	// Markers are exact file names or glob patterns (e.g. "*.csproj").
	Markers []string
	// Artifacts are directory names relative to the project root. A name may
	// contain a slash ("vendor/bundle").
	Artifacts []string
}

// entries is ordered by precedence: framework-specific ecosystems come before
// the umbrella ecosystem they imply.
var entries = []Entry{
	{NextJS, []string{"next.config.js", "next.config.mjs", "next.config.ts"}, []string{".next", "node_modules"}},
	{NodeJS, []string{"package.json"}, []string{"node_modules"}},
	{Python, []string{"pyproject.toml", "setup.py", "setup.cfg", "requirements.txt"}, []string{".venv", "venv", "__pycache__", ".tox", ".mypy_cache", ".pytest_cache"}},
	{Rust, []string{"Cargo.toml"}, []string{"target"}},
	{Go, []string{"go.mod"}, []string{"vendor"}},
	{JavaMaven, []string{"pom.xml"}, []string{"target"}},
	{JavaGradle, []string{"build.gradle", "build.gradle.kts"}, []string{"build", ".gradle"}},
	{DotNet, []string{"*.csproj", "*.sln"}, []string{"bin", "obj"}},
	{Flutter, []string{"pubspec.yaml"}, []string{"build", ".dart_tool"}},
	{Ruby, []string{"Gemfile"}, []string{"vendor/bundle"}},
}

// recursiveArtifacts are artifact names that can also appear at any depth
// inside a project, not only directly under its root.
var recursiveArtifacts = map[string]bool{
	"__pycache__": true,
}

// extraSkipDirs are pruned from discovery in addition to every artifact name.
var extraSkipDirs = []string{
	".git", ".svn", ".hg",
	".Trash", ".cache", "Library", "Applications",
	".local", ".npm", ".cargo", ".rustup",
}

// IsRecursive reports whether an artifact name is also searched for below the
// project root.
func IsRecursive(name string) bool {
	return recursiveArtifacts[name]
}

// SkipDirs returns the set of directory names that discovery never enters.
func SkipDirs() map[string]bool {
	skip := make(map[string]bool, len(extraSkipDirs)+16)
	for _, name := range extraSkipDirs {
		skip[name] = true
	}
	for _, e := range entries {
		for _, a := range e.Artifacts {
			first, _, _ := strings.Cut(a, "/")
			skip[first] = true
		}
	}
	return skip
}
