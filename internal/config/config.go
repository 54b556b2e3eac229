package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danieljhkim/sweep/internal/project"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyDepth     = "depth"
	KeyMinSize   = "min-size"
	KeyOlderThan = "older-than"
	KeyDryRun    = "dry-run"
	KeyJSON      = "json"
	KeyWorkers   = "workers"
	KeyVerbose   = "verbose"
	KeyLogFile   = "log-file"
	KeySort      = "sort"
	KeyAll       = "all"
)

// EnvPrefix is prepended to every key to form its environment variable.
const EnvPrefix = "SWEEP"

// DefaultDepth is the discovery depth used when none is configured.
const DefaultDepth = 5

// Config is the resolved configuration for one run.
type Config struct {
	// Root is the directory to scan
	Root string

	// MaxDepth bounds discovery below Root
	MaxDepth int

	// MinSize hides projects with less reclaimable space (bytes)
	MinSize int64

	// OlderThan hides projects modified more recently than this
	OlderThan time.Duration

	// DryRun prints a table instead of starting the interactive UI
	DryRun bool

	// JSON prints a JSON document instead of starting the interactive UI
	JSON bool

	// Workers is the size of the worker pool (0 = one per CPU)
	Workers int

	// Verbose enables debug logging
	Verbose bool

	// LogFile receives logs in interactive mode
	LogFile string

	// Sort is the initial list order
	Sort project.SortKey

	// All also lists projects with nothing to reclaim
	All bool

	// ConfigFile is the file that was loaded, empty if none
	ConfigFile string
}

// Interactive reports whether the interactive UI should run.
func (c *Config) Interactive() bool {
	return !c.DryRun && !c.JSON
}

// Filter returns the display filter for this configuration.
func (c *Config) Filter(now time.Time) project.Filter {
	return project.Filter{
		MinSize:   c.MinSize,
		OlderThan: c.OlderThan,
		HideEmpty: !c.All,
		Now:       now,
	}
}

// RegisterFlags adds sweep's flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.IntP(KeyDepth, "d", DefaultDepth, "Maximum directory depth to scan")
	fs.String(KeyMinSize, "", "Minimum artifact size to show (e.g. 100MB, 1.5GB)")
	fs.String(KeyOlderThan, "", "Only show projects not modified for this long (e.g. 30d, 6m, 1y)")
	fs.Bool(KeyDryRun, false, "Print results without the interactive UI (no deletion)")
	fs.Bool(KeyJSON, false, "Print results as JSON")
	fs.IntP(KeyWorkers, "w", 0, "Number of parallel workers (default: number of CPUs)")
	fs.BoolP(KeyVerbose, "v", false, "Enable debug logging")
	fs.String(KeyLogFile, "", "Write logs to this file while the interactive UI runs")
	fs.StringP(KeySort, "s", "size", "Initial sort order: size, date or name")
	fs.BoolP(KeyAll, "a", false, "Also list projects with nothing to reclaim")
}

// Load resolves the configuration from flags, environment and config file.
// root is the positional scan root ("" means the current directory).
func Load(flags *pflag.FlagSet, root string, paths *Paths) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDepth, DefaultDepth)
	v.SetDefault(KeySort, "size")

	cfg := &Config{}
	if paths != nil && paths.HasConfigFile() {
		v.SetConfigFile(paths.Config)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", paths.Config, err)
		}
		cfg.ConfigFile = paths.Config
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if root == "" {
		root = "."
	}
	cfg.Root = root
	cfg.MaxDepth = v.GetInt(KeyDepth)
	cfg.DryRun = v.GetBool(KeyDryRun)
	cfg.JSON = v.GetBool(KeyJSON)
	cfg.Workers = v.GetInt(KeyWorkers)
	cfg.Verbose = v.GetBool(KeyVerbose)
	cfg.LogFile = v.GetString(KeyLogFile)
	cfg.All = v.GetBool(KeyAll)

	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("invalid %s: %d (must be >= 0)", KeyDepth, cfg.MaxDepth)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("invalid %s: %d (must be >= 0)", KeyWorkers, cfg.Workers)
	}

	var err error
	if s := v.GetString(KeyMinSize); s != "" {
		if cfg.MinSize, err = ParseSize(s); err != nil {
			return nil, err
		}
	}
	if s := v.GetString(KeyOlderThan); s != "" {
		if cfg.OlderThan, err = ParseAge(s); err != nil {
			return nil, err
		}
	}
	if cfg.Sort, err = project.ParseSortKey(v.GetString(KeySort)); err != nil {
		return nil, err
	}

	return cfg, nil
}
