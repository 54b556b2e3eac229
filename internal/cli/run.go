package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/sweep/internal/clock"
	"github.com/danieljhkim/sweep/internal/config"
	"github.com/danieljhkim/sweep/internal/engine"
	"github.com/danieljhkim/sweep/internal/fsops"
	"github.com/danieljhkim/sweep/internal/project"
	"github.com/danieljhkim/sweep/internal/tui"
)

// runSweep is the root command: load configuration, then either start the
// interactive UI or print a report.
func runSweep(cmd *cobra.Command, args []string) error {
	var root string
	if len(args) > 0 {
		root = args[0]
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cmd.Flags(), root, paths)
	if err != nil {
		return err
	}

	// An unusable root aborts before the UI takes over the screen.
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if cfg.Root, err = engine.ResolveRoot(fsops.NewRealFS(), cfg.Root, cwd); err != nil {
		return err
	}

	interactive := cfg.Interactive() && stdioIsTerminal()
	logger, closeLog, err := newLogger(cfg, interactive, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Debug("configuration loaded",
		"root", cfg.Root,
		"depth", cfg.MaxDepth,
		"workers", engine.DefaultWorkers(cfg.Workers),
		"config_file", cfg.ConfigFile,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	eng := newEngine(cfg, logger)
	clk := &clock.RealClock{}

	if interactive {
		return runInteractive(ctx, cmd.OutOrStdout(), eng, cfg, clk)
	}
	if cfg.Interactive() {
		logger.Info("stdout is not a terminal, printing a dry-run report")
	}
	return runReport(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), eng, cfg, clk, logger)
}

// runReport scans, then prints the dry-run table or the JSON document.
func runReport(
	ctx context.Context,
	stdout, stderr io.Writer,
	eng *engine.Engine,
	cfg *config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) error {
	reg := project.NewRegistry()
	if !cfg.JSON {
		PrintInfo(stderr, fmt.Sprintf("Scanning %s ...", cfg.Root))
	}

	res, err := eng.Scan(ctx, &engine.ScanRequest{
		Root:     cfg.Root,
		MaxDepth: cfg.MaxDepth,
		Registry: reg,
	})
	if err != nil {
		return err
	}
	if res.Cancelled {
		return ctx.Err()
	}

	now := clk.Now()
	projects := cfg.Filter(now).Apply(reg.Snapshot())
	project.Sort(projects, cfg.Sort)
	logger.Debug("scan finished",
		"projects", res.Projects,
		"listed", len(projects),
		"dirs", res.Dirs,
		"errors", len(res.Errors),
		"duration", res.Duration,
	)

	if cfg.JSON {
		return outputJSON(stdout, buildReport(res.Root, projects, res.Errors))
	}

	PrintProjectTable(stdout, projects, now, projectColumnWidth(os.Stdout))
	PrintScanErrors(stderr, res.Errors)
	return nil
}

// runInteractive runs the terminal UI and prints what it freed once the
// screen is restored.
func runInteractive(ctx context.Context, stdout io.Writer, eng *engine.Engine, cfg *config.Config, clk clock.Clock) error {
	res, err := tui.Run(ctx, tui.Options{
		Engine:   eng,
		Clock:    clk,
		Root:     cfg.Root,
		MaxDepth: cfg.MaxDepth,
		Sort:     cfg.Sort,
		Filter:   cfg.Filter(clk.Now()),
	})
	if err != nil {
		return err
	}

	if res.Removed > 0 {
		PrintSuccess(stdout, fmt.Sprintf("Freed %s from %s",
			project.HumanSize(res.BytesFreed), PrintCount(res.Removed, "directory", "directories")))
	}
	if res.Failed > 0 {
		PrintError(stdout, fmt.Sprintf("%s could not be removed",
			PrintCount(res.Failed, "directory", "directories")))
	}
	return ctx.Err()
}
