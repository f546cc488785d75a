package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsplit/internal/config"
	"git.home.luguber.info/inful/docsplit/internal/history"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
	"git.home.luguber.info/inful/docsplit/internal/pipeline"
	"git.home.luguber.info/inful/docsplit/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docsplit.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Force  bool   `short:"f" help:"Rebuild even when outputs are newer than sources"`
		Target string `short:"t" help:"Build a single target (gitbook or mcp)"`
	} `cmd:"" help:"Build the GitBook and MCP output trees"`

	Watch struct {
		Force bool `short:"f" help:"Run an unconditional build before watching"`
	} `cmd:"" help:"Watch the source tree and rebuild on change"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runBuild(cfg, CLI.Build.Force, CLI.Build.Target); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runWatch(cfg, CLI.Watch.Force); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration initialized", "path", CLI.Config)
	}
}

func runBuild(cfg *config.Config, force bool, target string) error {
	opts := pipeline.Options{Force: force}
	if target != "" {
		switch pipeline.Target(target) {
		case pipeline.TargetGitBook, pipeline.TargetMCP:
			opts.Targets = []pipeline.Target{pipeline.Target(target)}
		default:
			return fmt.Errorf("unknown target %q (expected gitbook or mcp)", target)
		}
	}

	p := pipeline.New(cfg, nil)
	report, err := p.Run(context.Background(), opts)
	if report != nil {
		for _, warning := range report.Warnings() {
			slog.Warn(warning)
		}
	}
	return err
}

func runWatch(cfg *config.Config, force bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Watch.MetricsAddr != "" {
		promRecorder := metrics.NewPrometheusRecorder(nil)
		go promRecorder.Serve(ctx, cfg.Watch.MetricsAddr)
		recorder = promRecorder
	}

	var store *history.Store
	if cfg.Watch.HistoryPath != "" {
		var err error
		store, err = history.Open(cfg.Watch.HistoryPath)
		if err != nil {
			return fmt.Errorf("failed to open build history: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close build history", "error", err)
			}
		}()
	}

	p := pipeline.New(cfg, recorder)
	build := func(buildCtx context.Context, buildForce bool) error {
		report, err := p.Run(buildCtx, pipeline.Options{Force: buildForce})
		if report != nil && store != nil {
			if recordErr := store.Record(buildCtx, report); recordErr != nil {
				slog.Warn("Failed to record build history", "error", recordErr)
			}
		}
		return err
	}

	trigger := watch.NewTrigger(time.Duration(cfg.Watch.QuietPeriod), build, recorder)

	watcher, err := watch.NewWatcher(cfg.Source.Root, []string{cfg.GitBookConfig, cfg.MCPConfig}, trigger)
	if err != nil {
		return err
	}

	var scheduler *watch.Scheduler
	if cfg.Watch.RebuildInterval > 0 {
		scheduler, err = watch.NewScheduler(trigger)
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodicRebuild(time.Duration(cfg.Watch.RebuildInterval)); err != nil {
			return err
		}
		scheduler.Start(ctx)
		defer func() {
			if err := scheduler.Stop(ctx); err != nil {
				slog.Warn("Scheduler shutdown error", "error", err)
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		trigger.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		watcher.Run(ctx)
	}()

	// Initial build so the outputs exist before the first change arrives.
	trigger.Kick(force)

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping watch...")
	wg.Wait()
	return nil
}
