package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsplit/internal/config"
	"git.home.luguber.info/inful/docsplit/internal/emit"
	"git.home.luguber.info/inful/docsplit/internal/frontmatter"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
	"git.home.luguber.info/inful/docsplit/internal/source"
	"git.home.luguber.info/inful/docsplit/internal/staleness"
)

// Target identifies one output tree.
type Target string

const (
	TargetGitBook Target = "gitbook"
	TargetMCP     Target = "mcp"
)

// AllTargets lists the targets built when none are requested explicitly.
var AllTargets = []Target{TargetGitBook, TargetMCP}

// Options controls one pipeline run.
type Options struct {
	// Force bypasses the advisory staleness check for every target.
	Force bool
	// Targets restricts the run; empty means all.
	Targets []Target
}

// Pipeline orchestrates one build pass: staleness gate, source scan, then one
// emitter run per requested target. Targets build independently; a fatal
// error in one does not abort the other.
type Pipeline struct {
	cfg      *config.Config
	recorder metrics.Recorder
}

// New creates a pipeline. A nil recorder disables metrics.
func New(cfg *config.Config, recorder metrics.Recorder) *Pipeline {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Pipeline{cfg: cfg, recorder: recorder}
}

// Run executes one build pass and returns its report. The returned error
// aggregates per-target fatal errors; the report is populated even then.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	report := NewReport()
	start := time.Now()

	targets := opts.Targets
	if len(targets) == 0 {
		targets = AllTargets
	}

	slog.Info("Build starting",
		logfields.BuildID(report.ID),
		slog.Any("targets", targets),
		slog.Bool("force", opts.Force))

	// Output roots per target, for the staleness gate.
	outDirs := map[Target]string{
		TargetGitBook: p.cfg.Output.GitBookDir,
		TargetMCP:     p.cfg.Output.MCPDir,
	}

	var scanned *source.Set
	var errs []error

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		stale, err := staleness.Check(p.cfg.Source.Root, outDirs[target], opts.Force)
		if err != nil {
			report.recordError(target, err)
			errs = append(errs, err)
			continue
		}
		if !stale {
			slog.Info("Target up to date, skipping",
				logfields.BuildID(report.ID),
				logfields.Target(string(target)))
			report.recordSkip(target)
			continue
		}

		// One scan per build pass, shared by both targets.
		if scanned == nil {
			scanned, err = source.NewScanner(p.cfg.Source.Root).Scan()
			if err != nil {
				report.recordError(target, err)
				errs = append(errs, err)
				continue
			}
		}

		targetStart := time.Now()
		res, err := p.emitTarget(target, scanned)
		p.recorder.ObserveTargetDuration(string(target), time.Since(targetStart))

		if err != nil {
			slog.Error("Target build failed",
				logfields.BuildID(report.ID),
				logfields.Target(string(target)),
				logfields.Error(err))
			report.recordError(target, err)
			p.recorder.IncTargetResult(string(target), metrics.ResultFailed)
			errs = append(errs, err)
			continue
		}

		report.recordResult(target, res)
		p.recorder.SetFilesEmitted(string(target), res.Written)
		if len(res.Warnings) > 0 {
			p.recorder.IncTargetResult(string(target), metrics.ResultWarning)
		} else {
			p.recorder.IncTargetResult(string(target), metrics.ResultSuccess)
		}
	}

	report.finish(time.Since(start))
	p.recorder.ObserveBuildDuration(report.Duration)
	p.recorder.IncBuildOutcome(report.Outcome)

	slog.Info("Build finished",
		logfields.BuildID(report.ID),
		slog.String("outcome", string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	return report, errors.Join(errs...)
}

// emitTarget loads the target's configuration document and runs its emitter.
// Configuration is loaded fresh each pass so watch mode picks up edits.
func (p *Pipeline) emitTarget(target Target, set *source.Set) (*emit.Result, error) {
	switch target {
	case TargetGitBook:
		cfg, err := config.LoadGitBook(p.cfg.GitBookConfig)
		if err != nil {
			return nil, err
		}
		return emit.NewGitBookEmitter(cfg, p.cfg.Output.GitBookDir).Emit(set)
	case TargetMCP:
		cfg, err := config.LoadMCP(p.cfg.MCPConfig)
		if err != nil {
			return nil, err
		}
		resolver := frontmatter.NewResolver(cfg)
		return emit.NewMCPEmitter(resolver, p.cfg.Output.MCPDir).Emit(set)
	}
	return nil, errors.New("unknown target: " + string(target))
}
