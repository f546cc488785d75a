package pipeline

import (
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsplit/internal/emit"
	"git.home.luguber.info/inful/docsplit/internal/metrics"
)

// TargetReport records the outcome of one target within a build pass.
type TargetReport struct {
	Target   Target   `json:"target"`
	Skipped  bool     `json:"skipped,omitempty"`
	Files    int      `json:"files"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Report is the persistent record of one build pass.
type Report struct {
	ID        string              `json:"id"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration"`
	Targets   []TargetReport      `json:"targets"`
	Outcome   metrics.ResultLabel `json:"outcome"`
}

// NewReport creates a report with a fresh build ID.
func NewReport() *Report {
	return &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

func (r *Report) recordResult(target Target, res *emit.Result) {
	r.Targets = append(r.Targets, TargetReport{
		Target:   target,
		Files:    res.Written,
		Warnings: res.Warnings,
	})
}

func (r *Report) recordSkip(target Target) {
	r.Targets = append(r.Targets, TargetReport{Target: target, Skipped: true})
}

func (r *Report) recordError(target Target, err error) {
	r.Targets = append(r.Targets, TargetReport{Target: target, Error: err.Error()})
}

// Warnings returns all warnings across targets.
func (r *Report) Warnings() []string {
	var out []string
	for _, t := range r.Targets {
		out = append(out, t.Warnings...)
	}
	return out
}

func (r *Report) finish(d time.Duration) {
	r.Duration = d

	failed, warned, built := false, false, false
	for _, t := range r.Targets {
		switch {
		case t.Error != "":
			failed = true
		case t.Skipped:
		default:
			built = true
			if len(t.Warnings) > 0 {
				warned = true
			}
		}
	}

	switch {
	case failed:
		r.Outcome = metrics.ResultFailed
	case warned:
		r.Outcome = metrics.ResultWarning
	case built:
		r.Outcome = metrics.ResultSuccess
	default:
		r.Outcome = metrics.ResultSkipped
	}
}
