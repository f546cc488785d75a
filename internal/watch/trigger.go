package watch

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/docsplit/internal/metrics"
)

// State enumerates the trigger's rebuild states.
type State int32

const (
	StateIdle State = iota
	StatePending
	StateBuilding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateBuilding:
		return "building"
	}
	return "unknown"
}

// BuildFunc runs one rebuild. force bypasses the staleness gate.
type BuildFunc func(ctx context.Context, force bool) error

// Trigger collapses bursts of change events into single rebuild invocations.
//
// It is a three-state machine: Idle, Pending (quiet-period timer armed) and
// Building. Another event during Pending restarts the timer; only the
// trailing edge after a full quiet period fires a build. Events arriving
// while a build is in flight are never dropped: they re-arm a fresh Pending
// timer as soon as the build finishes. Builds never overlap.
//
// Event-driven builds always run forced: a deletion or a config edit
// qualifies as an event yet leaves the source mtimes untouched, so the
// staleness gate must not get a vote. Kick carries its own force flag and
// stays gated when called with false.
//
// All state lives in the coordinator goroutine started by Run; Notify and
// Kick only post messages to it.
type Trigger struct {
	quiet    time.Duration
	build    BuildFunc
	recorder metrics.Recorder

	events chan struct{}
	kicks  chan bool // payload: force flag

	state atomic.Int32 // observability only; owned by the coordinator
}

// NewTrigger creates a trigger with the given quiet period. A nil recorder
// disables metrics.
func NewTrigger(quiet time.Duration, build BuildFunc, recorder metrics.Recorder) *Trigger {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Trigger{
		quiet:    quiet,
		build:    build,
		recorder: recorder,
		events:   make(chan struct{}, 64),
		kicks:    make(chan bool, 1),
	}
}

// Notify reports a qualifying filesystem event. Safe from any goroutine;
// never blocks the caller.
func (t *Trigger) Notify() {
	t.recorder.IncWatchEvent()
	select {
	case t.events <- struct{}{}:
	default:
		// Channel full means a rebuild is already guaranteed; the event is
		// subsumed by one already queued.
	}
}

// Kick requests a rebuild without waiting for the quiet period. force
// bypasses the staleness gate. If a build is in flight the request re-arms
// once it finishes.
func (t *Trigger) Kick(force bool) {
	select {
	case t.kicks <- force:
	default:
		// A kick is already queued; this one coalesces with it.
	}
}

// State returns a snapshot of the current state.
func (t *Trigger) State() State {
	return State(t.state.Load())
}

// Run is the coordinator loop. It owns the state machine and the single
// pending timer, and returns when ctx is canceled. Builds are invoked on a
// detached goroutine; their completion is observed through a channel, so the
// loop itself never blocks on I/O.
func (t *Trigger) Run(ctx context.Context) {
	var (
		timer     *time.Timer
		timerC    <-chan time.Time
		buildDone chan error

		// Deferred work noted while Building: a filesystem event re-arms the
		// quiet-period timer on completion, a kick re-fires immediately.
		pendingEvent     bool
		pendingKick      bool
		pendingKickForce bool
	)

	setState := func(s State) { t.state.Store(int32(s)) }
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}
	armTimer := func(d time.Duration) {
		stopTimer()
		timer = time.NewTimer(d)
		timerC = timer.C
		setState(StatePending)
	}
	startBuild := func(force bool) {
		stopTimer()
		setState(StateBuilding)
		t.recorder.IncDebouncedBuild()
		buildDone = make(chan error, 1)
		go func(done chan<- error) {
			done <- t.build(ctx, force)
		}(buildDone)
	}

	setState(StateIdle)

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			if buildDone != nil {
				// A build never gets canceled; let it run to completion.
				<-buildDone
			}
			setState(StateIdle)
			return

		case <-t.events:
			switch t.State() {
			case StateBuilding:
				// Remember the event; it re-arms Pending after the build.
				pendingEvent = true
			default:
				slog.Debug("Change detected, quiet period started", "quiet", t.quiet)
				armTimer(t.quiet)
			}

		case force := <-t.kicks:
			switch t.State() {
			case StateBuilding:
				pendingKick = true
				pendingKickForce = pendingKickForce || force
			default:
				startBuild(force)
			}

		case <-timerC:
			timerC = nil
			timer = nil
			// Deletions and config edits qualify as events without raising
			// any source mtime, so event-driven rebuilds bypass the
			// staleness gate.
			startBuild(true)

		case err := <-buildDone:
			buildDone = nil
			if err != nil {
				// No automatic retry; the next qualifying event restarts the cycle.
				slog.Error("Rebuild failed", "error", err)
			}
			switch {
			case pendingKick:
				force := pendingKickForce
				pendingKick, pendingKickForce, pendingEvent = false, false, false
				startBuild(force)
			case pendingEvent:
				pendingEvent = false
				slog.Debug("Changes arrived during build, re-arming quiet period")
				armTimer(t.quiet)
			default:
				setState(StateIdle)
			}
		}
	}
}
