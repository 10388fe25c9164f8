// Package sim owns the poll loop around the wave calculator: it polls on
// an adaptive cadence, publishes fresh snapshots, and stops once the wave
// completes.
package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/tidelab/swell/telemetry"
	"github.com/tidelab/swell/wave"
)

// Cadence holds the adaptive poll intervals.
type Cadence struct {
	Far        time.Duration // wave start beyond NearWindow
	Near       time.Duration // wave start within NearWindow
	Active     time.Duration // wave in progress
	NearWindow time.Duration
}

// DefaultCadence is used where a field is left zero.
var DefaultCadence = Cadence{
	Far:        time.Minute,
	Near:       5 * time.Second,
	Active:     500 * time.Millisecond,
	NearWindow: time.Hour,
}

func (c Cadence) withDefaults() Cadence {
	if c.Far == 0 {
		c.Far = DefaultCadence.Far
	}
	if c.Near == 0 {
		c.Near = DefaultCadence.Near
	}
	if c.Active == 0 {
		c.Active = DefaultCadence.Active
	}
	if c.NearWindow == 0 {
		c.NearWindow = DefaultCadence.NearWindow
	}
	return c
}

// Interval picks the poll interval for the current phase: coarse while the
// wave is far away, fine-grained near start and while sweeping. Returns 0
// for a completed wave (stop polling).
func Interval(phase wave.Phase, timeToStart time.Duration, c Cadence) time.Duration {
	c = c.withDefaults()
	switch phase {
	case wave.Completed:
		return 0
	case wave.InProgress:
		return c.Active
	default:
		if timeToStart > c.NearWindow {
			return c.Far
		}
		return c.Near
	}
}

// Runner drives a calculator on the adaptive cadence.
type Runner struct {
	Calc    *wave.Calculator
	Clock   wave.Clock
	Cadence Cadence

	// OnSnapshot is called with each fresh snapshot. May be nil.
	OnSnapshot func(*wave.Snapshot)

	Collector *telemetry.Collector
	Output    *telemetry.OutputManager

	// WallScale divides wall sleeps for accelerated clocks (a ScaledClock
	// with factor 60 pairs with WallScale 60). Zero means 1.
	WallScale float64

	// MaxPolls stops the loop after that many polls. Zero means unlimited.
	MaxPolls int

	polls int
}

// Step performs one poll: computes a snapshot, records telemetry, and
// returns the wall delay before the next poll. done is true once the wave
// completed and polling should stop.
func (r *Runner) Step() (delay time.Duration, done bool) {
	start := time.Now()
	snap := r.Calc.Polygons()
	pollDur := time.Since(start)
	r.polls++

	progression := r.Calc.Progression()
	now := r.Clock.Now()

	if snap != nil {
		if r.OnSnapshot != nil {
			r.OnSnapshot(snap)
		}
		stats := telemetry.PollStats{
			Time:            now.Format(time.RFC3339),
			Progression:     progression,
			FrontLng:        r.Calc.FrontLongitude(0),
			TraversedCount:  len(snap.Traversed),
			RemainingCount:  len(snap.Remaining),
			TraversedFrac:   snap.TraversedFraction(),
			Mode:            snap.Mode.String(),
			PollDuration:    pollDur,
			PollDurationSec: pollDur.Seconds(),
		}
		if r.Collector != nil {
			r.Collector.Record(stats)
		}
		if err := r.Output.WritePoll(stats); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}

	phase := r.Calc.Phase()
	timeToStart := time.Duration(0)
	if phase == wave.NotStarted {
		timeToStart = r.Calc.Start().Sub(now)
	}
	if r.MaxPolls > 0 && r.polls >= r.MaxPolls {
		return 0, true
	}
	interval := Interval(phase, timeToStart, r.Cadence)
	if interval == 0 {
		return 0, true
	}
	scale := r.WallScale
	if scale <= 0 {
		scale = 1
	}
	return time.Duration(float64(interval) / scale), false
}

// Run polls until the wave completes or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("wave poll loop starting",
		"total_duration", r.Calc.TotalDuration(),
		"end", r.Calc.End(),
	)
	for {
		delay, done := r.Step()
		if done {
			if r.Collector != nil {
				r.Collector.Flush()
			}
			slog.Info("poll loop finished", "polls", r.polls, "phase", r.Calc.Phase().String())
			return
		}
		select {
		case <-ctx.Done():
			slog.Info("poll loop cancelled", "polls", r.polls)
			return
		case <-time.After(delay):
		}
	}
}

// Polls returns the number of polls performed so far.
func (r *Runner) Polls() int { return r.polls }
