package sim

import (
	"testing"
	"time"

	"github.com/tidelab/swell/geo"
	"github.com/tidelab/swell/telemetry"
	"github.com/tidelab/swell/wave"
)

func TestInterval(t *testing.T) {
	c := Cadence{
		Far:        time.Minute,
		Near:       5 * time.Second,
		Active:     500 * time.Millisecond,
		NearWindow: time.Hour,
	}
	tests := []struct {
		name        string
		phase       wave.Phase
		timeToStart time.Duration
		want        time.Duration
	}{
		{"far before start", wave.NotStarted, 2 * time.Hour, time.Minute},
		{"near start", wave.NotStarted, 10 * time.Minute, 5 * time.Second},
		{"exactly at window", wave.NotStarted, time.Hour, 5 * time.Second},
		{"in progress", wave.InProgress, 0, 500 * time.Millisecond},
		{"completed", wave.Completed, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interval(tt.phase, tt.timeToStart, c); got != tt.want {
				t.Errorf("Interval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalZeroCadenceUsesDefaults(t *testing.T) {
	if got := Interval(wave.InProgress, 0, Cadence{}); got != DefaultCadence.Active {
		t.Errorf("Interval = %v, want default active %v", got, DefaultCadence.Active)
	}
}

func testCalculator(t *testing.T, start time.Time, clock wave.Clock) *wave.Calculator {
	t.Helper()
	area := wave.Area{Polygons: []geo.Polygon{geo.NewPolygon([]geo.Position{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 0},
	})}}
	calc, err := wave.NewCalculator(area, wave.Params{
		Speed:     500,
		Direction: wave.East,
		Start:     start,
		Kind:      wave.Kind{Linear: &wave.LinearKind{}},
	}, clock)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return calc
}

func TestRunnerStep(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := wave.NewSimClock(start.Add(-2 * time.Hour))
	calc := testCalculator(t, start, clock)

	var snaps []*wave.Snapshot
	r := &Runner{
		Calc:       calc,
		Clock:      clock,
		Cadence:    DefaultCadence,
		OnSnapshot: func(s *wave.Snapshot) { snaps = append(snaps, s) },
		Collector:  telemetry.NewCollector(100, nil),
	}

	// Far before start: coarse interval, no snapshot yet.
	delay, done := r.Step()
	if done {
		t.Fatal("done before start")
	}
	if delay != DefaultCadence.Far {
		t.Errorf("far delay = %v, want %v", delay, DefaultCadence.Far)
	}
	if len(snaps) != 0 {
		t.Errorf("got %d snapshots before start, want 0", len(snaps))
	}

	// Within the near window.
	clock.Set(start.Add(-10 * time.Minute))
	if delay, _ = r.Step(); delay != DefaultCadence.Near {
		t.Errorf("near delay = %v, want %v", delay, DefaultCadence.Near)
	}

	// In progress: active interval and a snapshot per step.
	clock.Set(start.Add(calc.TotalDuration() / 2))
	delay, done = r.Step()
	if done {
		t.Fatal("done mid-wave")
	}
	if delay != DefaultCadence.Active {
		t.Errorf("active delay = %v, want %v", delay, DefaultCadence.Active)
	}
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots mid-wave, want 1", len(snaps))
	}
	if r.Collector.Pending() != 1 {
		t.Errorf("collector pending = %d, want 1", r.Collector.Pending())
	}

	// Completed: polling stops.
	clock.Set(start.Add(calc.TotalDuration() + time.Second))
	if _, done = r.Step(); !done {
		t.Error("not done after wave end")
	}
	if r.Polls() != 4 {
		t.Errorf("Polls = %d, want 4", r.Polls())
	}
}

func TestRunnerMaxPolls(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := wave.NewSimClock(start.Add(time.Second))
	calc := testCalculator(t, start, clock)

	r := &Runner{Calc: calc, Clock: clock, Cadence: DefaultCadence, MaxPolls: 2}
	if _, done := r.Step(); done {
		t.Fatal("done after first poll")
	}
	if _, done := r.Step(); !done {
		t.Error("not done after reaching MaxPolls")
	}
}

func TestRunnerStepWallScale(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := wave.NewSimClock(start.Add(time.Second))
	calc := testCalculator(t, start, clock)

	r := &Runner{Calc: calc, Clock: clock, Cadence: DefaultCadence, WallScale: 10}
	delay, _ := r.Step()
	if delay != DefaultCadence.Active/10 {
		t.Errorf("scaled delay = %v, want %v", delay, DefaultCadence.Active/10)
	}
}
