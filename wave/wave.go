// Package wave computes the progression of a simulated wave sweeping
// across a geographic area: scalar progression, the instantaneous front
// position, the traversed/remaining polygon split, and hit timing for an
// observer. All queries are pure functions of the injected clock and the
// immutable area; the only mutable state is the previous-snapshot cell,
// which is mutex-guarded so the calculator can be polled from more than
// one task.
package wave

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tidelab/swell/geo"
)

// Direction is the wave's direction of travel.
type Direction int

const (
	East Direction = iota
	West
)

func (d Direction) String() string {
	if d == West {
		return "west"
	}
	return "east"
}

// Kind selects the wave front shape. Exactly one variant must be set;
// configuration validation enforces this before a calculator is built.
type Kind struct {
	Linear *LinearKind
	Deep   *DeepKind
	Split  *SplitKind
}

// LinearKind is a straight meridian front moving at constant speed.
type LinearKind struct{}

// DeepKind is a latitude-faithful front that bows where parallels are
// shorter. Samples controls the composed-cut resolution (0 = default).
type DeepKind struct {
	Samples int
}

// SplitKind propagates two fronts outward from the area's center meridian.
type SplitKind struct{}

func (k Kind) activeCount() int {
	n := 0
	if k.Linear != nil {
		n++
	}
	if k.Deep != nil {
		n++
	}
	if k.Split != nil {
		n++
	}
	return n
}

// Params are the wave parameters, owned by the caller's event definition.
type Params struct {
	Speed     float64 // meters per second
	Direction Direction
	Start     time.Time
	Kind      Kind

	// RecomposeAfter caps the age of a snapshot eligible for incremental
	// re-splitting. Zero selects the default.
	RecomposeAfter time.Duration
	// WarmingHorizon is how close a hit must be for State to report
	// warming. Zero selects the default.
	WarmingHorizon time.Duration
}

const (
	defaultRecomposeAfter = 30 * time.Second
	defaultWarmingHorizon = time.Minute
)

// Area is the event's geometry, loaded and cached by an external data
// layer. BBox may be left zero to derive it from the polygons.
type Area struct {
	Polygons []geo.Polygon
	BBox     geo.BoundingBox
}

// Phase is the calculator's lifecycle state.
type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Completed
)

func (p Phase) String() string {
	switch p {
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return "not_started"
	}
}

// State is the reported phase plus the warming sub-state for an observer
// about to be hit.
type State struct {
	Phase   Phase
	Warming bool
}

// Calculator owns the wave parameters and answers progression queries.
// Construct with NewCalculator; all methods are safe for concurrent use.
type Calculator struct {
	area   Area
	params Params
	model  frontModel
	clock  Clock

	mu   sync.Mutex
	prev *Snapshot
}

// NewCalculator builds a calculator for the given area and parameters.
// The clock is injected so simulated or accelerated time sources can drive
// the wave; a nil clock selects the system clock.
func NewCalculator(area Area, params Params, clock Clock) (*Calculator, error) {
	if params.Speed <= 0 {
		return nil, fmt.Errorf("wave: speed must be positive, got %v", params.Speed)
	}
	if n := params.Kind.activeCount(); n != 1 {
		return nil, fmt.Errorf("wave: exactly one kind must be set, got %d", n)
	}
	if params.Start.IsZero() {
		return nil, errors.New("wave: start time is required")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	usable := area.Polygons[:0:0]
	for _, p := range area.Polygons {
		if !p.IsDegenerate() {
			usable = append(usable, p)
		}
	}
	area.Polygons = usable
	if area.BBox.IsZero() {
		area.BBox = geo.BoundsOf(area.Polygons)
	}

	var model frontModel
	switch {
	case params.Kind.Linear != nil:
		model = newLinearFront(area.BBox, params.Speed, params.Direction)
	case params.Kind.Deep != nil:
		model = newDeepFront(area.BBox, params.Speed, params.Direction, params.Kind.Deep.Samples)
	default:
		model = newSplitFront(area.BBox, params.Speed)
	}

	return &Calculator{area: area, params: params, model: model, clock: clock}, nil
}

// TotalDuration is the full sweep duration, derived once from the box's
// worst-case span and the speed.
func (c *Calculator) TotalDuration() time.Duration { return c.model.total() }

// Start returns the wave start time.
func (c *Calculator) Start() time.Time { return c.params.Start }

// End returns the wave end time.
func (c *Calculator) End() time.Time { return c.params.Start.Add(c.model.total()) }

// Phase returns the lifecycle phase at the current clock time.
func (c *Calculator) Phase() Phase {
	now := c.clock.Now()
	if now.Before(c.params.Start) {
		return NotStarted
	}
	if now.Before(c.End()) {
		return InProgress
	}
	return Completed
}

// State returns the phase plus whether the observer at pos is inside the
// warming horizon (about to be hit).
func (c *Calculator) State(pos geo.Position) State {
	s := State{Phase: c.Phase()}
	if s.Phase == Completed {
		return s
	}
	horizon := c.params.WarmingHorizon
	if horizon == 0 {
		horizon = defaultWarmingHorizon
	}
	if t, ok := c.TimeBeforeHit(pos); ok && t > 0 && t <= horizon {
		s.Warming = true
	}
	return s
}

// Progression returns the wave's progression percentage, clamped to
// [0, 100] and monotonically non-decreasing in time.
func (c *Calculator) Progression() float64 {
	total := c.model.total()
	if total <= 0 {
		if c.clock.Now().Before(c.params.Start) {
			return 0
		}
		return 100
	}
	elapsed := c.clock.Now().Sub(c.params.Start)
	return geo.Clamp(float64(elapsed)/float64(total), 0, 1) * 100
}

// FrontLongitude returns the current front longitude at the reference
// latitude. At t=0 it equals the starting edge; at the end, the opposite
// edge. For the split kind it reports the east-moving front.
func (c *Calculator) FrontLongitude(refLat float64) float64 {
	return c.model.frontLng(refLat, c.elapsed())
}

// Polygons returns a fresh snapshot of the traversed/remaining split, or
// nil when the area is empty or the wave has not started. The previous
// snapshot decides between incremental (ADD) and full (RECOMPOSE)
// splitting; see DecideMode.
func (c *Calculator) Polygons() *Snapshot {
	if len(c.area.Polygons) == 0 {
		return nil
	}
	now := c.clock.Now()
	if now.Before(c.params.Start) {
		return nil
	}
	elapsed := c.elapsed()

	c.mu.Lock()
	defer c.mu.Unlock()

	maxAge := c.params.RecomposeAfter
	if maxAge == 0 {
		maxAge = defaultRecomposeAfter
	}
	mode := DecideMode(c.prev, now, maxAge)

	base := c.area.Polygons
	var traversed []geo.Polygon
	if mode == ModeAdd {
		base = c.prev.Remaining
		traversed = append(traversed, c.prev.Traversed...)
	}

	var remaining []geo.Polygon
	if elapsed >= c.model.total() {
		traversed = append(traversed, base...)
	} else {
		t, r := c.model.partition(base, elapsed)
		traversed = append(traversed, t...)
		remaining = r
	}

	snap := &Snapshot{At: now, Traversed: traversed, Remaining: remaining, Mode: mode}
	c.prev = snap
	return snap
}

// TimeBeforeHit returns how long until the front reaches pos. The result
// is zero or negative once the front has passed. ok is false when the area
// has no polygons to sweep.
func (c *Calculator) TimeBeforeHit(pos geo.Position) (time.Duration, bool) {
	if len(c.area.Polygons) == 0 || c.area.BBox.IsZero() {
		return 0, false
	}
	now := c.clock.Now()
	pending := time.Duration(0)
	if now.Before(c.params.Start) {
		pending = c.params.Start.Sub(now)
	}
	return pending + c.model.timeBeforeHit(pos, c.elapsed()), true
}

// HasHit reports whether the front has already passed pos: pos is inside
// the overall area and outside the remaining region.
func (c *Calculator) HasHit(pos geo.Position) bool {
	if !geo.AnyContains(c.area.Polygons, pos) {
		return false
	}
	snap := c.Polygons()
	if snap == nil {
		return false
	}
	return !geo.AnyContains(snap.Remaining, pos)
}

// elapsed is the time since wave start, clamped to [0, total].
func (c *Calculator) elapsed() time.Duration {
	e := c.clock.Now().Sub(c.params.Start)
	if e < 0 {
		return 0
	}
	if total := c.model.total(); e > total {
		return total
	}
	return e
}
