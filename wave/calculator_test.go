package wave

import (
	"math"
	"testing"
	"time"

	"github.com/tidelab/swell/geo"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func squareArea() Area {
	return Area{Polygons: []geo.Polygon{geo.NewPolygon([]geo.Position{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 0},
	})}}
}

func boxArea(south, west, north, east float64) Area {
	return Area{Polygons: []geo.Polygon{geo.NewPolygon([]geo.Position{
		{Lat: south, Lng: west},
		{Lat: south, Lng: east},
		{Lat: north, Lng: east},
		{Lat: north, Lng: west},
	})}}
}

func linearParams(speed float64, dir Direction) Params {
	return Params{
		Speed:     speed,
		Direction: dir,
		Start:     t0,
		Kind:      Kind{Linear: &LinearKind{}},
	}
}

func newCalc(t *testing.T, area Area, params Params, clock Clock) *Calculator {
	t.Helper()
	c, err := NewCalculator(area, params, clock)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return c
}

func TestNewCalculatorValidation(t *testing.T) {
	area := squareArea()
	tests := []struct {
		name   string
		params Params
	}{
		{"zero speed", Params{Direction: East, Start: t0, Kind: Kind{Linear: &LinearKind{}}}},
		{"no kind", Params{Speed: 100, Direction: East, Start: t0}},
		{"two kinds", Params{Speed: 100, Start: t0, Kind: Kind{Linear: &LinearKind{}, Deep: &DeepKind{}}}},
		{"no start", Params{Speed: 100, Kind: Kind{Linear: &LinearKind{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCalculator(area, tt.params, nil); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestProgressionClampedAndMonotonic(t *testing.T) {
	clock := NewSimClock(t0.Add(-time.Hour))
	c := newCalc(t, squareArea(), linearParams(200, East), clock)

	if p := c.Progression(); p != 0 {
		t.Errorf("progression before start = %v, want 0", p)
	}

	clock.Set(t0)
	prev := c.Progression()
	for i := 0; i < 50; i++ {
		clock.Advance(c.TotalDuration() / 40)
		p := c.Progression()
		if p < prev {
			t.Fatalf("progression decreased: %v -> %v", prev, p)
		}
		if p < 0 || p > 100 {
			t.Fatalf("progression out of range: %v", p)
		}
		prev = p
	}
	if prev != 100 {
		t.Errorf("progression after end = %v, want 100", prev)
	}
}

func TestFrontLongitudeEndpoints(t *testing.T) {
	clock := NewSimClock(t0)
	c := newCalc(t, squareArea(), linearParams(200, East), clock)

	if lng := c.FrontLongitude(5); math.Abs(lng-0) > 1e-9 {
		t.Errorf("front at t=0 = %v, want west edge 0", lng)
	}
	clock.Set(t0.Add(c.TotalDuration()))
	if lng := c.FrontLongitude(5); math.Abs(lng-10) > 1e-9 {
		t.Errorf("front at end = %v, want east edge 10", lng)
	}

	// Westward wave starts at the east edge.
	clock = NewSimClock(t0)
	c = newCalc(t, squareArea(), linearParams(200, West), clock)
	if lng := c.FrontLongitude(5); math.Abs(lng-10) > 1e-9 {
		t.Errorf("westward front at t=0 = %v, want east edge 10", lng)
	}
}

func TestFrontLongitudeScenario(t *testing.T) {
	// 100 m/s across bbox (10,20)-(15,30), queried 10 minutes in: the
	// front sits at 20 + (speed*t/maxDistance) * 10 degrees for EAST,
	// where maxDistance is the span at the widest latitude (10).
	clock := NewSimClock(t0.Add(10 * time.Minute))
	c := newCalc(t, boxArea(10, 20, 15, 30), linearParams(100, East), clock)

	maxDistance := geo.Distance(geo.Position{Lat: 10, Lng: 20}, geo.Position{Lat: 10, Lng: 30})
	want := 20 + (100*600/maxDistance)*10
	if got := c.FrontLongitude(12.5); math.Abs(got-want) > 1e-9 {
		t.Errorf("FrontLongitude(12.5) = %v, want %v", got, want)
	}

	// Symmetric formula for WEST.
	cw := newCalc(t, boxArea(10, 20, 15, 30), linearParams(100, West), clock)
	wantW := 30 - (100*600/maxDistance)*10
	if got := cw.FrontLongitude(12.5); math.Abs(got-wantW) > 1e-9 {
		t.Errorf("west FrontLongitude(12.5) = %v, want %v", got, wantW)
	}
}

func TestPolygonsLifecycle(t *testing.T) {
	clock := NewSimClock(t0.Add(-time.Minute))
	c := newCalc(t, squareArea(), linearParams(200, East), clock)

	if snap := c.Polygons(); snap != nil {
		t.Error("snapshot before start should be nil")
	}

	clock.Set(t0.Add(c.TotalDuration() / 2))
	snap := c.Polygons()
	if snap == nil {
		t.Fatal("snapshot mid-wave should not be nil")
	}
	if len(snap.Traversed) == 0 || len(snap.Remaining) == 0 {
		t.Fatalf("mid-wave split: %d traversed, %d remaining", len(snap.Traversed), len(snap.Remaining))
	}
	total := geo.TotalArea(snap.Traversed) + geo.TotalArea(snap.Remaining)
	if math.Abs(total-100) > 1e-6 {
		t.Errorf("split areas sum to %v, want 100", total)
	}

	clock.Set(t0.Add(c.TotalDuration() + time.Minute))
	snap = c.Polygons()
	if snap == nil {
		t.Fatal("snapshot after end should not be nil")
	}
	if len(snap.Remaining) != 0 {
		t.Errorf("completed wave has %d remaining polygons, want 0", len(snap.Remaining))
	}
}

func TestPolygonsEmptyArea(t *testing.T) {
	clock := NewSimClock(t0.Add(time.Hour))
	c := newCalc(t, Area{BBox: geo.NewBoundingBox(geo.Position{Lat: 0, Lng: 0}, geo.Position{Lat: 10, Lng: 10})}, linearParams(200, East), clock)
	if snap := c.Polygons(); snap != nil {
		t.Error("snapshot of empty area should be nil")
	}
	if _, ok := c.TimeBeforeHit(geo.Position{Lat: 5, Lng: 5}); ok {
		t.Error("TimeBeforeHit on empty area should not be ok")
	}
}

func TestPolygonsAddThenRecompose(t *testing.T) {
	clock := NewSimClock(t0)
	params := linearParams(200, East)
	params.RecomposeAfter = 30 * time.Second
	c := newCalc(t, squareArea(), params, clock)

	clock.Set(t0.Add(c.TotalDuration() / 4))
	first := c.Polygons()
	if first.Mode != ModeRecompose {
		t.Errorf("first snapshot mode = %v, want recompose", first.Mode)
	}

	clock.Advance(10 * time.Second)
	second := c.Polygons()
	if second.Mode != ModeAdd {
		t.Errorf("second snapshot mode = %v, want add", second.Mode)
	}
	total := geo.TotalArea(second.Traversed) + geo.TotalArea(second.Remaining)
	if math.Abs(total-100) > 1e-6 {
		t.Errorf("ADD split areas sum to %v, want 100", total)
	}
	if geo.TotalArea(second.Traversed) < geo.TotalArea(first.Traversed) {
		t.Error("traversed area shrank between polls")
	}

	clock.Advance(2 * time.Minute)
	third := c.Polygons()
	if third.Mode != ModeRecompose {
		t.Errorf("stale snapshot mode = %v, want recompose", third.Mode)
	}
	total = geo.TotalArea(third.Traversed) + geo.TotalArea(third.Remaining)
	if math.Abs(total-100) > 1e-6 {
		t.Errorf("RECOMPOSE split areas sum to %v, want 100", total)
	}
}

func TestTimeBeforeHit(t *testing.T) {
	clock := NewSimClock(t0)
	c := newCalc(t, squareArea(), linearParams(100, East), clock)
	user := geo.Position{Lat: 5, Lng: 5}

	d, ok := c.TimeBeforeHit(user)
	if !ok {
		t.Fatal("TimeBeforeHit not ok")
	}
	want := geo.LngSpanMeters(5, 0, 5) / 100
	if math.Abs(d.Seconds()-want) > 0.5 {
		t.Errorf("TimeBeforeHit = %vs, want %vs", d.Seconds(), want)
	}

	// Once the front passes the user, the result goes negative.
	clock.Set(t0.Add(c.TotalDuration() * 9 / 10))
	if d, _ := c.TimeBeforeHit(user); d > 0 {
		t.Errorf("TimeBeforeHit after pass = %v, want <= 0", d)
	}
}

func TestTimeBeforeHitBeforeStartIncludesPending(t *testing.T) {
	clock := NewSimClock(t0.Add(-10 * time.Minute))
	c := newCalc(t, squareArea(), linearParams(100, East), clock)

	d, ok := c.TimeBeforeHit(geo.Position{Lat: 5, Lng: 5})
	if !ok {
		t.Fatal("TimeBeforeHit not ok")
	}
	travel := geo.LngSpanMeters(5, 0, 5) / 100
	want := (10 * time.Minute).Seconds() + travel
	if math.Abs(d.Seconds()-want) > 0.5 {
		t.Errorf("TimeBeforeHit = %vs, want %vs", d.Seconds(), want)
	}
}

func TestHasHit(t *testing.T) {
	clock := NewSimClock(t0)
	c := newCalc(t, squareArea(), linearParams(100, East), clock)
	user := geo.Position{Lat: 5, Lng: 2}

	if c.HasHit(user) {
		t.Error("user hit at t=0")
	}
	clock.Set(t0.Add(c.TotalDuration() / 2))
	if !c.HasHit(user) {
		t.Error("user at lng 2 not hit at half progression")
	}
	if c.HasHit(geo.Position{Lat: 5, Lng: 9}) {
		t.Error("user at lng 9 hit at half progression")
	}
	if c.HasHit(geo.Position{Lat: 50, Lng: 2}) {
		t.Error("user outside the area can never be hit")
	}
}

func TestPhaseTransitions(t *testing.T) {
	clock := NewSimClock(t0.Add(-time.Hour))
	c := newCalc(t, squareArea(), linearParams(200, East), clock)

	if p := c.Phase(); p != NotStarted {
		t.Errorf("phase = %v, want not_started", p)
	}
	clock.Set(t0.Add(time.Second))
	if p := c.Phase(); p != InProgress {
		t.Errorf("phase = %v, want in_progress", p)
	}
	clock.Set(t0.Add(c.TotalDuration() + time.Second))
	if p := c.Phase(); p != Completed {
		t.Errorf("phase = %v, want completed", p)
	}
}

func TestStateWarming(t *testing.T) {
	clock := NewSimClock(t0)
	params := linearParams(100, East)
	params.WarmingHorizon = time.Minute
	c := newCalc(t, squareArea(), params, clock)

	far := geo.Position{Lat: 0, Lng: 9}
	if s := c.State(far); s.Warming {
		t.Error("distant user should not be warming")
	}

	// Park the front ~30 seconds west of the user.
	hitIn := geo.LngSpanMeters(0, 0, 9) / 100
	clock.Set(t0.Add(time.Duration((hitIn - 30) * float64(time.Second))))
	if s := c.State(far); !s.Warming {
		t.Error("user 30s from the front should be warming")
	}
	if s := c.State(far); s.Phase != InProgress {
		t.Errorf("phase = %v, want in_progress", s.Phase)
	}
}

func TestDeepFrontBows(t *testing.T) {
	clock := NewSimClock(t0.Add(30 * time.Minute))
	params := Params{
		Speed:     100,
		Direction: East,
		Start:     t0,
		Kind:      Kind{Deep: &DeepKind{}},
	}
	c := newCalc(t, boxArea(10, 20, 15, 30), params, clock)

	// Parallels are shorter at 15N than at 10N, so the same elapsed
	// distance covers more degrees there: the front bows east.
	low := c.FrontLongitude(10)
	high := c.FrontLongitude(15)
	if high <= low {
		t.Errorf("deep front should be further east at 15N: %v vs %v", high, low)
	}

	snap := c.Polygons()
	if snap == nil {
		t.Fatal("deep snapshot nil")
	}
	total := geo.TotalArea(snap.Traversed) + geo.TotalArea(snap.Remaining)
	want := 10.0 * 5.0
	if math.Abs(total-want) > 1e-3 {
		t.Errorf("deep split areas sum to %v, want %v", total, want)
	}
}

func TestSplitKind(t *testing.T) {
	clock := NewSimClock(t0)
	params := Params{
		Speed: 100,
		Start: t0,
		Kind:  Kind{Split: &SplitKind{}},
	}
	c := newCalc(t, squareArea(), params, clock)

	// Both fronts start on the center meridian.
	if lng := c.FrontLongitude(5); math.Abs(lng-5) > 1e-9 {
		t.Errorf("split front at t=0 = %v, want center 5", lng)
	}

	clock.Set(t0.Add(c.TotalDuration() / 2))
	snap := c.Polygons()
	if snap == nil {
		t.Fatal("split snapshot nil")
	}
	if len(snap.Remaining) < 2 {
		t.Errorf("split wave should leave both outer bands, got %d remaining", len(snap.Remaining))
	}
	total := geo.TotalArea(snap.Traversed) + geo.TotalArea(snap.Remaining)
	if math.Abs(total-100) > 1e-6 {
		t.Errorf("split areas sum to %v, want 100", total)
	}
	// The traversed band contains the center, not the edges.
	if !geo.AnyContains(snap.Traversed, geo.Position{Lat: 5, Lng: 5}) {
		t.Error("center should be traversed")
	}
	if geo.AnyContains(snap.Traversed, geo.Position{Lat: 5, Lng: 0.5}) {
		t.Error("west edge should not be traversed yet")
	}

	clock.Set(t0.Add(c.TotalDuration() + time.Second))
	snap = c.Polygons()
	if len(snap.Remaining) != 0 {
		t.Errorf("completed split wave has %d remaining", len(snap.Remaining))
	}
}
