package wave

import (
	"time"

	"github.com/tidelab/swell/geo"
)

// frontModel is the per-kind wave front. All three kinds answer the same
// queries; the calculator owns the clock and passes elapsed time in.
type frontModel interface {
	// total is the sweep duration over the whole area.
	total() time.Duration
	// frontLng is the front longitude at the reference latitude.
	frontLng(refLat float64, elapsed time.Duration) float64
	// partition splits the given polygons into traversed and remaining.
	partition(polys []geo.Polygon, elapsed time.Duration) (traversed, remaining []geo.Polygon)
	// timeBeforeHit is the signed time until the front reaches pos,
	// measured from the elapsed instant. Negative once passed.
	timeBeforeHit(pos geo.Position, elapsed time.Duration) time.Duration
}

// linearFront sweeps a straight meridian across the box at constant speed.
// The front position is derived from the worst-case east-west distance, the
// span at the box's widest latitude, so the wave never finishes early at
// any latitude.
type linearFront struct {
	bbox   geo.BoundingBox
	speed  float64
	dir    Direction
	widthM float64
	dur    time.Duration
}

func newLinearFront(bbox geo.BoundingBox, speed float64, dir Direction) *linearFront {
	widthM := bbox.WidthMeters()
	return &linearFront{
		bbox:   bbox,
		speed:  speed,
		dir:    dir,
		widthM: widthM,
		dur:    metersToDuration(widthM, speed),
	}
}

func (f *linearFront) total() time.Duration { return f.dur }

func (f *linearFront) frontLng(refLat float64, elapsed time.Duration) float64 {
	frac := travelFraction(f.speed, elapsed, f.widthM)
	west := f.bbox.SouthWest.Lng
	east := f.bbox.EastUnwrapped()
	if f.dir == West {
		return geo.Lerp(east, west, frac)
	}
	return geo.Lerp(west, east, frac)
}

func (f *linearFront) partition(polys []geo.Polygon, elapsed time.Duration) ([]geo.Polygon, []geo.Polygon) {
	cut := geo.NewMeridianCut(f.frontLng(0, elapsed))
	west, east := geo.SplitAll(polys, cut)
	if f.dir == West {
		return east, west
	}
	return west, east
}

func (f *linearFront) timeBeforeHit(pos geo.Position, elapsed time.Duration) time.Duration {
	return directionalTime(f.frontLng(pos.Lat, elapsed), pos, f.dir, f.speed)
}

// deepFront is latitude-faithful: the front longitude is derived from the
// geodesic span at each latitude, so the front bows where parallels are
// shorter. The cut is a composed line sampled across the box's latitudes.
type deepFront struct {
	bbox    geo.BoundingBox
	speed   float64
	dir     Direction
	samples int
	dur     time.Duration
}

const defaultDeepSamples = 17

func newDeepFront(bbox geo.BoundingBox, speed float64, dir Direction, samples int) *deepFront {
	if samples < 3 {
		samples = defaultDeepSamples
	}
	return &deepFront{
		bbox:    bbox,
		speed:   speed,
		dir:     dir,
		samples: samples,
		dur:     metersToDuration(bbox.WidthMeters(), speed),
	}
}

func (f *deepFront) total() time.Duration { return f.dur }

func (f *deepFront) frontLng(refLat float64, elapsed time.Duration) float64 {
	west := f.bbox.SouthWest.Lng
	east := f.bbox.EastUnwrapped()
	span := geo.LngSpanMeters(refLat, west, east)
	frac := travelFraction(f.speed, elapsed, span)
	if f.dir == West {
		return geo.Lerp(east, west, frac)
	}
	return geo.Lerp(west, east, frac)
}

func (f *deepFront) cut(elapsed time.Duration) geo.Cut {
	south := f.bbox.SouthWest.Lat
	north := f.bbox.NorthEast.Lat
	pts := make([]geo.Position, f.samples)
	for i := range pts {
		lat := geo.Lerp(south, north, float64(i)/float64(f.samples-1))
		pts[i] = geo.Position{Lat: lat, Lng: f.frontLng(lat, elapsed)}
	}
	return geo.NewComposedCut(pts)
}

func (f *deepFront) partition(polys []geo.Polygon, elapsed time.Duration) ([]geo.Polygon, []geo.Polygon) {
	west, east := geo.SplitAll(polys, f.cut(elapsed))
	if f.dir == West {
		return east, west
	}
	return west, east
}

func (f *deepFront) timeBeforeHit(pos geo.Position, elapsed time.Duration) time.Duration {
	return directionalTime(f.frontLng(pos.Lat, elapsed), pos, f.dir, f.speed)
}

// splitFront propagates two straight fronts outward from the area's center
// meridian, one east and one west. Traversed is the band between them; the
// sweep completes when the slower half reaches its edge.
type splitFront struct {
	bbox      geo.BoundingBox
	speed     float64
	centerLng float64
	westM     float64 // center to west edge, widest latitude
	eastM     float64 // center to east edge, widest latitude
	dur       time.Duration
}

func newSplitFront(bbox geo.BoundingBox, speed float64) *splitFront {
	center := bbox.Center().Lng
	lat := bbox.WidestLat()
	westM := geo.LngSpanMeters(lat, bbox.SouthWest.Lng, center)
	eastM := geo.LngSpanMeters(lat, center, bbox.EastUnwrapped())
	half := westM
	if eastM > half {
		half = eastM
	}
	return &splitFront{
		bbox:      bbox,
		speed:     speed,
		centerLng: center,
		westM:     westM,
		eastM:     eastM,
		dur:       metersToDuration(half, speed),
	}
}

func (f *splitFront) total() time.Duration { return f.dur }

func (f *splitFront) fronts(elapsed time.Duration) (westLng, eastLng float64) {
	westLng = geo.Lerp(f.centerLng, f.bbox.SouthWest.Lng, travelFraction(f.speed, elapsed, f.westM))
	eastLng = geo.Lerp(f.centerLng, f.bbox.EastUnwrapped(), travelFraction(f.speed, elapsed, f.eastM))
	return westLng, eastLng
}

// frontLng reports the east-moving front; the west-moving one is its
// mirror around the center meridian.
func (f *splitFront) frontLng(refLat float64, elapsed time.Duration) float64 {
	_, east := f.fronts(elapsed)
	return east
}

func (f *splitFront) partition(polys []geo.Polygon, elapsed time.Duration) ([]geo.Polygon, []geo.Polygon) {
	westLng, eastLng := f.fronts(elapsed)
	var traversed, remaining []geo.Polygon
	outerWest, rest := geo.SplitAll(polys, geo.NewMeridianCut(westLng))
	mid, outerEast := geo.SplitAll(rest, geo.NewMeridianCut(eastLng))
	traversed = append(traversed, mid...)
	remaining = append(append(remaining, outerWest...), outerEast...)
	return traversed, remaining
}

func (f *splitFront) timeBeforeHit(pos geo.Position, elapsed time.Duration) time.Duration {
	westLng, eastLng := f.fronts(elapsed)
	if pos.Lng >= f.centerLng {
		return directionalTime(eastLng, pos, East, f.speed)
	}
	return directionalTime(westLng, pos, West, f.speed)
}

// travelFraction is the traversed share of a span, clamped to [0, 1].
func travelFraction(speed float64, elapsed time.Duration, spanMeters float64) float64 {
	if spanMeters <= 0 {
		return 1
	}
	if elapsed < 0 {
		return 0
	}
	return geo.Clamp(speed*elapsed.Seconds()/spanMeters, 0, 1)
}

func metersToDuration(meters, speed float64) time.Duration {
	if speed <= 0 {
		return 0
	}
	return time.Duration(meters / speed * float64(time.Second))
}

// directionalTime is the signed time for a front at frontLng, moving in
// dir, to reach pos: positive before the hit, negative after.
func directionalTime(frontLng float64, pos geo.Position, dir Direction, speed float64) time.Duration {
	if speed <= 0 {
		return 0
	}
	meters := geo.LngSpanMeters(pos.Lat, frontLng, pos.Lng)
	ahead := pos.Lng >= frontLng
	if dir == West {
		ahead = pos.Lng <= frontLng
	}
	if !ahead {
		meters = -meters
	}
	return time.Duration(meters / speed * float64(time.Second))
}
