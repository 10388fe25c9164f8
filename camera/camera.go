// Package camera computes viewport constraints so the rendered map never
// shows territory outside an event's bounding box: the minimum zoom for a
// fitting mode, the valid range of camera centers, and clamping for
// proposed camera moves.
package camera

import (
	"math"

	"github.com/tidelab/swell/geo"
)

// FitMode selects how the event box is fitted to the screen.
type FitMode int

const (
	// TightFit keeps the whole event area visible with zero padding on the
	// constraining dimension. Used for read-only, auto-tracked screens.
	TightFit FitMode = iota
	// AspectFit fills the constraining screen dimension with the event's
	// smaller dimension; the larger dimension overflows and becomes
	// pannable. Used for free-exploration screens.
	AspectFit
)

func (m FitMode) String() string {
	if m == AspectFit {
		return "aspect_fit"
	}
	return "tight_fit"
}

const (
	// tileSize is the slippy-map tile edge: 360 degrees of longitude span
	// tileSize * 2^zoom pixels.
	tileSize = 256.0

	// maxHalfExtentDeg is the sanity bound on a reported viewport. During
	// startup renderers report viewports covering most of the globe; any
	// half-extent beyond this is "not yet initialized".
	maxHalfExtentDeg = 40.0

	// resizeThreshold is the relative screen-dimension change below which
	// a resize is ignored as jitter.
	resizeThreshold = 0.10
)

// Viewport is the live camera reading from the renderer: the current
// center and the visible half-extent in degrees on each axis.
type Viewport struct {
	Center        geo.Position
	HalfWidthDeg  float64
	HalfHeightDeg float64
}

// Initialized reports whether the viewport reading is plausible. Renderers
// report near-global extents before their first layout pass.
func (v Viewport) Initialized() bool {
	return v.HalfWidthDeg > 0 && v.HalfWidthDeg <= maxHalfExtentDeg &&
		v.HalfHeightDeg > 0 && v.HalfHeightDeg <= maxHalfExtentDeg
}

// Constraints restricts the camera: the minimum zoom level and the box of
// valid camera centers. Recomputed on every camera-idle or resize event;
// never persisted.
type Constraints struct {
	MinZoom      float64
	CenterBounds geo.BoundingBox
}

// ComputeConstraints derives the camera constraints for an event box on a
// screen of screenW x screenH pixels. The current viewport shrinks the
// pannable center region by its half-extent, so the region grows as the
// user zooms in and always stays inside the event box.
//
// Degenerate screens or boxes yield neutral constraints (zero MinZoom,
// bounds equal to the box) instead of dividing by zero. An uninitialized
// viewport falls back to zero padding rather than producing near-zero,
// gesture-blocking bounds.
func ComputeConstraints(box geo.BoundingBox, screenW, screenH float64, mode FitMode, view Viewport) Constraints {
	if screenW <= 0 || screenH <= 0 || box.Width() <= 0 || box.Height() <= 0 {
		return Constraints{CenterBounds: box}
	}

	zoomW := zoomForLngSpan(box.Width(), screenW)
	zoomH := zoomForLatSpan(box.Height(), screenH)

	var minZoom float64
	switch mode {
	case AspectFit:
		// Wider event than screen: height governs; taller: width governs.
		// Either way the constraining dimension exactly fills the screen.
		minZoom = math.Max(zoomW, zoomH)
	default:
		// The whole box is visible at minimum zoom; zooming in shrinks the
		// visible window inside it.
		minZoom = math.Min(zoomW, zoomH)
	}

	halfW, halfH := 0.0, 0.0
	if view.Initialized() {
		halfW = view.HalfWidthDeg
		halfH = view.HalfHeightDeg
	}
	return Constraints{
		MinZoom:      minZoom,
		CenterBounds: shrinkBounds(box, halfW, halfH),
	}
}

// ClampCenter clamps a proposed camera center to the bounds, each axis
// independently, so the camera sticks to edges and corners. A center
// already inside the bounds is returned unchanged.
func ClampCenter(proposed geo.Position, bounds geo.BoundingBox) geo.Position {
	lat := geo.Clamp(proposed.Lat, bounds.SouthWest.Lat, bounds.NorthEast.Lat)

	west := bounds.SouthWest.Lng
	east := bounds.EastUnwrapped()
	lng := proposed.Lng
	for lng < west-180 {
		lng += 360
	}
	for lng > east+180 {
		lng -= 360
	}
	lng = geo.Clamp(lng, west, east)
	return geo.Position{Lat: lat, Lng: lng}
}

// SignificantResize reports whether a screen-dimension change is large
// enough to recompute constraints. Changes under the threshold on both
// axes are jitter and must be ignored to avoid feedback loops.
func SignificantResize(oldW, oldH, newW, newH float64) bool {
	if oldW <= 0 || oldH <= 0 {
		return true
	}
	return math.Abs(newW-oldW)/oldW > resizeThreshold ||
		math.Abs(newH-oldH)/oldH > resizeThreshold
}

// VisibleSpan returns the degree extent visible at a zoom level on a
// screen of the given pixel dimensions.
func VisibleSpan(zoom, screenW, screenH float64) (lngSpan, latSpan float64) {
	worldPx := tileSize * math.Pow(2, zoom)
	return screenW * 360 / worldPx, screenH * 360 / worldPx
}

// zoomForLngSpan is the zoom at which spanDeg of longitude exactly fills
// screenWpx pixels.
func zoomForLngSpan(spanDeg, screenWpx float64) float64 {
	return math.Log2(screenWpx * 360 / (tileSize * spanDeg))
}

// zoomForLatSpan treats latitude degrees at the same scale as longitude
// degrees (equirectangular; event areas are small enough that Mercator
// stretching is absorbed by the fit tolerance).
func zoomForLatSpan(spanDeg, screenHpx float64) float64 {
	return math.Log2(screenHpx * 360 / (tileSize * spanDeg))
}

// shrinkBounds insets a box by the viewport half-extent. An axis whose
// inset would invert collapses to the center line so the camera still has
// a valid position there.
func shrinkBounds(box geo.BoundingBox, halfW, halfH float64) geo.BoundingBox {
	center := box.Center()

	south := box.SouthWest.Lat + halfH
	north := box.NorthEast.Lat - halfH
	if south > north {
		south, north = center.Lat, center.Lat
	}

	west := box.SouthWest.Lng + halfW
	east := box.EastUnwrapped() - halfW
	if west > east {
		west, east = center.Lng, center.Lng
	}

	return geo.BoundingBox{
		SouthWest: geo.Position{Lat: south, Lng: west},
		NorthEast: geo.Position{Lat: north, Lng: east},
	}
}
