// Package geo provides geographic primitives for the wave engine:
// positions, bounding boxes, polygons, cut lines and polygon splitting.
//
// Longitudes are stored raw (un-normalized). Polygons that span the
// antimeridian keep monotonic longitudes past ±180 so that all arithmetic
// stays linear; normalizing back to [-180, 180] is a caller decision.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for geodesic distances.
const EarthRadiusMeters = 6371000.0

// Position is a geographic coordinate in floating-point degrees.
// Lat must be in [-90, 90]; Lng is raw and may lie outside [-180, 180].
type Position struct {
	Lat float64
	Lng float64
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Position) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	// Guard rounding before the sqrt so antipodal points stay finite.
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// LngSpanMeters returns the geodesic width of the longitude span
// [west, east] measured along the parallel at lat.
func LngSpanMeters(lat, west, east float64) float64 {
	return Distance(Position{Lat: lat, Lng: west}, Position{Lat: lat, Lng: east})
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
