package geo

// BoundingBox is an axis-aligned geographic box defined by its south-west
// and north-east corners. South <= North always holds; the longitude
// ordering is unconstrained because a box may wrap the antimeridian, in
// which case NorthEast.Lng < SouthWest.Lng.
type BoundingBox struct {
	SouthWest Position
	NorthEast Position
}

// NewBoundingBox returns the box spanning the two corners.
func NewBoundingBox(southWest, northEast Position) BoundingBox {
	return BoundingBox{SouthWest: southWest, NorthEast: northEast}
}

// IsZero reports whether the box is the zero value.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

// Width returns the east-west extent in degrees, wrap-aware.
func (b BoundingBox) Width() float64 {
	w := b.NorthEast.Lng - b.SouthWest.Lng
	if w < 0 {
		w += 360
	}
	return w
}

// Height returns the north-south extent in degrees.
func (b BoundingBox) Height() float64 {
	return b.NorthEast.Lat - b.SouthWest.Lat
}

// EastUnwrapped returns the east bound shifted so that it is >= the west
// bound, letting callers do linear longitude arithmetic across the
// antimeridian.
func (b BoundingBox) EastUnwrapped() float64 {
	return b.SouthWest.Lng + b.Width()
}

// Center returns the box center. For wrapping boxes the longitude is the
// unwrapped midpoint and may exceed 180.
func (b BoundingBox) Center() Position {
	return Position{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: b.SouthWest.Lng + b.Width()/2,
	}
}

// WidestLat returns the latitude at which the box is widest east-west:
// 0 if the box straddles the equator, otherwise the bound closer to the
// equator. This is the worst-case latitude for wave duration calculations.
func (b BoundingBox) WidestLat() float64 {
	if b.SouthWest.Lat <= 0 && b.NorthEast.Lat >= 0 {
		return 0
	}
	south := b.SouthWest.Lat
	north := b.NorthEast.Lat
	if abs(south) < abs(north) {
		return south
	}
	return north
}

// WidthMeters returns the geodesic east-west width measured at WidestLat.
func (b BoundingBox) WidthMeters() float64 {
	lat := b.WidestLat()
	return LngSpanMeters(lat, b.SouthWest.Lng, b.EastUnwrapped())
}

// HeightMeters returns the geodesic north-south height.
func (b BoundingBox) HeightMeters() float64 {
	lng := b.SouthWest.Lng
	return Distance(Position{Lat: b.SouthWest.Lat, Lng: lng}, Position{Lat: b.NorthEast.Lat, Lng: lng})
}

// Contains reports whether p lies inside the box (boundary inclusive).
// Longitude containment is wrap-aware.
func (b BoundingBox) Contains(p Position) bool {
	if p.Lat < b.SouthWest.Lat || p.Lat > b.NorthEast.Lat {
		return false
	}
	lng := p.Lng
	west := b.SouthWest.Lng
	east := b.EastUnwrapped()
	for lng < west {
		lng += 360
	}
	for lng-360 >= west {
		lng -= 360
	}
	return lng >= west && lng <= east
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
