package geo

// Vertex is a polygon ring vertex. A plain vertex has Cut == 0. A cut
// vertex was synthesized while splitting: Cut identifies the producing cut
// line and EdgeA/EdgeB are the two original edge endpoints it was
// interpolated between, so a later split with the same cut can reuse the
// intersection exactly and a split with a different cut can replace it.
type Vertex struct {
	Pos   Position
	Cut   CutID
	EdgeA Position
	EdgeB Position
}

// Polygon is an ordered closed ring of vertices. The closing edge from the
// last vertex back to the first is implicit; the first vertex is not
// duplicated in storage.
type Polygon struct {
	Vertices []Vertex
}

// NewPolygon builds a polygon from plain positions. A trailing position
// equal to the first is dropped.
func NewPolygon(ring []Position) Polygon {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	vs := make([]Vertex, len(ring))
	for i, p := range ring {
		vs[i] = Vertex{Pos: p}
	}
	return Polygon{Vertices: vs}
}

// Len returns the number of stored vertices.
func (p Polygon) Len() int { return len(p.Vertices) }

// IsDegenerate reports whether the polygon is too small to enclose area.
// Degenerate polygons must be treated as empty by callers.
func (p Polygon) IsDegenerate() bool {
	if len(p.Vertices) < 3 {
		return true
	}
	return abs(p.signedArea()) < 1e-12
}

// Area returns the enclosed area in square degrees (shoelace formula).
func (p Polygon) Area() float64 {
	return abs(p.signedArea())
}

func (p Polygon) signedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	total := 0.0
	prev := p.Vertices[n-1].Pos
	for _, v := range p.Vertices {
		total += prev.Lng*v.Pos.Lat - prev.Lat*v.Pos.Lng
		prev = v.Pos
	}
	return total / 2
}

// Bounds returns the polygon's bounding box. For polygons stored with
// unwrapped longitudes the box is unwrapped as well. Returns the zero box
// for empty polygons.
func (p Polygon) Bounds() BoundingBox {
	if len(p.Vertices) == 0 {
		return BoundingBox{}
	}
	first := p.Vertices[0].Pos
	south, north := first.Lat, first.Lat
	west, east := first.Lng, first.Lng
	for _, v := range p.Vertices[1:] {
		if v.Pos.Lat < south {
			south = v.Pos.Lat
		}
		if v.Pos.Lat > north {
			north = v.Pos.Lat
		}
		if v.Pos.Lng < west {
			west = v.Pos.Lng
		}
		if v.Pos.Lng > east {
			east = v.Pos.Lng
		}
	}
	return BoundingBox{
		SouthWest: Position{Lat: south, Lng: west},
		NorthEast: Position{Lat: north, Lng: east},
	}
}

// Contains reports whether pos lies inside the polygon, using even-odd ray
// casting with a horizontal ray. Points on the boundary may land on either
// side; callers needing inclusive boundaries should test with a tolerance.
func (p Polygon) Contains(pos Position) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a := p.Vertices[i].Pos
		b := p.Vertices[j].Pos
		if (a.Lat > pos.Lat) != (b.Lat > pos.Lat) {
			x := a.Lng + (pos.Lat-a.Lat)/(b.Lat-a.Lat)*(b.Lng-a.Lng)
			if pos.Lng < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// TotalArea sums the areas of a polygon set, skipping degenerate members.
func TotalArea(polys []Polygon) float64 {
	total := 0.0
	for _, p := range polys {
		if !p.IsDegenerate() {
			total += p.Area()
		}
	}
	return total
}

// AnyContains reports whether pos is inside any polygon of the set.
func AnyContains(polys []Polygon, pos Position) bool {
	for _, p := range polys {
		if p.Contains(pos) {
			return true
		}
	}
	return false
}

// BoundsOf returns the bounding box enclosing every polygon in the set.
func BoundsOf(polys []Polygon) BoundingBox {
	var out BoundingBox
	for _, p := range polys {
		b := p.Bounds()
		if b.IsZero() {
			continue
		}
		if out.IsZero() {
			out = b
			continue
		}
		if b.SouthWest.Lat < out.SouthWest.Lat {
			out.SouthWest.Lat = b.SouthWest.Lat
		}
		if b.SouthWest.Lng < out.SouthWest.Lng {
			out.SouthWest.Lng = b.SouthWest.Lng
		}
		if b.NorthEast.Lat > out.NorthEast.Lat {
			out.NorthEast.Lat = b.NorthEast.Lat
		}
		if b.NorthEast.Lng > out.NorthEast.Lng {
			out.NorthEast.Lng = b.NorthEast.Lng
		}
	}
	return out
}
