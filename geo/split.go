package geo

import "sort"

// onCutEps is the longitude tolerance, in degrees, under which a vertex is
// considered to lie exactly on a cut.
const onCutEps = 1e-9

// Split divides a polygon along a cut into the sub-polygons lying west and
// east of it. Concave polygons may produce several pieces per side. The
// original winding direction is preserved: both output rings traverse the
// original vertex order, switching sides only at cut vertices.
//
// Vertices exactly on the cut belong to both rings. A polygon entirely on
// one side is returned unchanged on that side with the other side empty.
// Vertices carrying the same cut's ID are reused verbatim, which makes
// re-splitting with the same cut idempotent.
func Split(p Polygon, c Cut) (west, east []Polygon) {
	if p.IsDegenerate() {
		return nil, nil
	}

	sides := make([]int, len(p.Vertices))
	anyWest, anyEast := false, false
	for i, v := range p.Vertices {
		s := sideOf(v, c)
		sides[i] = s
		if s < 0 {
			anyWest = true
		} else if s > 0 {
			anyEast = true
		}
	}
	if !anyEast {
		return []Polygon{p}, nil
	}
	if !anyWest {
		return nil, []Polygon{p}
	}

	aug := augment(p, sides, c)
	runs, ok := findCrossingRuns(aug)
	if !ok {
		// Pathological crossing structure (numeric tangencies). Degrade to a
		// single chain per side rather than returning nothing.
		return []Polygon{chainSide(aug, -1)}, []Polygon{chainSide(aug, +1)}
	}

	west, okW := stitchSide(aug, runs, -1)
	east, okE := stitchSide(aug, runs, +1)
	if !okW || !okE {
		return []Polygon{chainSide(aug, -1)}, []Polygon{chainSide(aug, +1)}
	}
	return west, east
}

// sideOf classifies a vertex against a cut: -1 west, +1 east, 0 on the cut.
// A vertex produced by the same cut is on it by identity, not by geometry.
func sideOf(v Vertex, c Cut) int {
	if v.Cut != 0 && v.Cut == c.ID() {
		return 0
	}
	d := v.Pos.Lng - c.LongitudeAt(v.Pos.Lat)
	if d < -onCutEps {
		return -1
	}
	if d > onCutEps {
		return 1
	}
	return 0
}

type augVertex struct {
	v    Vertex
	side int
}

// augment inserts a synthetic cut vertex on every edge that strictly
// crosses the cut, so that no edge of the result connects opposite sides.
func augment(p Polygon, sides []int, c Cut) []augVertex {
	n := len(p.Vertices)
	aug := make([]augVertex, 0, n+4)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		aug = append(aug, augVertex{v: p.Vertices[i], side: sides[i]})
		if sides[i]*sides[j] < 0 {
			x := intersectEdge(p.Vertices[i], p.Vertices[j], c)
			aug = append(aug, augVertex{v: x, side: 0})
		}
	}
	return aug
}

// intersectEdge returns the cut vertex where edge a-b meets the cut.
func intersectEdge(a, b Vertex, c Cut) Vertex {
	var t float64
	if m, isMeridian := c.(*MeridianCut); isMeridian {
		t = (m.Longitude() - a.Pos.Lng) / (b.Pos.Lng - a.Pos.Lng)
	} else {
		// Composed cut: bisect f(t) = lng(t) - cutLng(lat(t)). The edge
		// strictly crosses, so f changes sign on [0, 1].
		f := func(t float64) float64 {
			lat := Lerp(a.Pos.Lat, b.Pos.Lat, t)
			lng := Lerp(a.Pos.Lng, b.Pos.Lng, t)
			return lng - c.LongitudeAt(lat)
		}
		lo, hi := 0.0, 1.0
		fLo := f(lo)
		for i := 0; i < 50; i++ {
			mid := (lo + hi) / 2
			if fLo*f(mid) <= 0 {
				hi = mid
			} else {
				lo = mid
				fLo = f(lo)
			}
		}
		t = (lo + hi) / 2
	}
	t = Clamp(t, 0, 1)
	lat := Lerp(a.Pos.Lat, b.Pos.Lat, t)
	return Vertex{
		Pos:   Position{Lat: lat, Lng: c.LongitudeAt(lat)},
		Cut:   c.ID(),
		EdgeA: a.Pos,
		EdgeB: b.Pos,
	}
}

// zeroRun is a maximal run of consecutive on-cut vertices in the augmented
// ring. A run is a crossing when the ring changes sides across it.
type zeroRun struct {
	start, end int // ring indices, end inclusive; may wrap past 0
	length     int
	crossing   bool
	partner    int // index into runs of the bridged partner run
	lat        float64
}

// findCrossingRuns locates the zero runs and pairs the crossing ones along
// the cut. Crossings sorted along a north-south line through a simple
// polygon alternate between entering and leaving it, so consecutive sorted
// crossings bound interior bridge segments. Returns ok=false when the
// crossing count is odd.
func findCrossingRuns(aug []augVertex) ([]zeroRun, bool) {
	n := len(aug)
	origin := -1
	for i, av := range aug {
		if av.side != 0 {
			origin = i
			break
		}
	}
	if origin < 0 {
		return nil, false
	}

	var runs []zeroRun
	prevSide := aug[origin].side
	for k := 1; k <= n; k++ {
		i := (origin + k) % n
		if aug[i].side != 0 {
			prevSide = aug[i].side
			continue
		}
		run := zeroRun{start: i, end: i, length: 1, lat: aug[i].v.Pos.Lat, partner: -1}
		for aug[(run.end+1)%n].side == 0 && run.length < n {
			run.end = (run.end + 1) % n
			run.length++
			k++
		}
		nextSide := aug[(run.end+1)%n].side
		run.crossing = nextSide != prevSide
		runs = append(runs, run)
		prevSide = nextSide
	}

	crossing := make([]int, 0, len(runs))
	for i, r := range runs {
		if r.crossing {
			crossing = append(crossing, i)
		}
	}
	if len(crossing)%2 != 0 || len(crossing) == 0 {
		return nil, false
	}
	sort.Slice(crossing, func(a, b int) bool {
		return runs[crossing[a]].lat < runs[crossing[b]].lat
	})
	for k := 0; k < len(crossing); k += 2 {
		a, b := crossing[k], crossing[k+1]
		runs[a].partner = b
		runs[b].partner = a
	}
	return runs, true
}

// stitchSide builds the rings on one side by walking the augmented ring in
// original order and jumping across interior bridges at crossing runs.
func stitchSide(aug []augVertex, runs []zeroRun, side int) ([]Polygon, bool) {
	n := len(aug)
	runAt := make([]int, n)
	for i := range runAt {
		runAt[i] = -1
	}
	for ri, r := range runs {
		for k, i := 0, r.start; k < r.length; k, i = k+1, (i+1)%n {
			runAt[i] = ri
		}
	}

	used := make([]bool, n)
	var out []Polygon
	for start := 0; start < n; start++ {
		if aug[start].side != side || used[start] {
			continue
		}
		var ring []Vertex
		i := start
		closed := false
		for steps := 0; steps <= 2*n; steps++ {
			av := aug[i]
			if av.side == side {
				if used[i] {
					closed = true
					break
				}
				used[i] = true
				ring = append(ring, av.v)
				i = (i + 1) % n
				continue
			}
			if av.side != 0 {
				// Landed on the wrong side: the alternation assumption broke.
				return nil, false
			}
			r := runs[runAt[i]]
			appendRun(&ring, aug, r)
			if r.crossing {
				pr := runs[r.partner]
				appendRun(&ring, aug, pr)
				i = (pr.end + 1) % n
			} else {
				i = (r.end + 1) % n
			}
		}
		if !closed {
			return nil, false
		}
		if len(ring) >= 3 {
			out = append(out, Polygon{Vertices: ring})
		}
	}
	return out, true
}

func appendRun(ring *[]Vertex, aug []augVertex, r zeroRun) {
	n := len(aug)
	for k, i := 0, r.start; k < r.length; k, i = k+1, (i+1)%n {
		*ring = append(*ring, aug[i].v)
	}
}

// chainSide is the degraded fallback: a single ring per side made of that
// side's vertices plus every on-cut vertex, in original order. Correct for
// convex input, approximate for pathological concave tangencies.
func chainSide(aug []augVertex, side int) Polygon {
	var ring []Vertex
	for _, av := range aug {
		if av.side == side || av.side == 0 {
			ring = append(ring, av.v)
		}
	}
	return Polygon{Vertices: ring}
}

// SplitAll splits every polygon of a set, concatenating the sides.
func SplitAll(polys []Polygon, c Cut) (west, east []Polygon) {
	for _, p := range polys {
		w, e := Split(p, c)
		west = append(west, w...)
		east = append(east, e...)
	}
	return west, east
}
