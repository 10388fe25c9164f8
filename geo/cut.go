package geo

import (
	"sort"
	"sync/atomic"
)

// CutID identifies a cut line. Vertices produced by a cut carry its ID so
// that re-splitting with the same cut reuses the earlier intersections
// exactly instead of re-interpolating them. Zero means "plain vertex".
type CutID uint64

var cutIDCounter atomic.Uint64

func nextCutID() CutID {
	return CutID(cutIDCounter.Add(1))
}

// Cut is a north-south dividing line used to split polygons. It is either
// straight (a meridian) or composed from a piecewise sequence of positions
// approximating a curve.
type Cut interface {
	// ID returns the cut's identity.
	ID() CutID
	// LongitudeAt returns the cut's longitude at the given latitude.
	LongitudeAt(lat float64) float64
}

// MeridianCut is a straight cut at a fixed longitude.
type MeridianCut struct {
	id  CutID
	lng float64
}

// NewMeridianCut returns a straight cut at the given longitude.
func NewMeridianCut(lng float64) *MeridianCut {
	return &MeridianCut{id: nextCutID(), lng: lng}
}

// ID implements Cut.
func (c *MeridianCut) ID() CutID { return c.id }

// LongitudeAt implements Cut. The longitude is constant in latitude.
func (c *MeridianCut) LongitudeAt(lat float64) float64 { return c.lng }

// Longitude returns the cut's fixed longitude.
func (c *MeridianCut) Longitude() float64 { return c.lng }

// ComposedCut is a piecewise-linear cut built from an ordered sequence of
// positions. The longitude is interpolated between samples by latitude and
// clamped to the end samples outside the sampled range.
type ComposedCut struct {
	id      CutID
	samples []Position // sorted by Lat ascending
}

// NewComposedCut returns a composed cut through the given positions.
// Samples are sorted by latitude; at least one sample is required for the
// cut to be usable.
func NewComposedCut(samples []Position) *ComposedCut {
	sorted := make([]Position, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lat < sorted[j].Lat })
	return &ComposedCut{id: nextCutID(), samples: sorted}
}

// ID implements Cut.
func (c *ComposedCut) ID() CutID { return c.id }

// LongitudeAt implements Cut.
func (c *ComposedCut) LongitudeAt(lat float64) float64 {
	n := len(c.samples)
	if n == 0 {
		return 0
	}
	if lat <= c.samples[0].Lat {
		return c.samples[0].Lng
	}
	if lat >= c.samples[n-1].Lat {
		return c.samples[n-1].Lng
	}
	// Binary search for the bracketing pair.
	i := sort.Search(n, func(i int) bool { return c.samples[i].Lat >= lat })
	lo, hi := c.samples[i-1], c.samples[i]
	if hi.Lat == lo.Lat {
		return lo.Lng
	}
	t := (lat - lo.Lat) / (hi.Lat - lo.Lat)
	return Lerp(lo.Lng, hi.Lng, t)
}

// Samples returns the cut's samples sorted by latitude.
func (c *ComposedCut) Samples() []Position { return c.samples }
