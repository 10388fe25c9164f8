package wave

import (
	"time"

	"github.com/tidelab/swell/geo"
)

// SplitMode says how a snapshot was produced.
type SplitMode int

const (
	// ModeRecompose re-splits the full area against the current front.
	ModeRecompose SplitMode = iota
	// ModeAdd re-splits only the previous snapshot's remaining polygons and
	// merges the newly traversed pieces into the accumulated set, keeping the
	// work proportional to the newly crossed area.
	ModeAdd
)

func (m SplitMode) String() string {
	if m == ModeAdd {
		return "add"
	}
	return "recompose"
}

// Snapshot is one immutable result of a polygon query: the area divided
// into already-traversed and not-yet-traversed polygon sets at time At.
type Snapshot struct {
	At        time.Time
	Traversed []geo.Polygon
	Remaining []geo.Polygon
	Mode      SplitMode
}

// TraversedFraction returns the traversed share of the total area, in
// [0, 1]. Returns 0 for an empty snapshot.
func (s *Snapshot) TraversedFraction() float64 {
	t := geo.TotalArea(s.Traversed)
	r := geo.TotalArea(s.Remaining)
	if t+r == 0 {
		return 0
	}
	return t / (t + r)
}

// DecideMode chooses between incremental and full re-splitting. It is a
// pure function of the previous snapshot and the query time: a missing
// previous snapshot, a clock that moved backward, or a previous snapshot
// older than maxAge all force a recompose. The age threshold is a tunable,
// not a correctness boundary; the area round-trip holds either way.
func DecideMode(prev *Snapshot, now time.Time, maxAge time.Duration) SplitMode {
	if prev == nil || now.Before(prev.At) || now.Sub(prev.At) > maxAge {
		return ModeRecompose
	}
	return ModeAdd
}
