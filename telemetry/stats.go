// Package telemetry records wave poll results and aggregates them into
// windowed summaries for logging and CSV output.
package telemetry

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// PollStats is the record of one calculator poll.
type PollStats struct {
	Time            string        `csv:"time"` // RFC 3339
	Progression     float64       `csv:"progression"`
	FrontLng        float64       `csv:"front_lng"`
	TraversedCount  int           `csv:"traversed"`
	RemainingCount  int           `csv:"remaining"`
	TraversedFrac   float64       `csv:"traversed_frac"`
	Mode            string        `csv:"mode"`
	PollDuration    time.Duration `csv:"-"`
	PollDurationSec float64       `csv:"poll_sec"`
}

// WindowSummary aggregates a window of polls.
type WindowSummary struct {
	Polls            int     `csv:"polls"`
	FinalProgression float64 `csv:"progression"`
	Recomposes       int     `csv:"recomposes"`
	PollMeanSec      float64 `csv:"poll_mean_sec"`
	PollP50Sec       float64 `csv:"poll_p50_sec"`
	PollP90Sec       float64 `csv:"poll_p90_sec"`
}

// Summarize aggregates the polls of one window. Returns the zero summary
// for an empty window.
func Summarize(polls []PollStats) WindowSummary {
	n := len(polls)
	if n == 0 {
		return WindowSummary{}
	}

	durations := make([]float64, n)
	recomposes := 0
	for i, p := range polls {
		durations[i] = p.PollDurationSec
		if p.Mode == "recompose" {
			recomposes++
		}
	}
	sort.Float64s(durations)

	return WindowSummary{
		Polls:            n,
		FinalProgression: polls[n-1].Progression,
		Recomposes:       recomposes,
		PollMeanSec:      stat.Mean(durations, nil),
		PollP50Sec:       stat.Quantile(0.5, stat.Empirical, durations, nil),
		PollP90Sec:       stat.Quantile(0.9, stat.Empirical, durations, nil),
	}
}
