package telemetry

import "log/slog"

// Collector accumulates poll records and emits a summary every windowSize
// polls.
type Collector struct {
	windowSize int
	window     []PollStats
	onSummary  func(WindowSummary)
}

// NewCollector creates a collector that calls onSummary after every
// windowSize polls. onSummary may be nil.
func NewCollector(windowSize int, onSummary func(WindowSummary)) *Collector {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Collector{windowSize: windowSize, onSummary: onSummary}
}

// Record adds one poll record, closing the window when it is full.
func (c *Collector) Record(p PollStats) {
	c.window = append(c.window, p)
	if len(c.window) < c.windowSize {
		return
	}
	summary := Summarize(c.window)
	c.window = c.window[:0]
	slog.Debug("wave poll window",
		"polls", summary.Polls,
		"progression", summary.FinalProgression,
		"recomposes", summary.Recomposes,
		"poll_mean_sec", summary.PollMeanSec,
	)
	if c.onSummary != nil {
		c.onSummary(summary)
	}
}

// Flush summarizes and clears a partially filled window.
func (c *Collector) Flush() {
	if len(c.window) == 0 {
		return
	}
	summary := Summarize(c.window)
	c.window = c.window[:0]
	if c.onSummary != nil {
		c.onSummary(summary)
	}
}

// Pending returns the number of polls in the open window.
func (c *Collector) Pending() int { return len(c.window) }
