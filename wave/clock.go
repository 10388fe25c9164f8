package wave

import (
	"sync"
	"time"
)

// Clock abstracts the time source so the calculator never reads wall-clock
// time directly. Tests and playback-speed controls substitute their own.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// SimClock is a manually-advanced clock for tests and offline simulation.
type SimClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewSimClock returns a simulated clock frozen at start.
func NewSimClock(start time.Time) *SimClock {
	return &SimClock{current: start}
}

// Now implements Clock.
func (c *SimClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

// Set jumps the clock to t. Moving backward forces the calculator to
// recompose its next snapshot.
func (c *SimClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// ScaledClock runs at a multiple of wall time, anchored at construction.
// A factor of 60 plays one minute of wave per wall second.
type ScaledClock struct {
	origin    time.Time
	wallStart time.Time
	factor    float64
}

// NewScaledClock returns a clock that starts at origin and advances
// factor times faster than wall time. Factors <= 0 are treated as 1.
func NewScaledClock(origin time.Time, factor float64) *ScaledClock {
	if factor <= 0 {
		factor = 1
	}
	return &ScaledClock{origin: origin, wallStart: time.Now(), factor: factor}
}

// Now implements Clock.
func (c *ScaledClock) Now() time.Time {
	elapsed := time.Since(c.wallStart)
	return c.origin.Add(time.Duration(float64(elapsed) * c.factor))
}

// Factor returns the acceleration factor.
func (c *ScaledClock) Factor() float64 { return c.factor }
