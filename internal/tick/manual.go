package tick

import "time"

// Manual is a test Source whose ticks are driven by the test. Each tick is a
// synchronous hand-off, so Advance returns only after the consumer has taken
// every tick.
type Manual struct {
	ch      chan time.Time
	now     time.Time
	step    time.Duration
	stopped bool
}

// NewManual creates a Manual source whose ticks carry start, start+step, ...
func NewManual(start time.Time, step time.Duration) *Manual {
	return &Manual{
		ch:   make(chan time.Time),
		now:  start,
		step: step,
	}
}

// C returns the tick channel.
func (m *Manual) C() <-chan time.Time {
	return m.ch
}

// Advance delivers n ticks, blocking until each one is received.
func (m *Manual) Advance(n int) {
	for i := 0; i < n; i++ {
		m.now = m.now.Add(m.step)
		m.ch <- m.now
	}
}

// Stop marks the source stopped.
func (m *Manual) Stop() {
	m.stopped = true
}
