// Package tick paces the control loop. The loop only sees a channel that
// delivers one value per elapsed tick; how the tick is produced is up to the
// Source.
package tick

import "time"

// Source delivers one value per fixed-duration tick.
type Source interface {
	// C returns the channel ticks are delivered on.
	C() <-chan time.Time

	// Stop releases the source. No more ticks are delivered afterwards.
	Stop()
}

// Ticker is a Source backed by time.Ticker.
type Ticker struct {
	ticker *time.Ticker
}

// NewTicker returns a Source that ticks every d.
func NewTicker(d time.Duration) *Ticker {
	return &Ticker{ticker: time.NewTicker(d)}
}

// C returns the ticker channel.
func (t *Ticker) C() <-chan time.Time {
	return t.ticker.C
}

// Stop stops the underlying ticker.
func (t *Ticker) Stop() {
	t.ticker.Stop()
}
