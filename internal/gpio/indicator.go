package gpio

import "log"

// Indicator drives the detection LED.
type Indicator interface {
	// Set lights the LED when on is true. Active-low wiring is handled by
	// the implementation.
	Set(on bool) error

	// Close turns the LED off and releases GPIO resources.
	Close() error
}

// Lamp keeps an Indicator showing the wanted value. The hardware is only
// written when the wanted value changes or the last write failed, and a
// failed write is retried on the next Set instead of reaching the caller.
// A Lamp without an Indicator does nothing.
type Lamp struct {
	ind     Indicator
	want    bool
	synced  bool
	failing bool
	faults  int
}

// NewLamp wraps ind, which may be nil when no LED is fitted.
func NewLamp(ind Indicator) *Lamp {
	return &Lamp{ind: ind}
}

// Set asks for the LED to be lit or dark.
func (l *Lamp) Set(on bool) {
	if l.ind == nil {
		return
	}
	if l.synced && l.want == on {
		return
	}
	l.want = on

	if err := l.ind.Set(on); err != nil {
		l.faults++
		l.synced = false
		if !l.failing {
			log.Printf("led write error (will retry): %v", err)
			l.failing = true
		}
		return
	}

	l.synced = true
	if l.failing {
		log.Printf("led recovered after %d failed writes", l.faults)
		l.failing = false
	}
}

// Faults returns the total number of failed writes.
func (l *Lamp) Faults() int {
	return l.faults
}

// Close releases the underlying Indicator, if any.
func (l *Lamp) Close() error {
	if l.ind == nil {
		return nil
	}
	return l.ind.Close()
}
