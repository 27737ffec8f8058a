package display

import "log"

// Resilient keeps display faults away from the control loop. A failed render
// is logged and remembered; Retry re-issues it on a later tick. RenderLine
// never returns an error.
type Resilient struct {
	inner    Sink
	pending  [Lines]*string
	failing  bool
	failures int
}

// NewResilient wraps inner.
func NewResilient(inner Sink) *Resilient {
	return &Resilient{inner: inner}
}

// RenderLine forwards to the inner sink. On failure the text becomes pending
// for its line, replacing any older pending text.
func (r *Resilient) RenderLine(line int, text string) error {
	if err := checkLine(line); err != nil {
		log.Printf("display: dropping render %q: %v", text, err)
		return nil
	}

	if err := r.inner.RenderLine(line, text); err != nil {
		r.failures++
		if !r.failing {
			log.Printf("display render error (will retry): %v", err)
			r.failing = true
		}
		t := text
		r.pending[line] = &t
		return nil
	}

	r.pending[line] = nil
	if r.failing && r.Pending() == 0 {
		log.Printf("display recovered after %d failed renders", r.failures)
		r.failing = false
	}
	return nil
}

// Retry re-issues pending renders in line order.
func (r *Resilient) Retry() {
	for line, text := range r.pending {
		if text != nil {
			r.RenderLine(line, *text)
		}
	}
}

// Pending returns the number of lines with an undelivered render.
func (r *Resilient) Pending() int {
	n := 0
	for _, text := range r.pending {
		if text != nil {
			n++
		}
	}
	return n
}

// Failures returns the total number of failed renders.
func (r *Resilient) Failures() int {
	return r.failures
}
