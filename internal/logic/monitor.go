package logic

import (
	"math"
	"time"
)

// Monitor tracks how long an object has been near and escalates the status.
// It is not safe for concurrent use; the control loop owns it exclusively.
type Monitor struct {
	threshold uint32
	state     State
	ticks     uint32
	counts    Counts
}

// NewMonitor creates a monitor in the Far state using EscalationThresholdTicks.
func NewMonitor() *Monitor {
	return newMonitor(EscalationThresholdTicks)
}

func newMonitor(threshold uint32) *Monitor {
	return &Monitor{
		threshold: threshold,
		state:     StateFar,
	}
}

// Step advances the monitor by one tick using the current sensor reading.
// present is true when an object is detected.
func (m *Monitor) Step(present bool) Result {
	from := m.state
	res := Result{From: from}

	if !present {
		m.ticks = 0
		m.enter(StateFar, &res)
		res.State = m.state
		return res
	}

	if from == StateFar {
		// Fresh detection restarts the dwell count.
		m.ticks = 0
		m.enter(StateNear, &res)
	}

	if m.ticks < math.MaxUint32 {
		m.ticks++
	}

	if m.ticks >= m.threshold {
		m.enter(StateWarning, &res)
	}

	res.State = m.state
	res.Ticks = m.ticks
	return res
}

// enter moves to s and requests a render if s differs from the current state.
func (m *Monitor) enter(s State, res *Result) {
	if m.state == s {
		return
	}
	m.state = s
	res.Render = Pad(string(s))

	switch s {
	case StateNear:
		m.counts.Near++
	case StateWarning:
		m.counts.Warning++
	case StateFar:
		m.counts.Far++
	}
}

// State returns the current proximity state.
func (m *Monitor) State() State {
	return m.state
}

// Ticks returns the number of consecutive near ticks. It is 0 while Far.
func (m *Monitor) Ticks() uint32 {
	return m.ticks
}

// Elapsed returns the dwell time represented by Ticks.
func (m *Monitor) Elapsed() time.Duration {
	return time.Duration(m.ticks) * TickDuration
}

// Text returns the padded display text for the current state.
func (m *Monitor) Text() string {
	return Pad(string(m.state))
}

// Counts returns a copy of the state entry counters.
func (m *Monitor) Counts() Counts {
	return m.counts
}
