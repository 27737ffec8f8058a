// Package logic contains the pure proximity state machine.
// This package has NO external dependencies (no GPIO, display, MQTT, OS, or time.Sleep).
// Time only enters as tick counts; wall-clock stamps are injected by the caller.
package logic

import (
	"strings"
	"time"
)

// State represents the reported proximity of an object.
type State string

const (
	StateFar     State = "Far"
	StateNear    State = "Near"
	StateWarning State = "Warning"
)

const (
	// TickDuration is the fixed length of one control loop tick.
	TickDuration = 100 * time.Millisecond

	// EscalationThresholdTicks is the number of consecutive near ticks after
	// which Near escalates to Warning (4000 x 100ms, about 400s).
	EscalationThresholdTicks uint32 = 4000

	// StatusWidth is the width every status text is padded to. It matches one
	// line of a 16x2 character display.
	StatusWidth = 16
)

// Result is the outcome of a single Step.
type Result struct {
	State State
	From  State
	Ticks uint32
	// Render is the padded text to draw on the status line, or "" when the
	// display does not need updating.
	Render string
}

// Changed reports whether the step moved the monitor to a different state.
func (r Result) Changed() bool {
	return r.State != r.From
}

// Counts tracks how often each state has been entered since startup.
type Counts struct {
	Near    int
	Warning int
	Far     int
}

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	State     State
	Previous  State
	Ticks     uint32
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     State
	Ticks     uint32
	Counts    Counts
}

// Pad right-pads s with spaces to StatusWidth, truncating longer input, so a
// shorter status fully overwrites a longer one on the display.
func Pad(s string) string {
	if len(s) >= StatusWidth {
		return s[:StatusWidth]
	}
	return s + strings.Repeat(" ", StatusWidth-len(s))
}
