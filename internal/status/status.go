// Package status provides a thread-safe status tracker for the proximity monitor.
// It is written by the control loop and read by HTTP handlers and MQTT events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/proximity-monitor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs         int64
	ThresholdTicks uint32
	HeartbeatMs    int64
	Chip           string
	Pin            int
	LEDPin         int // negative when no LED is fitted
	Display        string
	Broker         string
	HTTPAddr       string
}

// Faults counts collaborator failures absorbed outside the state machine.
type Faults struct {
	Sensor  int
	Display int
	LED     int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	Ticks         uint32
	Counts        logic.Counts
	Faults        Faults
	BootID        string
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Elapsed returns how long the object has been continuously near.
func (s Snapshot) Elapsed() time.Duration {
	return time.Duration(s.Ticks) * logic.TickDuration
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time, boot ID and config.
// The state starts as Far, matching a new monitor.
func NewTracker(startTime time.Time, bootID string, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     logic.StateFar,
			BootID:    bootID,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the proximity state, dwell ticks and entry counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(state logic.State, ticks uint32, counts logic.Counts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Ticks = ticks
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetFaults sets the collaborator fault counters.
func (t *Tracker) SetFaults(f Faults) {
	t.mu.Lock()
	t.snap.Faults = f
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
