package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/proximity-monitor/internal/display"
	"github.com/sweeney/proximity-monitor/internal/gpio"
	"github.com/sweeney/proximity-monitor/internal/logic"
	"github.com/sweeney/proximity-monitor/internal/mqtt"
	"github.com/sweeney/proximity-monitor/internal/status"
	"github.com/sweeney/proximity-monitor/internal/web"
)

// rig wires the real packages together around fakes, the way main does.
type rig struct {
	reader    *gpio.FakeReader
	sensor    *gpio.Sensor
	sink      *display.FakeSink
	display   *display.Resilient
	publisher *mqtt.FakePublisher
	monitor   *logic.Monitor
	tracker   *status.Tracker
	start     time.Time
	tick      int
}

func newRig(samples []bool) *rig {
	reader := gpio.NewFakeReader(samples)
	sink := display.NewFakeSink()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	r := &rig{
		reader:    reader,
		sensor:    gpio.NewSensor(reader),
		sink:      sink,
		display:   display.NewResilient(sink),
		publisher: mqtt.NewFakePublisher(),
		monitor:   logic.NewMonitor(),
		tracker:   status.NewTracker(start, "integration", status.Config{ThresholdTicks: logic.EscalationThresholdTicks}),
		start:     start,
	}
	r.display.RenderLine(display.LineHeader, "Status")
	r.display.RenderLine(display.LineStatus, r.monitor.Text())
	return r
}

// step simulates one iteration of the main loop.
func (r *rig) step(t *testing.T) logic.Result {
	t.Helper()
	r.tick++
	now := r.start.Add(time.Duration(r.tick) * logic.TickDuration)

	res := r.monitor.Step(r.sensor.Read())
	if res.Render != "" {
		r.display.RenderLine(display.LineStatus, res.Render)
	} else {
		r.display.Retry()
	}

	if res.Changed() {
		event := logic.Event{Timestamp: now, State: res.State, Previous: res.From, Ticks: res.Ticks}
		if err := r.publisher.Publish(event); err != nil {
			t.Logf("tick %d: publish error: %v", r.tick, err)
		}
	}

	r.tracker.Update(r.monitor.State(), r.monitor.Ticks(), r.monitor.Counts())
	r.tracker.SetFaults(status.Faults{Sensor: r.sensor.Faults(), Display: r.display.Failures()})
	return res
}

func (r *rig) run(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		r.step(t)
	}
}

func statusLine(r *rig) string {
	return r.sink.Screen[display.LineStatus]
}

// TestIntegrationFullFlow tests the complete flow from GPIO to display and MQTT using fakes.
func TestIntegrationFullFlow(t *testing.T) {
	// Absent -> approaches -> stays past the threshold -> leaves
	var samples []bool
	samples = append(samples, false, false)
	for i := 0; i < int(logic.EscalationThresholdTicks)+5; i++ {
		samples = append(samples, true)
	}
	samples = append(samples, false)

	r := newRig(samples)
	r.run(t, len(samples))

	if len(r.publisher.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(r.publisher.Events))
	}

	wantStates := []logic.State{logic.StateNear, logic.StateWarning, logic.StateFar}
	for i, want := range wantStates {
		if r.publisher.Events[i].State != want {
			t.Errorf("event %d: expected %s, got %s", i, want, r.publisher.Events[i].State)
		}
	}

	// Event 2: Warning after exactly the threshold.
	if r.publisher.Events[1].Ticks != logic.EscalationThresholdTicks {
		t.Errorf("expected Warning at %d ticks, got %d", logic.EscalationThresholdTicks, r.publisher.Events[1].Ticks)
	}
	wantAt := r.start.Add(time.Duration(2+logic.EscalationThresholdTicks) * logic.TickDuration)
	if !r.publisher.Events[1].Timestamp.Equal(wantAt) {
		t.Errorf("expected Warning at %v, got %v", wantAt, r.publisher.Events[1].Timestamp)
	}

	// Startup (2) + Near + Warning + Far
	if len(r.sink.Renders) != 5 {
		t.Errorf("expected 5 renders, got %d", len(r.sink.Renders))
	}
	if statusLine(r) != logic.Pad("Far") {
		t.Errorf("expected Far on display, got %q", statusLine(r))
	}
	if r.sink.Screen[display.LineHeader] != display.Fit("Status") {
		t.Errorf("expected header untouched, got %q", r.sink.Screen[display.LineHeader])
	}
}

// TestIntegrationInterruptedDwell runs the absent/near/absent/present sequence
// where the object leaves one tick before escalation.
func TestIntegrationInterruptedDwell(t *testing.T) {
	samples := []bool{false}
	for i := 0; i < 3999; i++ {
		samples = append(samples, true)
	}
	samples = append(samples, false, true)

	r := newRig(samples)
	var states []logic.State
	for range samples {
		states = append(states, r.step(t).State)
	}

	if states[0] != logic.StateFar {
		t.Errorf("tick 1: expected Far, got %s", states[0])
	}
	for i := 1; i < 4000; i++ {
		if states[i] != logic.StateNear {
			t.Fatalf("tick %d: expected Near, got %s", i+1, states[i])
		}
	}
	if states[4000] != logic.StateFar {
		t.Errorf("tick 4001: expected Far, got %s", states[4000])
	}
	if states[4001] != logic.StateNear {
		t.Errorf("tick 4002: expected Near, got %s", states[4001])
	}

	for _, e := range r.publisher.Events {
		if e.State == logic.StateWarning {
			t.Fatalf("unexpected Warning event: %+v", e)
		}
	}
	if r.monitor.Ticks() != 1 {
		t.Errorf("expected dwell restarted at 1, got %d", r.monitor.Ticks())
	}
}

func TestIntegrationDisplayFailureRecovery(t *testing.T) {
	r := newRig([]bool{false, true, true, true})
	r.sink.RenderError = errors.New("serial port gone")

	r.step(t) // Far, nothing new to draw
	r.step(t) // Near render fails

	if statusLine(r) != logic.Pad("Far") {
		t.Fatalf("expected stale Far while failing, got %q", statusLine(r))
	}
	if r.display.Pending() != 1 {
		t.Errorf("expected 1 pending line, got %d", r.display.Pending())
	}
	if len(r.publisher.Events) != 1 {
		t.Errorf("expected Near event despite display failure, got %d events", len(r.publisher.Events))
	}

	r.sink.RenderError = nil
	r.step(t)

	if statusLine(r) != logic.Pad("Near") {
		t.Errorf("expected Near after recovery, got %q", statusLine(r))
	}
	if r.sink.Screen[display.LineHeader] != display.Fit("Status") {
		t.Errorf("expected header after recovery, got %q", r.sink.Screen[display.LineHeader])
	}
	if r.display.Pending() != 0 {
		t.Errorf("expected nothing pending, got %d", r.display.Pending())
	}

	snap := r.tracker.Snapshot()
	if snap.Faults.Display == 0 {
		t.Error("expected display faults recorded in status")
	}
}

func TestIntegrationSensorFailureHoldsState(t *testing.T) {
	r := newRig([]bool{true})
	r.run(t, 3)

	r.reader.ReadError = errors.New("gpio line released")
	r.run(t, 3)

	if r.monitor.State() != logic.StateNear {
		t.Errorf("expected Near held through sensor failure, got %s", r.monitor.State())
	}
	if r.monitor.Ticks() != 6 {
		t.Errorf("expected 6 ticks, got %d", r.monitor.Ticks())
	}
	if r.tracker.Snapshot().Faults.Sensor != 3 {
		t.Errorf("expected 3 sensor faults, got %d", r.tracker.Snapshot().Faults.Sensor)
	}
}

func TestIntegrationPublishFailureDoesNotCrash(t *testing.T) {
	r := newRig([]bool{false, true, true, false})
	r.publisher.PublishError = errors.New("broker unavailable")

	r.run(t, 4)

	if r.monitor.State() != logic.StateFar {
		t.Errorf("expected Far, got %s", r.monitor.State())
	}
	if len(r.sink.Renders) != 4 {
		t.Errorf("expected display to keep updating (4 renders), got %d", len(r.sink.Renders))
	}
}

func TestIntegrationPayloadFormat(t *testing.T) {
	r := newRig([]bool{true})
	r.step(t)

	if len(r.publisher.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(r.publisher.Payloads))
	}

	var parsed mqtt.Payload
	if err := json.Unmarshal(r.publisher.Payloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON payload: %v", err)
	}
	if parsed.Proximity.Event != "NEAR" {
		t.Errorf("expected event NEAR, got %s", parsed.Proximity.Event)
	}
	if parsed.Proximity.Previous != "Far" {
		t.Errorf("expected previous Far, got %s", parsed.Proximity.Previous)
	}
	if parsed.Proximity.Timestamp != "2026-01-01T12:00:00Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Proximity.Timestamp)
	}
}

func TestIntegrationStartupThenShutdown(t *testing.T) {
	r := newRig([]bool{true})

	snap := r.tracker.Snapshot()
	if err := r.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}); err != nil {
		t.Fatalf("startup publish: %v", err)
	}

	r.run(t, 5)

	snap = r.tracker.Snapshot()
	if err := r.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SHUTDOWN",
		Reason:     "SIGTERM",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"),
	}); err != nil {
		t.Fatalf("shutdown publish: %v", err)
	}

	if len(r.publisher.SystemPayloads) != 2 {
		t.Fatalf("expected 2 system payloads, got %d", len(r.publisher.SystemPayloads))
	}

	var startup, shutdown status.StatusJSON
	if err := json.Unmarshal(r.publisher.SystemPayloads[0], &startup); err != nil {
		t.Fatalf("invalid startup JSON: %v", err)
	}
	if err := json.Unmarshal(r.publisher.SystemPayloads[1], &shutdown); err != nil {
		t.Fatalf("invalid shutdown JSON: %v", err)
	}

	if startup.Status.Event != "STARTUP" || startup.Status.State != "Far" {
		t.Errorf("unexpected startup status: %+v", startup.Status)
	}
	if shutdown.Status.Event != "SHUTDOWN" || shutdown.Status.Reason != "SIGTERM" {
		t.Errorf("unexpected shutdown status: %+v", shutdown.Status)
	}
	if shutdown.Status.State != "Near" || shutdown.Status.ElapsedTicks != 5 {
		t.Errorf("expected shutdown Near/5, got %s/%d", shutdown.Status.State, shutdown.Status.ElapsedTicks)
	}
	if shutdown.Status.Counts.Near != 1 {
		t.Errorf("expected 1 Near entry, got %d", shutdown.Status.Counts.Near)
	}
}

func TestIntegrationWebReflectsLoop(t *testing.T) {
	r := newRig([]bool{true})
	r.run(t, int(logic.EscalationThresholdTicks))

	srv := web.New("", r.tracker)

	req := httptest.NewRequest(http.MethodGet, "/index.json", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got status.StatusJSON
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Status.State != "Warning" {
		t.Errorf("expected Warning, got %s", got.Status.State)
	}
	if got.Status.ElapsedSeconds != 400 {
		t.Errorf("expected 400s elapsed, got %v", got.Status.ElapsedSeconds)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "Warning") {
		t.Error("expected HTML page to show Warning")
	}
}
