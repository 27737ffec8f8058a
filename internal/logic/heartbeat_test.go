package logic

import (
	"testing"
	"time"
)

func TestCheckHeartbeatDisabledWithZeroInterval(t *testing.T) {
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(startTime)

	if hb := h.Check(startTime.Add(15*time.Minute), 0, NewMonitor()); hb != nil {
		t.Error("should not return heartbeat when interval is 0 (disabled)")
	}
	if hb := h.Check(startTime.Add(15*time.Minute), -1*time.Minute, NewMonitor()); hb != nil {
		t.Error("should not return heartbeat when interval is negative")
	}
}

func TestCheckHeartbeatBeforeInterval(t *testing.T) {
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(startTime)

	if hb := h.Check(startTime.Add(14*time.Minute), 15*time.Minute, NewMonitor()); hb != nil {
		t.Error("should not return heartbeat before interval")
	}
}

func TestCheckHeartbeatAtInterval(t *testing.T) {
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(startTime)
	m := NewMonitor()
	m.Step(true)
	m.Step(true)

	checkTime := startTime.Add(15 * time.Minute)
	hb := h.Check(checkTime, 15*time.Minute, m)
	if hb == nil {
		t.Fatal("should return heartbeat at interval")
	}

	if !hb.Timestamp.Equal(checkTime) {
		t.Errorf("expected timestamp %v, got %v", checkTime, hb.Timestamp)
	}
	if hb.Uptime != 15*time.Minute {
		t.Errorf("expected uptime 15m, got %v", hb.Uptime)
	}
	if hb.State != StateNear {
		t.Errorf("expected state Near, got %s", hb.State)
	}
	if hb.Ticks != 2 {
		t.Errorf("expected ticks 2, got %d", hb.Ticks)
	}
	if hb.Counts.Near != 1 {
		t.Errorf("expected Near count 1, got %d", hb.Counts.Near)
	}
}

func TestCheckHeartbeatUpdatesLastTime(t *testing.T) {
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(startTime)
	m := NewMonitor()

	t1 := startTime.Add(15 * time.Minute)
	if hb := h.Check(t1, 15*time.Minute, m); hb == nil {
		t.Fatal("should return first heartbeat")
	}

	if hb := h.Check(t1.Add(time.Second), 15*time.Minute, m); hb != nil {
		t.Error("should not return heartbeat immediately after previous")
	}

	t2 := t1.Add(15 * time.Minute)
	hb := h.Check(t2, 15*time.Minute, m)
	if hb == nil {
		t.Fatal("should return second heartbeat")
	}
	if hb.Uptime != 30*time.Minute {
		t.Errorf("expected uptime 30m, got %v", hb.Uptime)
	}
}
