package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	State          string     `json:"state"`
	ElapsedTicks   uint32     `json:"elapsed_ticks"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	BootID         string     `json:"boot_id,omitempty"`
	MQTT           MQTTStatus `json:"mqtt"`
	Counts         CountsJSON `json:"state_counts"`
	Faults         FaultsJSON `json:"faults"`
	Config         ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of state entry counts.
type CountsJSON struct {
	Near    int `json:"near"`
	Warning int `json:"warning"`
	Far     int `json:"far"`
}

// FaultsJSON is the JSON representation of collaborator faults.
type FaultsJSON struct {
	Sensor  int `json:"sensor"`
	Display int `json:"display"`
	LED     int `json:"led"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs         int64  `json:"tick_ms"`
	ThresholdTicks uint32 `json:"threshold_ticks"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Chip           string `json:"chip"`
	Pin            int    `json:"pin"`
	LEDPin         int    `json:"led_pin"`
	Display        string `json:"display"`
	Broker         string `json:"broker,omitempty"`
	HTTPAddr       string `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		State:          state,
		ElapsedTicks:   snap.Ticks,
		ElapsedSeconds: snap.Elapsed().Seconds(),
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		BootID:         snap.BootID,
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Near:    snap.Counts.Near,
			Warning: snap.Counts.Warning,
			Far:     snap.Counts.Far,
		},
		Faults: FaultsJSON{
			Sensor:  snap.Faults.Sensor,
			Display: snap.Faults.Display,
			LED:     snap.Faults.LED,
		},
		Config: ConfigJSON{
			TickMs:         snap.Config.TickMs,
			ThresholdTicks: snap.Config.ThresholdTicks,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			Chip:           snap.Config.Chip,
			Pin:            snap.Config.Pin,
			LEDPin:         snap.Config.LEDPin,
			Display:        snap.Config.Display,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
