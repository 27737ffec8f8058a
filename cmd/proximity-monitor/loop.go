package main

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/proximity-monitor/internal/display"
	"github.com/sweeney/proximity-monitor/internal/gpio"
	"github.com/sweeney/proximity-monitor/internal/logic"
	"github.com/sweeney/proximity-monitor/internal/mqtt"
	"github.com/sweeney/proximity-monitor/internal/status"
	"github.com/sweeney/proximity-monitor/internal/tick"
)

// headerText is shown on the first display line for the life of the process.
const headerText = "Status"

// loop holds the collaborators driven by runLoop.
type loop struct {
	sensor     *gpio.Sensor
	display    *display.Resilient
	led        *gpio.Lamp
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  time.Duration
	now        func() time.Time
	ticks      tick.Source
	sig        <-chan os.Signal
}

// runLoop paints the startup screen, then on every tick reads the sensor,
// steps the monitor, renders the status line if it changed and drives the
// detection LED. It returns
// only when a signal arrives.
func runLoop(l loop) error {
	monitor := logic.NewMonitor()
	heartbeat := logic.NewHeartbeat(l.now())

	l.display.RenderLine(display.LineHeader, headerText)
	l.display.RenderLine(display.LineStatus, monitor.Text())
	l.led.Set(false)
	l.updateTracker(monitor)

	for {
		select {
		case s := <-l.sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			l.updateTracker(monitor)
			snap := l.tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  l.now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := l.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			return nil

		case <-l.ticks.C():
			t := l.now()
			present := l.sensor.Read()
			res := monitor.Step(present)

			if res.Render != "" {
				l.display.RenderLine(display.LineStatus, res.Render)
			} else {
				l.display.Retry()
			}

			// Lit while anything is detected, including WARNING.
			l.led.Set(res.State != logic.StateFar)

			if res.Changed() {
				log.Printf("state: %s -> %s (ticks=%d)", res.From, res.State, res.Ticks)
				event := logic.Event{
					Timestamp: t,
					State:     res.State,
					Previous:  res.From,
					Ticks:     res.Ticks,
				}
				if err := l.publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			l.updateTracker(monitor)

			if hbData := heartbeat.Check(t, l.heartbeat, monitor); hbData != nil {
				log.Printf("heartbeat: uptime=%v state=%s ticks=%d near=%d warning=%d far=%d",
					hbData.Uptime, hbData.State, hbData.Ticks, hbData.Counts.Near, hbData.Counts.Warning, hbData.Counts.Far)

				snap := l.tracker.Snapshot()
				hbEvent := mqtt.SystemEvent{
					Timestamp:  hbData.Timestamp,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := l.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// updateTracker copies monitor and collaborator state for HTTP/MQTT consumers.
func (l loop) updateTracker(m *logic.Monitor) {
	l.tracker.Update(m.State(), m.Ticks(), m.Counts())
	l.tracker.SetFaults(status.Faults{
		Sensor:  l.sensor.Faults(),
		Display: l.display.Failures(),
		LED:     l.led.Faults(),
	})
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}
