package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/proximity-monitor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"duration": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		switch {
		case days > 0:
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		case h > 0:
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		case m > 0:
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateClass": func(s string) string {
		switch s {
		case "Far":
			return "far"
		case "Near":
			return "near"
		case "Warning":
			return "warning"
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Proximity Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.far { color: green; font-weight: bold; }
.near { color: orange; font-weight: bold; }
.warning { color: red; font-weight: bold; }
.unknown { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Proximity Monitor</h1>

<h2>State</h2>
<table>
<tr><th>Status</th><td id="state" class="{{stateClass .StateText}}">{{.StateText}}</td></tr>
<tr><th>Near for</th><td>{{duration .Elapsed}} ({{.Ticks}} ticks)</td></tr>
<tr><th>Warning after</th><td>{{duration .Threshold}} ({{.Config.ThresholdTicks}} ticks)</td></tr>
</table>

<h2>State Entries</h2>
<table>
<tr><th>Near</th><td>{{.Counts.Near}}</td></tr>
<tr><th>Warning</th><td>{{.Counts.Warning}}</td></tr>
<tr><th>Far</th><td>{{.Counts.Far}}</td></tr>
</table>

<h2>Faults</h2>
<table>
<tr><th>Sensor reads</th><td>{{.Faults.Sensor}}</td></tr>
<tr><th>Display renders</th><td>{{.Faults.Display}}</td></tr>
<tr><th>LED writes</th><td>{{.Faults.LED}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{duration .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{if .BootID}}<tr><th>Boot ID</th><td>{{.BootID}}</td></tr>{{end}}
<tr><th>Sensor</th><td>{{.Config.Chip}} line {{.Config.Pin}}</td></tr>
<tr><th>LED</th><td>{{if lt .Config.LEDPin 0}}disabled{{else}}{{.Config.Chip}} line {{.Config.LEDPin}}{{end}}</td></tr>
<tr><th>Display</th><td>{{.Config.Display}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>MQTT</th><td>{{if .Config.Broker}}<span class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</span> {{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has methods, but the template wants plain fields.
	data := struct {
		status.Snapshot
		StateText string
		Uptime    time.Duration
		Elapsed   time.Duration
		Threshold time.Duration
	}{
		Snapshot:  snap,
		StateText: string(snap.State),
		Uptime:    snap.Uptime(),
		Elapsed:   snap.Elapsed(),
		Threshold: time.Duration(snap.Config.ThresholdTicks) * time.Duration(snap.Config.TickMs) * time.Millisecond,
	}
	if data.StateText == "" {
		data.StateText = "UNKNOWN"
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("render status page: %v", err)
	}
}
