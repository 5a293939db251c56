package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/footpath-counter/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"direction": func(d string) string {
		switch d {
		case "L":
			return "LEFT (L→R)"
		case "R":
			return "RIGHT (R→L)"
		}
		return "NONE"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Footpath Counter</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.pending { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Footpath Counter</h1>

<h2>Detections</h2>
<table>
<tr><th>Last direction</th><td>{{direction (printf "%s" .LastDirection)}}</td></tr>
{{if not .LastEventAt.IsZero}}<tr><th>Last event</th><td>{{.LastEventAt.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
<tr><th>Left (L→R)</th><td>{{.Counts.Left}}</td></tr>
<tr><th>Right (R→L)</th><td>{{.Counts.Right}}</td></tr>
<tr><th>Ready</th><td class="{{if .WarmedUp}}ok{{else}}pending{{end}}">{{if .WarmedUp}}yes{{else}}warming up{{end}}</td></tr>
</table>

<h2>Time</h2>
<table>
<tr><th>GPS sync</th><td class="{{if .GPSSynced}}connected{{else}}disconnected{{end}}">{{if .GPSSynced}}synced{{else}}unsynced{{end}}</td></tr>
{{if not .LastResync.IsZero}}<tr><th>Last resync</th><td>{{.LastResync.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Stall timeout</th><td>{{.Config.StallMs}}ms</td></tr>
<tr><th>Liveness</th><td>{{if eq .Config.LivenessMs 0}}disabled{{else}}{{.Config.LivenessMs}}ms{{end}}</td></tr>
<tr><th>Log</th><td>{{.Config.LogPath}}</td></tr>
<tr><th>GPS port</th><td>{{.Config.SerialPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
