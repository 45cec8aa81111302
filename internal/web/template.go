package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/flame-sensor/internal/status"
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
	"stateClass": func(s string) string {
		switch s {
		case "IDLE", "SAFE":
			return "ok"
		case "POTENTIAL", "WARNING", "AMBIENT_INTERFERENCE":
			return "warn"
		case "DETECTED", "DANGER":
			return "danger"
		}
		return "unknown"
	},
	"mv": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
	"temp": func(f float64) string {
		if f <= -999 {
			return "n/a"
		}
		return fmt.Sprintf("%.1f °C", f)
	},
	"ppm": func(f float64) string {
		return fmt.Sprintf("%.1f PPM", f)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Flame Sensor</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.warn { color: #b8860b; font-weight: bold; }
.danger { color: red; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.spike { color: red; font-weight: bold; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Flame Sensor{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Detection</h2>
<table>
<tr><th>Flame State</th><td id="flame-state" class="{{stateClass (printf "%s" .FlameState)}}">{{.FlameState}}</td></tr>
<tr><th>Alarm Level</th><td id="alarm-level" class="{{stateClass (printf "%s" .AlarmLevel)}}">{{.AlarmLevel}}</td></tr>
<tr><th>Active Spikes</th><td id="spikes">{{.ActiveSpikes}}/5</td></tr>
<tr><th>Smoke</th><td>{{ppm .SmokePPM}}</td></tr>
<tr><th>Temperature</th><td>{{temp .TempC}}</td></tr>
</table>

<h2>Channels</h2>
<table>
<tr><th>CH</th><th>Raw (mV)</th><th>Baseline (mV)</th><th>Deviation (mV)</th><th>Spike</th></tr>
{{range $i, $ch := .Channels}}<tr><td>{{$i}}</td><td>{{$ch.Raw}}</td><td>{{mv $ch.Baseline}}</td><td>{{mv $ch.Deviation}}</td><td>{{if $ch.IsSpike}}<span class="spike">YES</span>{{else}}no{{end}}</td></tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} — {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Flame Detections</th><td>{{.Counts.Detections}}</td></tr>
<tr><th>Ambient Interference</th><td>{{.Counts.Ambients}}</td></tr>
<tr><th>Dangers</th><td>{{.Counts.Dangers}}</td></tr>
<tr><th>Warnings</th><td>{{.Counts.Warnings}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Update</th><td>{{.Config.UpdateMs}}ms</td></tr>
<tr><th>Persistence</th><td>{{.Config.PersistenceMs}}ms</td></tr>
<tr><th>Margin</th><td>{{.Config.MarginMV}}mV</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "safety/flame/sensor/events";
  var alarmTopic = "safety/flame/sensor/alarm";
  var dot = document.getElementById("live-dot");
  var flameEl = document.getElementById("flame-state");
  var alarmEl = document.getElementById("alarm-level");
  var spikesEl = document.getElementById("spikes");

  function cls(state) {
    if (state === "IDLE" || state === "SAFE") return "ok";
    if (state === "DETECTED" || state === "DANGER") return "danger";
    return "warn";
  }

  function setState(el, state) {
    el.textContent = state;
    el.className = cls(state);
  }

  function setDot(c, title) {
    dot.className = "live-dot " + c;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
    client.subscribe(alarmTopic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.flame) {
        setState(flameEl, msg.flame.state);
        spikesEl.textContent = msg.flame.spikes + "/5";
      }
      if (msg.alarm) {
        setState(alarmEl, msg.alarm.level);
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
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
