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
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	FlameState    string        `json:"flame_state"`
	FlameDetected bool          `json:"flame_detected"`
	AlarmLevel    string        `json:"alarm_level"`
	ActiveSpikes  int           `json:"active_spikes"`
	Channels      []ChannelJSON `json:"channels"`
	SmokePPM      float64       `json:"smoke_ppm"`
	TempC         float64       `json:"temp_c"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Counts        CountsJSON    `json:"event_counts"`
	Network       *NetworkJSON  `json:"network,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// ChannelJSON is the JSON representation of one IR channel.
type ChannelJSON struct {
	Raw       int     `json:"raw_mv"`
	Baseline  float64 `json:"baseline_mv"`
	Deviation float64 `json:"deviation_mv"`
	Spike     bool    `json:"spike"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Detections int `json:"detections"`
	Ambients   int `json:"ambient_events"`
	Dangers    int `json:"dangers"`
	Warnings   int `json:"warnings"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	UpdateMs      int64  `json:"update_ms"`
	PersistenceMs int64  `json:"persistence_ms"`
	MarginMV      int    `json:"margin_mv"`
	HeartbeatMs   int64  `json:"heartbeat_ms"`
	Broker        string `json:"broker"`
	HTTPPort      string `json:"http_port"`
	WSBroker      string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.FlameState)
	if state == "" {
		state = "UNKNOWN"
	}
	level := string(snap.AlarmLevel)
	if level == "" {
		level = "UNKNOWN"
	}

	channels := make([]ChannelJSON, len(snap.Channels))
	for i, ch := range snap.Channels {
		channels[i] = ChannelJSON{
			Raw:       ch.Raw,
			Baseline:  ch.Baseline,
			Deviation: ch.Deviation,
			Spike:     ch.IsSpike,
		}
	}

	return StatusInner{
		FlameState:    state,
		FlameDetected: state == "DETECTED",
		AlarmLevel:    level,
		ActiveSpikes:  snap.ActiveSpikes,
		Channels:      channels,
		SmokePPM:      snap.SmokePPM,
		TempC:         snap.TempC,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Detections: snap.Counts.Detections,
			Ambients:   snap.Counts.Ambients,
			Dangers:    snap.Counts.Dangers,
			Warnings:   snap.Counts.Warnings,
		},
		Config: ConfigJSON{
			UpdateMs:      snap.Config.UpdateMs,
			PersistenceMs: snap.Config.PersistenceMs,
			MarginMV:      snap.Config.MarginMV,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			Broker:        snap.Config.Broker,
			HTTPPort:      snap.Config.HTTPPort,
			WSBroker:      snap.Config.WSBroker,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
