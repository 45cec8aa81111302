// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/flame-sensor/internal/alarm"
	"github.com/sweeney/flame-sensor/internal/flame"
)

// Topic is the MQTT topic for flame detection events.
const Topic = "safety/flame/sensor/events"

// TopicAlarm is the MQTT topic for alarm level changes.
const TopicAlarm = "safety/flame/sensor/alarm"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "safety/flame/sensor/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishFlame sends a flame detection event to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishFlame(event FlameEvent) error

	// PublishAlarm sends an alarm level change to the broker.
	PublishAlarm(event alarm.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// FlameEvent represents a flame detector state transition.
type FlameEvent struct {
	Timestamp time.Time
	From      flame.State
	To        flame.State
	Spikes    int // active spiking channels at transition time
}

// Type returns the event name for a transition.
func (e FlameEvent) Type() string {
	switch e.To {
	case flame.StatePotential:
		return "FLAME_POTENTIAL"
	case flame.StateDetected:
		return "FLAME_DETECTED"
	case flame.StateAmbient:
		return "AMBIENT_INTERFERENCE"
	default:
		return "FLAME_CLEARED"
	}
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// FlamePayload is the MQTT message payload for a flame event.
type FlamePayload struct {
	Flame FlamePayloadInner `json:"flame"`
}

// FlamePayloadInner contains the flame event details.
type FlamePayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
	Spikes    int    `json:"spikes"`
}

// FormatFlamePayload creates the JSON payload for a flame event.
func FormatFlamePayload(event FlameEvent) ([]byte, error) {
	payload := FlamePayload{
		Flame: FlamePayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Type(),
			State:     string(event.To),
			Spikes:    event.Spikes,
		},
	}
	return json.Marshal(payload)
}

// AlarmPayload is the MQTT message payload for an alarm level change.
type AlarmPayload struct {
	Alarm AlarmPayloadInner `json:"alarm"`
}

// AlarmPayloadInner contains the alarm event details.
type AlarmPayloadInner struct {
	Timestamp string  `json:"timestamp"`
	Level     string  `json:"level"`
	Previous  string  `json:"previous"`
	Flame     bool    `json:"flame"`
	SmokePPM  float64 `json:"smoke_ppm"`
	TempC     float64 `json:"temp_c"`
}

// FormatAlarmPayload creates the JSON payload for an alarm event.
func FormatAlarmPayload(event alarm.Event) ([]byte, error) {
	payload := AlarmPayload{
		Alarm: AlarmPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Level:     string(event.Level),
			Previous:  string(event.Previous),
			Flame:     event.Input.FlameConfirmed,
			SmokePPM:  event.Input.SmokePPM,
			TempC:     event.Input.TempC,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
