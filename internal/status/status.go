// Package status provides a thread-safe status tracker for the flame-sensor
// daemon. It is designed to be read by HTTP handlers and MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/flame-sensor/internal/alarm"
	"github.com/sweeney/flame-sensor/internal/flame"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	UpdateMs      int64
	PersistenceMs int64
	MarginMV      int
	HeartbeatMs   int64
	Broker        string
	HTTPPort      string
	WSBroker      string // Websocket broker URL for browser MQTT (empty = disabled)
}

// EventCounts tracks detection and alarm transitions since startup.
type EventCounts struct {
	Detections int // FLAME_DETECTED transitions
	Ambients   int // AMBIENT_INTERFERENCE transitions
	Dangers    int
	Warnings   int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	FlameState    flame.State
	Channels      [flame.NumChannels]flame.ChannelReading
	ActiveSpikes  int
	SmokePPM      float64
	TempC         float64
	AlarmLevel    alarm.Level
	Counts        EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			FlameState: flame.StateIdle,
			AlarmLevel: alarm.LevelSafe,
			Config:     cfg,
		},
	}
}

// UpdateFlame sets the detector view: state, channel data, and spike count.
// Called from runLoop on every tick.
func (t *Tracker) UpdateFlame(state flame.State, channels [flame.NumChannels]flame.ChannelReading, spikes int) {
	t.mu.Lock()
	t.snap.FlameState = state
	t.snap.Channels = channels
	t.snap.ActiveSpikes = spikes
	t.mu.Unlock()
}

// UpdateEnvironment sets the slow-cadence sensor values and alarm level.
func (t *Tracker) UpdateEnvironment(smokePPM, tempC float64, level alarm.Level) {
	t.mu.Lock()
	t.snap.SmokePPM = smokePPM
	t.snap.TempC = tempC
	t.snap.AlarmLevel = level
	t.mu.Unlock()
}

// SetCounts sets the event counts.
func (t *Tracker) SetCounts(counts EventCounts) {
	t.mu.Lock()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// SetMargin updates the displayed sensitivity margin.
func (t *Tracker) SetMargin(mv int) {
	t.mu.Lock()
	t.snap.Config.MarginMV = mv
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
