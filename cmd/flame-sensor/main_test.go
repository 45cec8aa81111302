package main

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/flame-sensor/internal/adc"
	"github.com/sweeney/flame-sensor/internal/alarm"
	"github.com/sweeney/flame-sensor/internal/alert"
	"github.com/sweeney/flame-sensor/internal/flame"
	"github.com/sweeney/flame-sensor/internal/gas"
	"github.com/sweeney/flame-sensor/internal/mqtt"
	"github.com/sweeney/flame-sensor/internal/status"
	"github.com/sweeney/flame-sensor/internal/temp"
)

// TestEnvVarNames verifies the env var constants match what pi-helper writes
// to /run/pi-helper.env. If pi-helper changes its var names, this test fails
// and we update the constants — not the other way around.
func TestEnvVarNames(t *testing.T) {
	// These are the canonical names from pi-helper.
	want := map[string]string{
		"NETWORK_TYPE":        envNetworkType,
		"NETWORK_IP":          envNetworkIP,
		"NETWORK_STATUS":      envNetworkStatus,
		"NETWORK_GATEWAY":     envNetworkGateway,
		"NETWORK_WIFI_STATUS": envNetworkWifiStatus,
		"NETWORK_WIFI_SSID":   envNetworkWifiSSID,
	}
	for canonical, got := range want {
		if got != canonical {
			t.Errorf("env var constant: got %q, want %q", got, canonical)
		}
	}
}

func TestReadNetworkInfoAllSet(t *testing.T) {
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.100")
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkGateway, "192.168.1.1")
	t.Setenv(envNetworkWifiStatus, "connected")
	t.Setenv(envNetworkWifiSSID, "MyNetwork")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo")
	}

	want := &status.NetworkInfo{
		Type:       "wifi",
		IP:         "192.168.1.100",
		Status:     "connected",
		Gateway:    "192.168.1.1",
		WifiStatus: "connected",
		SSID:       "MyNetwork",
	}

	if *info != *want {
		t.Errorf("NetworkInfo: got %+v, want %+v", *info, *want)
	}
}

func TestReadNetworkInfoNoneSet(t *testing.T) {
	t.Setenv(envNetworkStatus, "")

	info := readNetworkInfo()
	if info != nil {
		t.Errorf("expected nil when NETWORK_STATUS is unset, got %+v", info)
	}
}

func TestReadNetworkInfoPartial(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo when NETWORK_STATUS is set")
	}
	if info.Status != "connected" {
		t.Errorf("Status: got %q, want %q", info.Status, "connected")
	}
	if info.Type != "" || info.IP != "" || info.SSID != "" {
		t.Errorf("unset fields should be empty, got %+v", info)
	}
}

func TestResolveWSBroker(t *testing.T) {
	tests := []struct {
		name   string
		ws     string
		broker string
		want   string
	}{
		{"off disables", "off", "tcp://192.168.1.200:1883", ""},
		{"explicit url passes through", "ws://other:9001", "tcp://192.168.1.200:1883", "ws://other:9001"},
		{"derived from broker", "=broker", "tcp://192.168.1.200:1883", "ws://192.168.1.200:9001"},
		{"derived strips broker port", "=broker", "tcp://broker.local:8883", "ws://broker.local:9001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveWSBroker(tt.ws, tt.broker); got != tt.want {
				t.Errorf("resolveWSBroker(%q, %q): got %q, want %q", tt.ws, tt.broker, got, tt.want)
			}
		})
	}
}

// --- runLoop tests ---

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Shared between the daemon and the detector; both read
// it only from runLoop's goroutine.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// ambientMV is the quiet-room IR level used by the loop tests. It sits well
// under the margin so unprimed baselines never register spikes.
const ambientMV = 50

// newTestSource returns a fake ADC with all IR channels at the ambient level
// and the gas channel at a clean-air voltage.
func newTestSource() *adc.FakeSource {
	src := adc.NewFakeSource()
	for i := 0; i < flame.NumChannels; i++ {
		src.Set(i, ambientMV)
	}
	src.Set(flame.NumChannels, 200)
	return src
}

// newTestDaemon wires a daemon from fakes. The shared clock advances 50ms per
// call; each tick reads it twice (loop timestamp, then detector), so loop
// ticks land 100ms apart. Alpha is slow enough that baselines barely move
// over a test run.
func newTestDaemon(src *adc.FakeSource, pub *mqtt.FakePublisher, outs *alert.FakeOutputs, heartbeat time.Duration) *daemon {
	clock := fakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 50*time.Millisecond)
	detector := flame.NewDetector(src, flame.Config{
		Oversampling:   1,
		Alpha:          0.0001,
		Margin:         flame.DefaultMargin,
		Persistence:    flame.DefaultPersistence,
		UpdateInterval: flame.DefaultUpdateInterval,
		Now:            clock,
		Sleep:          func(time.Duration) {},
	})
	tracker := status.NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), status.Config{
		UpdateMs: 100,
		MarginMV: flame.DefaultMargin,
		Broker:   "tcp://test:1883",
	})
	return &daemon{
		detector:  detector,
		gas:       gas.NewSensor(src, flame.NumChannels, gas.DefaultModel),
		outputs:   outs,
		publisher: pub,
		mqttStat:  pub,
		tracker:   tracker,
		eval:      alarm.NewEvaluator(alarm.DefaultThresholds),
		heartbeat: heartbeat,
		diagOut:   io.Discard,
		now:       clock,
	}
}

// runDaemon drives runLoop for nTicks ticks, then delivers the signal and
// returns the loop's error.
func runDaemon(t *testing.T, d *daemon, nTicks int, signal os.Signal) error {
	t.Helper()
	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.runLoop(tick, sig)
	}()

	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- signal

	return <-errCh
}

func TestRunLoopQuietNoEvents(t *testing.T) {
	src := newTestSource()
	pub := mqtt.NewFakePublisher()
	outs := alert.NewFakeOutputs()
	d := newTestDaemon(src, pub, outs, 0)

	if err := runDaemon(t, d, 5, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(pub.FlameEvents) != 0 {
		t.Errorf("expected 0 flame events at ambient, got %d", len(pub.FlameEvents))
	}
	if len(pub.AlarmEvents) != 0 {
		t.Errorf("expected 0 alarm events at ambient, got %d", len(pub.AlarmEvents))
	}
	if len(outs.Applied) != 0 {
		t.Errorf("expected no output changes, got %v", outs.Applied)
	}

	if len(pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(pub.SystemEvents))
	}
	se := pub.SystemEvents[0]
	if se.Event != "SHUTDOWN" || se.Reason != "SIGTERM" {
		t.Errorf("shutdown event: got %+v", se)
	}
	if !se.Retained {
		t.Error("shutdown event should be retained")
	}
	if se.RawPayload == nil {
		t.Error("shutdown event should carry a status snapshot")
	}

	snap := d.tracker.Snapshot()
	if snap.FlameState != flame.StateIdle {
		t.Errorf("tracker flame state: got %s, want IDLE", snap.FlameState)
	}
	if snap.Channels[0].Raw != ambientMV {
		t.Errorf("tracker channel 0 raw: got %d, want %d", snap.Channels[0].Raw, ambientMV)
	}
	if snap.TempC != temp.Unavailable {
		t.Errorf("tracker temp without a probe: got %f, want %f", snap.TempC, temp.Unavailable)
	}
}

func TestRunLoopDetectionSequence(t *testing.T) {
	src := newTestSource()
	// Channel 2 sees a flame from the third tick on. The deviation (~350mV
	// over the near-zero baseline) exceeds the margin on every spiking tick.
	src.Queue(2, ambientMV, ambientMV, 400, 400, 400, 400, 400, 400, 400, 400, 400, 400)
	pub := mqtt.NewFakePublisher()
	outs := alert.NewFakeOutputs()
	d := newTestDaemon(src, pub, outs, 0)

	if err := runDaemon(t, d, 12, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(pub.FlameEvents) != 2 {
		t.Fatalf("expected 2 flame events, got %d: %+v", len(pub.FlameEvents), pub.FlameEvents)
	}
	first, second := pub.FlameEvents[0], pub.FlameEvents[1]
	if first.Type() != "FLAME_POTENTIAL" || first.From != flame.StateIdle {
		t.Errorf("first event: got %s from %s", first.Type(), first.From)
	}
	if second.Type() != "FLAME_DETECTED" || second.From != flame.StatePotential {
		t.Errorf("second event: got %s from %s", second.Type(), second.From)
	}
	if first.Spikes != 1 || second.Spikes != 1 {
		t.Errorf("spike counts: got %d and %d, want 1 and 1", first.Spikes, second.Spikes)
	}

	// A confirmed flame is a danger regardless of smoke and temperature.
	if len(pub.AlarmEvents) != 1 {
		t.Fatalf("expected 1 alarm event, got %d", len(pub.AlarmEvents))
	}
	ae := pub.AlarmEvents[0]
	if ae.Level != alarm.LevelDanger || ae.Previous != alarm.LevelSafe {
		t.Errorf("alarm event: got %s <- %s", ae.Level, ae.Previous)
	}
	if !ae.Input.FlameConfirmed {
		t.Error("alarm input should show a confirmed flame")
	}
	if outs.Last() != alarm.LevelDanger {
		t.Errorf("outputs: got %s, want DANGER", outs.Last())
	}

	snap := d.tracker.Snapshot()
	if snap.FlameState != flame.StateDetected {
		t.Errorf("tracker flame state: got %s, want DETECTED", snap.FlameState)
	}
	if snap.ActiveSpikes != 1 {
		t.Errorf("tracker spikes: got %d, want 1", snap.ActiveSpikes)
	}
	if snap.Counts.Detections != 1 || snap.Counts.Dangers != 1 {
		t.Errorf("tracker counts: got %+v", snap.Counts)
	}
	if snap.AlarmLevel != alarm.LevelDanger {
		t.Errorf("tracker alarm level: got %s, want DANGER", snap.AlarmLevel)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	src := newTestSource()
	pub := mqtt.NewFakePublisher()
	d := newTestDaemon(src, pub, alert.NewFakeOutputs(), 250*time.Millisecond)

	// Ticks land at 100ms, 200ms, ... against a heartbeat epoch of 0ms, so a
	// 250ms interval fires at ticks 3 and 6.
	if err := runDaemon(t, d, 7, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	var heartbeats, shutdowns int
	for _, se := range pub.SystemEvents {
		switch se.Event {
		case "HEARTBEAT":
			heartbeats++
			if se.RawPayload == nil {
				t.Error("heartbeat should carry a status snapshot")
			} else if !strings.Contains(string(se.RawPayload), `"HEARTBEAT"`) {
				t.Errorf("heartbeat payload missing event marker: %s", se.RawPayload)
			}
		case "SHUTDOWN":
			shutdowns++
		}
	}
	if heartbeats != 2 {
		t.Errorf("expected 2 HEARTBEAT events, got %d", heartbeats)
	}
	if shutdowns != 1 {
		t.Errorf("expected 1 SHUTDOWN event, got %d", shutdowns)
	}
}

func TestRunLoopPublishError(t *testing.T) {
	src := newTestSource()
	src.Queue(2, ambientMV, 400, 400, 400, 400, 400, 400, 400)
	pub := mqtt.NewFakePublisher()
	pub.PublishError = errors.New("broker unavailable")
	d := newTestDaemon(src, pub, alert.NewFakeOutputs(), 0)

	if err := runDaemon(t, d, 8, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	// Flame and alarm publishes fail without being recorded, but the loop
	// keeps running and SHUTDOWN still goes out via PublishSystem.
	if len(pub.FlameEvents) != 0 {
		t.Errorf("expected 0 recorded flame events, got %d", len(pub.FlameEvents))
	}
	found := false
	for _, se := range pub.SystemEvents {
		if se.Event == "SHUTDOWN" {
			found = true
		}
	}
	if !found {
		t.Error("expected SHUTDOWN system event despite publish errors")
	}
}

func TestRunLoopGasReadError(t *testing.T) {
	src := adc.NewFakeSource()
	for i := 0; i < flame.NumChannels; i++ {
		src.Set(i, ambientMV)
	}
	// Gas channel left unconfigured: every read errors.
	pub := mqtt.NewFakePublisher()
	d := newTestDaemon(src, pub, alert.NewFakeOutputs(), 0)

	if err := runDaemon(t, d, 4, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(pub.AlarmEvents) != 0 {
		t.Errorf("expected 0 alarm events, got %d", len(pub.AlarmEvents))
	}
	if snap := d.tracker.Snapshot(); snap.SmokePPM != 0 {
		t.Errorf("smoke should hold its last value (0) across read errors, got %f", snap.SmokePPM)
	}
}

func TestRunLoopShutdownSIGINT(t *testing.T) {
	src := newTestSource()
	pub := mqtt.NewFakePublisher()
	d := newTestDaemon(src, pub, alert.NewFakeOutputs(), 0)

	if err := runDaemon(t, d, 2, syscall.SIGINT); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(pub.SystemEvents))
	}
	se := pub.SystemEvents[0]
	if se.Reason != "SIGINT" {
		t.Errorf("shutdown reason: got %q, want SIGINT", se.Reason)
	}
	if !strings.Contains(string(se.RawPayload), `"SIGINT"`) {
		t.Errorf("shutdown payload missing reason: %s", se.RawPayload)
	}
}
