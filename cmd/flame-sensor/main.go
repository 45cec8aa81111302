// Command flame-sensor polls a 5-channel IR flame array plus gas and
// temperature sensors, drives the indicator outputs, and publishes detection
// events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/flame-sensor/internal/adc"
	"github.com/sweeney/flame-sensor/internal/alarm"
	"github.com/sweeney/flame-sensor/internal/alert"
	"github.com/sweeney/flame-sensor/internal/config"
	"github.com/sweeney/flame-sensor/internal/flame"
	"github.com/sweeney/flame-sensor/internal/gas"
	"github.com/sweeney/flame-sensor/internal/mqtt"
	"github.com/sweeney/flame-sensor/internal/status"
	"github.com/sweeney/flame-sensor/internal/temp"
	"github.com/sweeney/flame-sensor/internal/web"
)

// envInterval is how often the slow sensors (temperature) are refreshed and
// the environment view is pushed to the status tracker.
const envInterval = 2 * time.Second

func main() {
	update := flag.Duration("update", flame.DefaultUpdateInterval, "Detector update interval")
	persistence := flag.Duration("persistence", flame.DefaultPersistence, "Point-source persistence before confirming a flame")
	margin := flag.Int("margin", flame.DefaultMargin, "Sensitivity margin in mV above baseline")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	diagEvery := flag.Duration("diag", 0, "Diagnostics dump interval (0 to disable)")
	profile := flag.String("config", "", "Hardware profile YAML (empty for defaults)")
	printState := flag.Bool("print-state", false, "Print current channel voltages and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	ws := resolveWSBroker(*wsBroker, *broker)
	if err := run(*update, *persistence, *margin, *broker, *heartbeat, *diagEvery, *profile, *printState, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(update, persistence time.Duration, margin int, broker string, heartbeat, diagEvery time.Duration, profile string, printState bool, httpAddr, wsBroker string) error {
	cfg, err := config.Load(profile)
	if err != nil {
		return err
	}

	// Initialize ADC: IR channels first, gas channel last.
	channels := append(append([]int(nil), cfg.ADC.IRChannels...), cfg.ADC.GasChannel)
	source, err := adc.NewIIOSource(cfg.ADC.Device, channels)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer source.Close()

	// Print state mode
	if printState {
		for i := 0; i < flame.NumChannels; i++ {
			mv, err := source.ReadVoltage(i)
			if err != nil {
				return fmt.Errorf("read channel %d: %w", i, err)
			}
			fmt.Printf("IR%d: %d mV\n", i, mv)
		}
		return nil
	}

	detector := flame.NewDetector(source, flame.Config{
		Margin:         margin,
		Persistence:    persistence,
		UpdateInterval: update,
	})
	detector.Init()

	gasSensor := gas.NewSensor(source, flame.NumChannels, cfg.GasModel())

	var tempSrc temp.Source
	if cfg.Temp.Sensor != "" {
		hwmon, err := temp.NewHwmonSource(cfg.Temp.Sensor)
		if err != nil {
			log.Printf("temperature probe unavailable: %v", err)
		} else {
			tempSrc = hwmon
			defer hwmon.Close()
		}
	}

	outputs, err := alert.NewRealOutputs(cfg.AlertPins())
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	defer outputs.Close()

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		UpdateMs:      update.Milliseconds(),
		PersistenceMs: persistence.Milliseconds(),
		MarginMV:      margin,
		HeartbeatMs:   heartbeat.Milliseconds(),
		Broker:        broker,
		HTTPPort:      httpAddr,
		WSBroker:      wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: update=%v persistence=%v margin=%dmV broker=%s heartbeat=%v",
		update, persistence, margin, broker, heartbeat)

	ticker := time.NewTicker(update)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	d := &daemon{
		detector:  detector,
		gas:       gasSensor,
		tempSrc:   tempSrc,
		outputs:   outputs,
		publisher: publisher,
		mqttStat:  publisher,
		tracker:   tracker,
		eval:      alarm.NewEvaluator(cfg.AlarmThresholds()),
		heartbeat: heartbeat,
		diagEvery: diagEvery,
		diagOut:   os.Stdout,
		now:       time.Now,
	}
	return d.runLoop(ticker.C, sigCh)
}

// daemon bundles the run loop collaborators so tests can drive the loop with
// fakes and a scripted clock.
type daemon struct {
	detector  *flame.Detector
	gas       *gas.Sensor
	tempSrc   temp.Source // nil when no probe is fitted
	outputs   alert.Outputs
	publisher mqtt.Publisher
	mqttStat  mqtt.ConnectionStatus
	tracker   *status.Tracker
	eval      *alarm.Evaluator
	heartbeat time.Duration
	diagEvery time.Duration
	diagOut   io.Writer
	now       func() time.Time
}

func (d *daemon) runLoop(tick <-chan time.Time, sig <-chan os.Signal) error {
	var (
		counts        status.EventCounts
		lastState     = d.detector.State()
		lastHeartbeat = d.now()
		lastEnv       time.Time // zero forces an environment refresh on the first tick
		lastDiag      = d.now()
		smoke         float64
		tempC         = temp.Unavailable
	)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: d.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				if d.mqttStat != nil {
					d.tracker.SetMQTTConnected(d.mqttStat.IsConnected())
				}
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := d.now()

			// Fast path: advance the detector and publish state transitions.
			d.detector.Update()

			state := d.detector.State()
			if state != lastState {
				event := mqtt.FlameEvent{
					Timestamp: t,
					From:      lastState,
					To:        state,
					Spikes:    d.detector.ActiveSpikes(),
				}
				log.Printf("event: %s (spikes=%d/%d)", event.Type(), event.Spikes, flame.NumChannels)
				if err := d.publisher.PublishFlame(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
				switch state {
				case flame.StateDetected:
					counts.Detections++
				case flame.StateAmbient:
					counts.Ambients++
				}
				lastState = state
			}

			// Smoke is an ADC read like the IR channels, cheap enough for
			// every tick; temperature refreshes on the slow cadence.
			if ppm, err := d.gas.ReadPPM(); err != nil {
				log.Printf("gas read error: %v", err)
			} else {
				smoke = ppm
			}
			if t.Sub(lastEnv) >= envInterval {
				tempC = d.readTemperature()
				d.tracker.UpdateEnvironment(smoke, tempC, d.eval.Level())
				lastEnv = t
			}

			if ev := d.eval.Process(alarm.Input{
				FlameConfirmed: d.detector.FlameConfirmed(),
				SmokePPM:       smoke,
				TempC:          tempC,
				Time:           t,
			}); ev != nil {
				log.Printf("alarm: %s -> %s (flame=%v smoke=%.1f temp=%.1f)",
					ev.Previous, ev.Level, ev.Input.FlameConfirmed, ev.Input.SmokePPM, ev.Input.TempC)
				if err := d.publisher.PublishAlarm(*ev); err != nil {
					log.Printf("alarm publish error: %v", err)
				}
				if err := d.outputs.Apply(ev.Level); err != nil {
					log.Printf("output error: %v", err)
				}
				d.tracker.UpdateEnvironment(smoke, tempC, ev.Level)
			}

			// Check for heartbeat
			if d.heartbeat > 0 && t.Sub(lastHeartbeat) >= d.heartbeat {
				lastHeartbeat = t
				ac := d.eval.CountsSnapshot()
				counts.Dangers, counts.Warnings = ac.Dangers, ac.Warnings
				log.Printf("heartbeat: state=%s detections=%d ambients=%d dangers=%d warnings=%d",
					state, counts.Detections, counts.Ambients, counts.Dangers, counts.Warnings)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if d.tracker != nil {
					if d.mqttStat != nil {
						d.tracker.SetMQTTConnected(d.mqttStat.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						d.tracker.SetNetwork(net)
					}
					d.pushTrackerState(state, counts)
					snap := d.tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := d.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Periodic diagnostics dump for serial-plotter style tooling.
			if d.diagEvery > 0 && t.Sub(lastDiag) >= d.diagEvery {
				d.detector.PrintDiagnostics(d.diagOut)
				lastDiag = t
			}

			// Update status tracker for HTTP consumers
			if d.tracker != nil {
				ac := d.eval.CountsSnapshot()
				counts.Dangers, counts.Warnings = ac.Dangers, ac.Warnings
				d.pushTrackerState(state, counts)
				if d.mqttStat != nil {
					d.tracker.SetMQTTConnected(d.mqttStat.IsConnected())
				}
			}
		}
	}
}

// pushTrackerState copies the detector view and counts into the tracker.
func (d *daemon) pushTrackerState(state flame.State, counts status.EventCounts) {
	var channels [flame.NumChannels]flame.ChannelReading
	for i := range channels {
		channels[i], _ = d.detector.Channel(i)
	}
	d.tracker.UpdateFlame(state, channels, d.detector.ActiveSpikes())
	d.tracker.SetCounts(counts)
}

// readTemperature reads the probe, mapping a missing probe or a failed read
// to the sentinel so alarm evaluation never sees an error.
func (d *daemon) readTemperature() float64 {
	if d.tempSrc == nil {
		return temp.Unavailable
	}
	return temp.SafeRead(d.tempSrc)
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
