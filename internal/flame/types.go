// Package flame contains the core 5-channel IR flame detection algorithm:
// oversampled sampling, EMA baseline tracking, spatial voting, and a
// persistence-gated state machine. This package has NO hardware dependencies;
// voltage readings come from an injected Source and time is always injectable.
package flame

import "time"

// NumChannels is the number of IR channels in the linear sensor array.
const NumChannels = 5

// Detector defaults. All are overridable via Config.
const (
	DefaultOversampling   = 64
	DefaultAlpha          = 0.01
	DefaultMargin         = 300 // mV above baseline
	DefaultAmbientMin     = 4   // spiking channels that indicate ambient light
	DefaultPersistence    = 500 * time.Millisecond
	DefaultUpdateInterval = 50 * time.Millisecond
	DefaultSettleDelay    = 10 * time.Microsecond
)

// State is the flame detection state.
type State string

const (
	StateIdle      State = "IDLE"
	StatePotential State = "POTENTIAL"
	StateDetected  State = "DETECTED"
	StateAmbient   State = "AMBIENT_INTERFERENCE"
)

// Source provides raw voltage readings for the IR channels.
// Implementations live in internal/adc; tests use a scripted fake.
type Source interface {
	// ReadVoltage returns the instantaneous voltage on the given channel
	// in millivolts.
	ReadVoltage(channel int) (int, error)
}

// ChannelReading is a snapshot of one channel's signal state.
type ChannelReading struct {
	// Raw is the latest oversampled reading in millivolts.
	Raw int
	// Baseline is the exponential moving average of Raw.
	Baseline float64
	// Deviation is Raw minus Baseline, recomputed every update.
	Deviation float64
	// IsSpike is true when Deviation exceeds the sensitivity margin.
	IsSpike bool
	// LastSpikeTime is when this channel last spiked. Informational only;
	// state transitions never read it.
	LastSpikeTime time.Time
}

// pattern is the spatial classification of the current spike flags.
type pattern int

const (
	patternNone pattern = iota // no channel spiking
	patternPointSource
	patternAmbient
	patternRejected // spiking, but neither point source nor ambient
)

// Config holds detector tuning parameters. Zero values select defaults.
type Config struct {
	Oversampling   int           // raw reads averaged per channel sample
	Alpha          float64       // EMA coefficient
	Margin         int           // sensitivity margin in mV
	AmbientMin     int           // spike count treated as ambient interference
	Persistence    time.Duration // required point-source hold time
	UpdateInterval time.Duration // minimum interval between update ticks
	SettleDelay    time.Duration // pause between raw reads

	// Now and Sleep are injectable for tests. Defaults: time.Now, time.Sleep.
	Now   func() time.Time
	Sleep func(time.Duration)
}

func (c *Config) applyDefaults() {
	if c.Oversampling <= 0 {
		c.Oversampling = DefaultOversampling
	}
	if c.Alpha <= 0 {
		c.Alpha = DefaultAlpha
	}
	if c.Margin <= 0 {
		c.Margin = DefaultMargin
	}
	if c.AmbientMin <= 0 {
		c.AmbientMin = DefaultAmbientMin
	}
	if c.Persistence <= 0 {
		c.Persistence = DefaultPersistence
	}
	if c.UpdateInterval <= 0 {
		c.UpdateInterval = DefaultUpdateInterval
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
}
