package flame

import (
	"log"
	"time"
)

// Detector runs the full detection pipeline over a 5-channel IR array:
// oversampled sampling, EMA baseline tracking, spatial voting, and
// persistence-gated temporal verification.
type Detector struct {
	cfg Config
	src Source

	channels [NumChannels]ChannelReading

	state          State
	potentialStart time.Time // zero = unset
	margin         int       // mV, runtime tunable
	lastUpdate     time.Time // zero = never updated
}

// NewDetector creates a detector reading from src. Zero-valued Config fields
// take the package defaults.
func NewDetector(src Source, cfg Config) *Detector {
	cfg.applyDefaults()
	return &Detector{
		cfg:    cfg,
		src:    src,
		state:  StateIdle,
		margin: cfg.Margin,
	}
}

// Init logs the active configuration. One-time setup; safe to skip in tests.
func (d *Detector) Init() {
	log.Printf("flame: initializing %d-channel detector", NumChannels)
	log.Printf("flame: oversampling=%d samples/read", d.cfg.Oversampling)
	log.Printf("flame: ema alpha=%.3f", d.cfg.Alpha)
	log.Printf("flame: sensitivity margin=%d mV", d.margin)
	log.Printf("flame: persistence=%v ambient-threshold=%d sensors", d.cfg.Persistence, d.cfg.AmbientMin)
}

// Update advances the detector by one tick: sample all channels, update
// baselines, classify the spatial pattern, and evaluate persistence. Calls
// arriving before the minimum update interval has elapsed are no-ops.
//
// Update never fails; a misread channel contributes 0 mV for that read and is
// absorbed by oversampling and the slow-adapting baseline. Note that Detected
// latches on loss of spikes: only an ambient classification, a new
// Potential/Idle cycle, or ResetBaselines moves the state (the reference
// behavior defines no spike-loss exit from Detected).
func (d *Detector) Update() {
	now := d.cfg.Now()
	if !d.lastUpdate.IsZero() && now.Sub(d.lastUpdate) < d.cfg.UpdateInterval {
		return
	}
	d.lastUpdate = now

	for i := 0; i < NumChannels; i++ {
		d.channels[i].Raw = d.sampleChannel(i)
	}

	d.updateBaselines(now)
	d.evaluateSpatial(now)
	d.evaluateTemporal(now)
}

// updateBaselines applies the EMA to every channel, then derives deviation
// and the spike flag from the baseline computed in this same tick.
func (d *Detector) updateBaselines(now time.Time) {
	alpha := d.cfg.Alpha
	for i := range d.channels {
		ch := &d.channels[i]
		ch.Baseline = alpha*float64(ch.Raw) + (1-alpha)*ch.Baseline
		ch.Deviation = float64(ch.Raw) - ch.Baseline
		ch.IsSpike = ch.Deviation > float64(d.margin)
		if ch.IsSpike {
			ch.LastSpikeTime = now
		}
	}
}

// evaluateSpatial applies the voting filter and the state changes it drives.
// Order matters: zero spikes only demotes Potential back to Idle; ambient
// interference wins from any state; a point source enters Potential and
// stamps the start time if it is not already running.
func (d *Detector) evaluateSpatial(now time.Time) {
	switch d.classify() {
	case patternNone:
		if d.state == StatePotential {
			d.state = StateIdle
			d.potentialStart = time.Time{}
		}
	case patternAmbient:
		d.state = StateAmbient
		d.potentialStart = time.Time{}
	case patternPointSource:
		d.state = StatePotential
		if d.potentialStart.IsZero() {
			d.potentialStart = now
		}
	case patternRejected:
		// Ambiguous pattern (non-adjacent pair, or 3 of 5): no transition.
	}
}

// evaluateTemporal promotes Potential to Detected once the point-source
// pattern has persisted long enough.
func (d *Detector) evaluateTemporal(now time.Time) {
	if d.state != StatePotential {
		return
	}
	held := now.Sub(d.potentialStart)
	if held >= d.cfg.Persistence {
		d.state = StateDetected
		log.Printf("flame: FLAME DETECTED after %v persistence", held)
	}
}

// classify maps the current spike flags to a spatial pattern.
func (d *Detector) classify() pattern {
	k := d.countActiveSpikes()
	switch {
	case k == 0:
		return patternNone
	case k >= d.cfg.AmbientMin:
		return patternAmbient
	case d.isPointSource(k):
		return patternPointSource
	default:
		return patternRejected
	}
}

func (d *Detector) countActiveSpikes() int {
	n := 0
	for i := range d.channels {
		if d.channels[i].IsSpike {
			n++
		}
	}
	return n
}

// isPointSource reports whether the spike pattern looks like one localized
// emitter: a single channel, or two index-adjacent channels in the linear
// array.
func (d *Detector) isPointSource(spikes int) bool {
	if spikes == 1 {
		return true
	}
	if spikes == 2 {
		for i := 0; i < NumChannels-1; i++ {
			if d.channels[i].IsSpike && d.channels[i+1].IsSpike {
				return true
			}
		}
	}
	return false
}

// State returns the current detection state.
func (d *Detector) State() State {
	return d.state
}

// FlameConfirmed reports whether a flame has passed temporal verification.
func (d *Detector) FlameConfirmed() bool {
	return d.state == StateDetected
}

// ActiveSpikes returns how many channels are currently spiking.
func (d *Detector) ActiveSpikes() int {
	return d.countActiveSpikes()
}

// Channel returns a snapshot of the given channel. ok is false for an
// out-of-range index.
func (d *Detector) Channel(i int) (ChannelReading, bool) {
	if i < 0 || i >= NumChannels {
		return ChannelReading{}, false
	}
	return d.channels[i], true
}

// AllRaw returns the latest oversampled reading per channel, in channel order.
func (d *Detector) AllRaw() [NumChannels]int {
	var out [NumChannels]int
	for i := range d.channels {
		out[i] = d.channels[i].Raw
	}
	return out
}

// AllBaselines returns the current baseline per channel, in channel order.
func (d *Detector) AllBaselines() [NumChannels]float64 {
	var out [NumChannels]float64
	for i := range d.channels {
		out[i] = d.channels[i].Baseline
	}
	return out
}

// SetSensitivityMargin changes the spike threshold for all channels. The new
// value takes effect on the next update tick.
func (d *Detector) SetSensitivityMargin(mv int) {
	d.margin = mv
	log.Printf("flame: sensitivity margin updated to %d mV", mv)
}

// SensitivityMargin returns the current spike threshold in millivolts.
func (d *Detector) SensitivityMargin() int {
	return d.margin
}

// ResetBaselines zeroes every channel's baseline and spike flag and returns
// the state machine to Idle. The sensitivity margin is not changed.
func (d *Detector) ResetBaselines() {
	log.Printf("flame: resetting all baselines")
	for i := range d.channels {
		d.channels[i].Baseline = 0
		d.channels[i].IsSpike = false
		d.channels[i].LastSpikeTime = time.Time{}
	}
	d.state = StateIdle
	d.potentialStart = time.Time{}
}
