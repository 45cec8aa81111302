// Package alarm contains pure alarm-policy logic for the fire detector.
// This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package alarm

import "time"

// Level is the overall alarm level derived from all sensors.
type Level string

const (
	LevelSafe    Level = "SAFE"
	LevelWarning Level = "WARNING"
	LevelDanger  Level = "DANGER"
)

// Thresholds holds the alarm trigger points.
type Thresholds struct {
	TempC    float64 // temperature above this is abnormal
	SmokePPM float64 // smoke concentration above this is abnormal
}

// DefaultThresholds matches the deployed sensor calibration.
var DefaultThresholds = Thresholds{TempC: 40, SmokePPM: 51}

// Input is a single sample of all sensor outputs feeding the policy.
type Input struct {
	FlameConfirmed bool
	SmokePPM       float64
	TempC          float64
	Time           time.Time
}

// Event represents an alarm level transition to be published.
type Event struct {
	Timestamp time.Time
	Level     Level
	Previous  Level
	Input     Input
}

// Counts tracks alarm transitions since startup.
type Counts struct {
	Dangers  int
	Warnings int
}

// Evaluator applies the alarm policy and tracks level transitions.
type Evaluator struct {
	thresholds Thresholds
	level      Level
	counts     Counts
}

// NewEvaluator creates an evaluator starting at LevelSafe.
func NewEvaluator(th Thresholds) *Evaluator {
	return &Evaluator{thresholds: th, level: LevelSafe}
}

// Classify maps one sensor sample to an alarm level:
// danger when flame is confirmed, or when both temperature and smoke are
// abnormal; warning when either is abnormal on its own.
// A failed temperature probe reads as the -999 sentinel and never counts as
// abnormal.
func (e *Evaluator) Classify(in Input) Level {
	hotTemp := in.TempC > e.thresholds.TempC
	smoke := in.SmokePPM > e.thresholds.SmokePPM

	if in.FlameConfirmed || (hotTemp && smoke) {
		return LevelDanger
	}
	if smoke || hotTemp {
		return LevelWarning
	}
	return LevelSafe
}

// Process classifies the sample and returns an event if the level changed.
func (e *Evaluator) Process(in Input) *Event {
	next := e.Classify(in)
	if next == e.level {
		return nil
	}

	ev := &Event{
		Timestamp: in.Time,
		Level:     next,
		Previous:  e.level,
		Input:     in,
	}
	e.level = next

	switch next {
	case LevelDanger:
		e.counts.Dangers++
	case LevelWarning:
		e.counts.Warnings++
	}

	return ev
}

// Level returns the current alarm level.
func (e *Evaluator) Level() Level {
	return e.level
}

// CountsSnapshot returns a copy of the transition counts.
func (e *Evaluator) CountsSnapshot() Counts {
	return e.counts
}
