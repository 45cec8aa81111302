// Package alert drives the indicator LEDs and buzzer from the alarm level.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package alert

import "github.com/sweeney/flame-sensor/internal/alarm"

// Outputs drives the physical indicators.
type Outputs interface {
	// Apply sets the LEDs and buzzer for the given alarm level:
	// SAFE = green, WARNING = yellow, DANGER = red + buzzer.
	Apply(level alarm.Level) error

	// Close turns everything off and releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering).
const (
	DefaultPinGreen  = 19
	DefaultPinYellow = 18
	DefaultPinRed    = 17
	DefaultPinBuzzer = 16
)

// Pins holds the output pin assignment.
type Pins struct {
	Green  int
	Yellow int
	Red    int
	Buzzer int
}

// DefaultPins returns the default pin assignment.
func DefaultPins() Pins {
	return Pins{
		Green:  DefaultPinGreen,
		Yellow: DefaultPinYellow,
		Red:    DefaultPinRed,
		Buzzer: DefaultPinBuzzer,
	}
}
