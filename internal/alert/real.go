//go:build linux

package alert

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/flame-sensor/internal/alarm"
)

// RealOutputs drives LEDs and buzzer on actual hardware using the Linux GPIO
// character device.
type RealOutputs struct {
	chip   *gpiocdev.Chip
	green  *gpiocdev.Line
	yellow *gpiocdev.Line
	red    *gpiocdev.Line
	buzzer *gpiocdev.Line
}

// NewRealOutputs requests the four output lines, all initially low.
func NewRealOutputs(pins Pins) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	o := &RealOutputs{chip: chip}
	lines := []struct {
		pin  int
		name string
		dst  **gpiocdev.Line
	}{
		{pins.Green, "green LED", &o.green},
		{pins.Yellow, "yellow LED", &o.yellow},
		{pins.Red, "red LED", &o.red},
		{pins.Buzzer, "buzzer", &o.buzzer},
	}
	for _, l := range lines {
		line, err := chip.RequestLine(l.pin, gpiocdev.AsOutput(0))
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", l.name, l.pin, err)
		}
		*l.dst = line
	}

	return o, nil
}

// Apply sets the indicators for the given alarm level.
func (o *RealOutputs) Apply(level alarm.Level) error {
	green, yellow, red, buzzer := 0, 0, 0, 0
	switch level {
	case alarm.LevelDanger:
		red, buzzer = 1, 1
	case alarm.LevelWarning:
		yellow = 1
	default:
		green = 1
	}

	for _, s := range []struct {
		line *gpiocdev.Line
		v    int
	}{
		{o.green, green}, {o.yellow, yellow}, {o.red, red}, {o.buzzer, buzzer},
	} {
		if err := s.line.SetValue(s.v); err != nil {
			return fmt.Errorf("set output: %w", err)
		}
	}
	return nil
}

// Close drives all outputs low and releases GPIO resources.
func (o *RealOutputs) Close() error {
	var errs []error
	for _, line := range []*gpiocdev.Line{o.green, o.yellow, o.red, o.buzzer} {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, err)
		}
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
