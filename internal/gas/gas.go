// Package gas reads smoke concentration from an MQ-2 sensor using the
// vendor's power regression model. The sensor is a resistive element whose
// resistance ratio against a calibrated clean-air reference maps to PPM.
package gas

import (
	"fmt"
	"math"

	"github.com/sweeney/flame-sensor/internal/adc"
)

// Model holds the MQ-2 regression parameters: PPM = A * (Rs/R0)^B, with
// Rs derived from the measured voltage across the load resistor.
type Model struct {
	A    float64 // regression coefficient
	B    float64 // regression exponent
	R0   float64 // clean-air reference resistance, kOhm (from calibration)
	RL   float64 // load resistor, kOhm
	VccV float64 // supply voltage, volts
}

// DefaultModel carries the calibration constants for the deployed MQ-2.
// R0 must be re-measured when the sensor is replaced.
var DefaultModel = Model{
	A:    3697.4,
	B:    -3.109,
	R0:   32.95,
	RL:   10,
	VccV: 5,
}

// Sensor computes smoke PPM from one ADC channel.
type Sensor struct {
	src     adc.Source
	channel int
	model   Model
}

// NewSensor creates a gas sensor reading the given ADC channel.
func NewSensor(src adc.Source, channel int, model Model) *Sensor {
	return &Sensor{src: src, channel: channel, model: model}
}

// ReadPPM returns the current smoke concentration in PPM. Results are clamped
// to zero; the regression can go slightly negative near clean air.
func (s *Sensor) ReadPPM() (float64, error) {
	mv, err := s.src.ReadVoltage(s.channel)
	if err != nil {
		return 0, fmt.Errorf("read gas channel: %w", err)
	}
	return s.model.PPM(float64(mv) / 1000), nil
}

// PPM converts a sensor output voltage (volts) to smoke PPM.
func (m Model) PPM(volts float64) float64 {
	if volts <= 0 {
		return 0
	}
	// Voltage divider: Rs = (Vcc*RL)/V - RL
	rs := (m.VccV*m.RL)/volts - m.RL
	if rs <= 0 {
		// Saturated sensor output; floor Rs so the regression stays finite.
		rs = 0.001
	}
	ppm := m.A * math.Pow(rs/m.R0, m.B)
	if ppm < 0 || math.IsNaN(ppm) {
		return 0
	}
	return ppm
}
