//go:build linux

package adc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IIOSource reads voltages from a Linux Industrial I/O ADC via sysfs
// (e.g. an ADS1115 or MCP3008 exposed as /sys/bus/iio/devices/iio:deviceN).
type IIOSource struct {
	dir      string
	channels []int     // logical channel -> in_voltageN index
	scales   []float64 // mV per raw LSB, per logical channel
}

// NewIIOSource creates a source over the given IIO device directory. channels
// maps each logical channel to the device's in_voltageN index. The per-channel
// scale is read once at open; IIO defines raw * scale = millivolts.
func NewIIOSource(dir string, channels []int) (*IIOSource, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("open iio device %s: %w", dir, err)
	}

	s := &IIOSource{
		dir:      dir,
		channels: append([]int(nil), channels...),
		scales:   make([]float64, len(channels)),
	}

	for i, idx := range channels {
		scale, err := s.readScale(idx)
		if err != nil {
			return nil, fmt.Errorf("read scale for in_voltage%d: %w", idx, err)
		}
		s.scales[i] = scale
	}

	return s, nil
}

// readScale returns the mV-per-LSB scale for a voltage index, falling back to
// the device-wide in_voltage_scale when there is no per-channel attribute.
func (s *IIOSource) readScale(idx int) (float64, error) {
	for _, name := range []string{
		fmt.Sprintf("in_voltage%d_scale", idx),
		"in_voltage_scale",
	} {
		v, err := s.readFloat(name)
		if err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no scale attribute")
}

// ReadVoltage reads the instantaneous voltage on a logical channel in
// millivolts.
func (s *IIOSource) ReadVoltage(channel int) (int, error) {
	if channel < 0 || channel >= len(s.channels) {
		return 0, fmt.Errorf("adc: channel %d out of range", channel)
	}

	raw, err := s.readFloat(fmt.Sprintf("in_voltage%d_raw", s.channels[channel]))
	if err != nil {
		return 0, fmt.Errorf("read channel %d: %w", channel, err)
	}

	return int(raw * s.scales[channel]), nil
}

func (s *IIOSource) readFloat(name string) (float64, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
}

// Close releases ADC resources. Sysfs needs no teardown; kept for interface
// symmetry with other sources.
func (s *IIOSource) Close() error {
	return nil
}
