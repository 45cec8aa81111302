//go:build linux

package temp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// HwmonSource reads temperature from a Linux hwmon sysfs attribute
// (e.g. /sys/class/hwmon/hwmon0/temp1_input, millidegrees Celsius).
type HwmonSource struct {
	path string
}

// NewHwmonSource creates a source reading the given temp*_input file.
func NewHwmonSource(path string) (*HwmonSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open hwmon sensor %s: %w", path, err)
	}
	return &HwmonSource{path: path}, nil
}

// ReadCelsius returns the current temperature in degrees Celsius.
func (s *HwmonSource) ReadCelsius() (float64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("read temperature: %w", err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse temperature: %w", err)
	}
	return milli / 1000, nil
}

// Close releases sensor resources. Sysfs needs no teardown.
func (s *HwmonSource) Close() error {
	return nil
}
