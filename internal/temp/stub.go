//go:build !linux

package temp

import "errors"

// HwmonSource is not available on non-Linux platforms.
type HwmonSource struct{}

// NewHwmonSource returns an error on non-Linux platforms.
func NewHwmonSource(path string) (*HwmonSource, error) {
	return nil, errors.New("temp: not supported on this platform (requires Linux hwmon)")
}

// ReadCelsius is not implemented on non-Linux platforms.
func (s *HwmonSource) ReadCelsius() (float64, error) {
	return 0, errors.New("temp: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *HwmonSource) Close() error {
	return nil
}
