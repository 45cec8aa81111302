//go:build !linux

package adc

import "errors"

// IIOSource is not available on non-Linux platforms.
type IIOSource struct{}

// NewIIOSource returns an error on non-Linux platforms.
func NewIIOSource(dir string, channels []int) (*IIOSource, error) {
	return nil, errors.New("adc: not supported on this platform (requires Linux IIO)")
}

// ReadVoltage is not implemented on non-Linux platforms.
func (s *IIOSource) ReadVoltage(channel int) (int, error) {
	return 0, errors.New("adc: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *IIOSource) Close() error {
	return nil
}
