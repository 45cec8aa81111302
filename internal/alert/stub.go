//go:build !linux

package alert

import (
	"errors"

	"github.com/sweeney/flame-sensor/internal/alarm"
)

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(pins Pins) (*RealOutputs, error) {
	return nil, errors.New("alert: not supported on this platform (requires Linux)")
}

// Apply is not implemented on non-Linux platforms.
func (o *RealOutputs) Apply(level alarm.Level) error {
	return errors.New("alert: not supported")
}

// Close is not implemented on non-Linux platforms.
func (o *RealOutputs) Close() error {
	return nil
}
