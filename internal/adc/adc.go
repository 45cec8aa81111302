// Package adc provides analog voltage reading with hardware abstraction.
// The real implementation reads Linux IIO sysfs attributes.
// The fake implementation allows testing without hardware.
package adc

// Source reads instantaneous channel voltages.
type Source interface {
	// ReadVoltage returns the voltage on the given logical channel in
	// millivolts.
	ReadVoltage(channel int) (int, error)

	// Close releases ADC resources.
	Close() error
}

// Default logical channel assignments. IR channels 0-4 map to the flame
// array; the gas sensor sits on its own channel.
const (
	DefaultIRChannels = 5
	DefaultGasChannel = 5
)
