// Package temp provides ambient temperature reading with hardware
// abstraction. The real implementation reads a Linux hwmon sysfs sensor.
package temp

// Unavailable is the sentinel returned when the probe cannot produce a
// reading. It is well outside any plausible ambient temperature.
const Unavailable = -999.0

// Source reads ambient temperature.
type Source interface {
	// ReadCelsius returns the current temperature in degrees Celsius.
	ReadCelsius() (float64, error)

	// Close releases sensor resources.
	Close() error
}

// SafeRead reads from src, mapping any failure to the Unavailable sentinel so
// callers never branch on an error mid-loop.
func SafeRead(src Source) float64 {
	t, err := src.ReadCelsius()
	if err != nil {
		return Unavailable
	}
	return t
}
