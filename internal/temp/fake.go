package temp

// FakeSource is a test double returning a settable temperature.
type FakeSource struct {
	// Celsius is the value returned by ReadCelsius.
	Celsius float64

	// ReadError, if set, will be returned by ReadCelsius.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSource creates a FakeSource at the given temperature.
func NewFakeSource(celsius float64) *FakeSource {
	return &FakeSource{Celsius: celsius}
}

// ReadCelsius returns the configured temperature.
func (f *FakeSource) ReadCelsius() (float64, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	return f.Celsius, nil
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
