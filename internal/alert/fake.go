package alert

import "github.com/sweeney/flame-sensor/internal/alarm"

// FakeOutputs records applied alarm levels for test assertions.
type FakeOutputs struct {
	// Applied contains every level passed to Apply, in order.
	Applied []alarm.Level

	// ApplyError, if set, will be returned by Apply.
	ApplyError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs for testing.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// Apply records the level.
func (f *FakeOutputs) Apply(level alarm.Level) error {
	if f.ApplyError != nil {
		return f.ApplyError
	}
	f.Applied = append(f.Applied, level)
	return nil
}

// Last returns the most recently applied level, or LevelSafe if none.
func (f *FakeOutputs) Last() alarm.Level {
	if len(f.Applied) == 0 {
		return alarm.LevelSafe
	}
	return f.Applied[len(f.Applied)-1]
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.Closed = true
	return nil
}
