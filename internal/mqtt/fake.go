package mqtt

import "github.com/sweeney/flame-sensor/internal/alarm"

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// FlameEvents contains all flame events that were published.
	FlameEvents []FlameEvent

	// FlamePayloads contains the JSON payloads for flame events.
	FlamePayloads [][]byte

	// AlarmEvents contains all alarm events that were published.
	AlarmEvents []alarm.Event

	// AlarmPayloads contains the JSON payloads for alarm events.
	AlarmPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishFlame and PublishAlarm.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishFlame records the flame event.
func (f *FakePublisher) PublishFlame(event FlameEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.FlameEvents = append(f.FlameEvents, event)

	payload, err := FormatFlamePayload(event)
	if err != nil {
		return err
	}
	f.FlamePayloads = append(f.FlamePayloads, payload)

	return nil
}

// PublishAlarm records the alarm event.
func (f *FakePublisher) PublishAlarm(event alarm.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.AlarmEvents = append(f.AlarmEvents, event)

	payload, err := FormatAlarmPayload(event)
	if err != nil {
		return err
	}
	f.AlarmPayloads = append(f.AlarmPayloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.FlameEvents = nil
	f.FlamePayloads = nil
	f.AlarmEvents = nil
	f.AlarmPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
