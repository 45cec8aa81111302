package adc

import "fmt"

// FakeSource is a test double that returns scripted voltages.
//
// Each channel has a steady Level; Queue can additionally enqueue a FIFO of
// one-shot readings that are consumed before the level is used again. This
// lets sampler tests script alternating raw reads while detector tests just
// set a level per tick.
type FakeSource struct {
	// Levels holds the steady millivolt value per channel.
	Levels map[int]int

	// queued one-shot readings per channel, consumed FIFO
	queues map[int][]int

	// ReadError, if set, will be returned by ReadVoltage.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool

	// Reads counts ReadVoltage calls per channel.
	Reads map[int]int
}

// NewFakeSource creates a FakeSource with all channels at 0 mV.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		Levels: make(map[int]int),
		queues: make(map[int][]int),
		Reads:  make(map[int]int),
	}
}

// Set sets the steady level for a channel.
func (f *FakeSource) Set(channel, mv int) {
	f.Levels[channel] = mv
}

// Queue enqueues one-shot readings for a channel. They are returned in order
// before the steady level applies again.
func (f *FakeSource) Queue(channel int, mvs ...int) {
	f.queues[channel] = append(f.queues[channel], mvs...)
}

// ReadVoltage returns the next scripted reading for the channel.
func (f *FakeSource) ReadVoltage(channel int) (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	f.Reads[channel]++

	if q := f.queues[channel]; len(q) > 0 {
		mv := q[0]
		f.queues[channel] = q[1:]
		return mv, nil
	}

	mv, ok := f.Levels[channel]
	if !ok {
		return 0, fmt.Errorf("adc fake: no level configured for channel %d", channel)
	}
	return mv, nil
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
