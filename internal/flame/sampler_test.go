package flame

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/flame-sensor/internal/adc"
)

// newSamplerDetector builds a detector with real oversampling but no real
// sleeping, reading from the given fake source.
func newSamplerDetector(src *adc.FakeSource) *Detector {
	return NewDetector(src, Config{
		Sleep: func(time.Duration) {},
		Now:   func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestSamplerConstantValue(t *testing.T) {
	src := adc.NewFakeSource()
	src.Set(0, 1500)
	d := newSamplerDetector(src)

	got := d.sampleChannel(0)
	if got != 1500 {
		t.Errorf("constant 1500 mV input: got %d", got)
	}
	if src.Reads[0] != DefaultOversampling {
		t.Errorf("expected %d raw reads, got %d", DefaultOversampling, src.Reads[0])
	}
}

func TestSamplerAlternatingMean(t *testing.T) {
	src := adc.NewFakeSource()
	for i := 0; i < DefaultOversampling/2; i++ {
		src.Queue(1, 1000, 2000)
	}
	d := newSamplerDetector(src)

	got := d.sampleChannel(1)
	if got != 1500 {
		t.Errorf("alternating 1000/2000 mV: got %d, want mean 1500", got)
	}
}

func TestSamplerMeanTruncation(t *testing.T) {
	src := adc.NewFakeSource()
	for i := 0; i < DefaultOversampling/2; i++ {
		src.Queue(2, 1000, 1001)
	}
	d := newSamplerDetector(src)

	// Mean is 1000.5; integer truncation yields 1000.
	got := d.sampleChannel(2)
	if got != 1000 {
		t.Errorf("alternating 1000/1001 mV: got %d, want 1000", got)
	}
}

func TestSamplerInvalidChannel(t *testing.T) {
	src := adc.NewFakeSource()
	src.Set(0, 1500)
	d := newSamplerDetector(src)

	for _, ch := range []int{-1, NumChannels, NumChannels + 3} {
		if got := d.sampleChannel(ch); got != 0 {
			t.Errorf("channel %d: got %d, want 0", ch, got)
		}
	}
	if len(src.Reads) != 0 {
		t.Error("invalid channel should not touch the source")
	}
}

func TestSamplerReadErrorAbsorbed(t *testing.T) {
	src := adc.NewFakeSource()
	src.ReadError = errors.New("adc glitch")
	d := newSamplerDetector(src)

	// Every raw read fails; the average of zero contributions is 0.
	if got := d.sampleChannel(0); got != 0 {
		t.Errorf("all reads failing: got %d, want 0", got)
	}
}

func TestSamplerSettlesBetweenReads(t *testing.T) {
	src := adc.NewFakeSource()
	src.Set(0, 1000)

	sleeps := 0
	d := NewDetector(src, Config{
		Sleep: func(d time.Duration) {
			if d != DefaultSettleDelay {
				t.Errorf("settle delay: got %v, want %v", d, DefaultSettleDelay)
			}
			sleeps++
		},
	})

	d.sampleChannel(0)
	if sleeps != DefaultOversampling {
		t.Errorf("expected %d settle pauses, got %d", DefaultOversampling, sleeps)
	}
}
