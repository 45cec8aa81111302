package adc

import (
	"errors"
	"testing"
)

func TestFakeSourceLevels(t *testing.T) {
	f := NewFakeSource()
	f.Set(0, 1200)
	f.Set(3, 980)

	for i := 0; i < 3; i++ {
		mv, err := f.ReadVoltage(0)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if mv != 1200 {
			t.Errorf("read %d: got %d, want 1200", i, mv)
		}
	}

	mv, err := f.ReadVoltage(3)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mv != 980 {
		t.Errorf("channel 3: got %d, want 980", mv)
	}
}

func TestFakeSourceQueueBeforeLevel(t *testing.T) {
	f := NewFakeSource()
	f.Set(1, 500)
	f.Queue(1, 1000, 2000)

	want := []int{1000, 2000, 500, 500}
	for i, w := range want {
		mv, err := f.ReadVoltage(1)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if mv != w {
			t.Errorf("read %d: got %d, want %d", i, mv, w)
		}
	}
}

func TestFakeSourceUnconfiguredChannel(t *testing.T) {
	f := NewFakeSource()
	if _, err := f.ReadVoltage(2); err == nil {
		t.Error("expected error for unconfigured channel")
	}
}

func TestFakeSourceReadError(t *testing.T) {
	f := NewFakeSource()
	f.Set(0, 1000)
	f.ReadError = errors.New("bus fault")

	if _, err := f.ReadVoltage(0); err == nil {
		t.Error("expected configured error")
	}
}

func TestFakeSourceCountsReads(t *testing.T) {
	f := NewFakeSource()
	f.Set(0, 1000)
	f.Set(1, 1000)

	f.ReadVoltage(0)
	f.ReadVoltage(0)
	f.ReadVoltage(1)

	if f.Reads[0] != 2 {
		t.Errorf("channel 0 reads: got %d, want 2", f.Reads[0])
	}
	if f.Reads[1] != 1 {
		t.Errorf("channel 1 reads: got %d, want 1", f.Reads[1])
	}
}

func TestFakeSourceClose(t *testing.T) {
	f := NewFakeSource()
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !f.Closed {
		t.Error("Closed should be true after Close")
	}
}
