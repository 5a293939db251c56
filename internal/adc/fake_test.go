package adc

import (
	"errors"
	"testing"
)

func TestClampVolts(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.5, 2.5},
		{0.0, 0.0},
		{5.0, 5.0},
		{-0.3, 0.0},
		{5.7, 5.0},
	}

	for _, tt := range tests {
		if got := ClampVolts(tt.in); got != tt.want {
			t.Errorf("ClampVolts(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFakeReaderRead(t *testing.T) {
	f := NewFakeReader([]float64{2.5, 3.2, 1.5})

	for i, want := range []float64{2.5, 3.2, 1.5} {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, got)
		}
	}

	// Fourth read should repeat the last sample.
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1.5 {
		t.Errorf("repeat read: expected 1.5, got %v", got)
	}
}

func TestFakeReaderClamps(t *testing.T) {
	f := NewFakeReader([]float64{-1.0, 6.0})

	got, _ := f.Read()
	if got != 0.0 {
		t.Errorf("expected clamp to 0.0, got %v", got)
	}
	got, _ = f.Read()
	if got != 5.0 {
		t.Errorf("expected clamp to 5.0, got %v", got)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]float64{2.5})
	f.ReadError = errors.New("simulated error")

	if _, err := f.Read(); err == nil {
		t.Error("expected error to be returned")
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewFakeReader([]float64{2.5})

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]float64{2.5, 3.2})

	f.Read()
	f.Reset()

	got, _ := f.Read()
	if got != 2.5 {
		t.Errorf("after reset: expected 2.5, got %v", got)
	}
}
