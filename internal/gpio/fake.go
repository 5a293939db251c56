package gpio

import "github.com/sweeney/footpath-counter/internal/wave"

// FakePulser records pulses for test assertions.
type FakePulser struct {
	// Pulses contains the directions pulsed, in order.
	Pulses []wave.Direction

	// PulseError, if set, will be returned by Pulse.
	PulseError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePulser creates a FakePulser for testing.
func NewFakePulser() *FakePulser {
	return &FakePulser{}
}

// Pulse records the direction.
func (p *FakePulser) Pulse(dir wave.Direction) error {
	if p.PulseError != nil {
		return p.PulseError
	}
	p.Pulses = append(p.Pulses, dir)
	return nil
}

// Close marks the pulser as closed.
func (p *FakePulser) Close() error {
	p.Closed = true
	return nil
}

// Reset clears recorded pulses.
func (p *FakePulser) Reset() {
	p.Pulses = nil
	p.PulseError = nil
	p.Closed = false
}
