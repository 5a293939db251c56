//go:build !linux

package gpio

import (
	"errors"
	"time"

	"github.com/sweeney/footpath-counter/internal/wave"
)

// RealPulser is not available on non-Linux platforms.
type RealPulser struct{}

// NewRealPulser returns an error on non-Linux platforms.
func NewRealPulser(pinLeft, pinRight int, width time.Duration) (*RealPulser, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Pulse is not implemented on non-Linux platforms.
func (p *RealPulser) Pulse(dir wave.Direction) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *RealPulser) Close() error {
	return nil
}
