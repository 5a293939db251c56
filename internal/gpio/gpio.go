// Package gpio drives the direction indicator outputs with hardware
// abstraction. The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/footpath-counter/internal/wave"
)

// Pulser pulses an indicator line on each confirmed direction event. The
// indicators are purely observational; nothing reads them back.
type Pulser interface {
	// Pulse drives the indicator for the given direction high for the
	// configured pulse width. The call blocks for the pulse duration.
	Pulse(dir wave.Direction) error

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinLeft  = 26 // left-to-right indicator
	DefaultPinRight = 16 // right-to-left indicator
)

// DefaultPulseWidth is how long an indicator stays lit per event.
const DefaultPulseWidth = 50 * time.Millisecond
