//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/footpath-counter/internal/wave"
)

// RealPulser drives indicator LEDs on actual hardware using Linux GPIO
// character device.
type RealPulser struct {
	chip  *gpiocdev.Chip
	left  *gpiocdev.Line
	right *gpiocdev.Line
	width time.Duration
}

// NewRealPulser requests the two indicator lines as outputs, initially low.
func NewRealPulser(pinLeft, pinRight int, width time.Duration) (*RealPulser, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	leftLine, err := chip.RequestLine(pinLeft, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request left pin %d: %w", pinLeft, err)
	}

	rightLine, err := chip.RequestLine(pinRight, gpiocdev.AsOutput(0))
	if err != nil {
		leftLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request right pin %d: %w", pinRight, err)
	}

	return &RealPulser{
		chip:  chip,
		left:  leftLine,
		right: rightLine,
		width: width,
	}, nil
}

// Pulse drives the direction's line high for the pulse width, then low.
// Blocking here is deliberate: the single polling loop owns all timing,
// and an event has just been confirmed, so nothing is lost while the
// indicator is lit.
func (p *RealPulser) Pulse(dir wave.Direction) error {
	line := p.left
	if dir == wave.Right {
		line = p.right
	}

	if err := line.SetValue(1); err != nil {
		return fmt.Errorf("raise indicator %s: %w", dir, err)
	}
	time.Sleep(p.width)
	if err := line.SetValue(0); err != nil {
		return fmt.Errorf("lower indicator %s: %w", dir, err)
	}
	return nil
}

// Close lowers both lines and releases GPIO resources.
func (p *RealPulser) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{p.left, p.right} {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("lower line: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
