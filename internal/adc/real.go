//go:build linux

package adc

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// RealReader reads the PIR voltage from an ADS1115 on the I2C bus.
type RealReader struct {
	bus i2c.BusCloser
	pin ads1x15.PinADC
}

// NewRealReader opens the default I2C bus and configures channel 0 of the
// ADS1115 for the 0-5V sensor range.
func NewRealReader() (*RealReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open i2c bus: %w", err)
	}

	dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ads1115: %w", err)
	}

	// 5V needs the 6.144V full-scale range; 250Hz comfortably covers the
	// poll rate.
	pin, err := dev.PinForChannel(ads1x15.Channel0, 6*physic.Volt, 250*physic.Hertz, ads1x15.BestQuality)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("configure adc channel: %w", err)
	}

	return &RealReader{bus: bus, pin: pin}, nil
}

// Read returns one clamped sample in volts.
func (r *RealReader) Read() (float64, error) {
	sample, err := r.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("read adc: %w", err)
	}
	return ClampVolts(voltsOf(sample)), nil
}

// Close releases the ADC pin and the I2C bus.
func (r *RealReader) Close() error {
	var errs []error
	if r.pin != nil {
		if err := r.pin.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt adc pin: %w", err))
		}
	}
	if r.bus != nil {
		if err := r.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func voltsOf(s analog.Sample) float64 {
	return float64(s.V) / float64(physic.Volt)
}
