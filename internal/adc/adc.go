// Package adc provides analog sensor input with hardware abstraction.
// The real implementation reads the PIR output through an ADS1115 over
// I2C. The fake implementation allows testing without hardware.
package adc

// Reader reads the PIR sensor voltage.
type Reader interface {
	// Read returns one sample in volts on the 0-5 scale.
	Read() (float64, error)

	// Close releases ADC resources.
	Close() error
}

// Voltage bounds of the sensor scale. Readings are clamped here before
// they reach the classifier, so out-of-range hardware values cannot
// disturb the state machine.
const (
	MinVolts = 0.0
	MaxVolts = 5.0
)

// ClampVolts bounds a reading to the sensor scale.
func ClampVolts(v float64) float64 {
	if v < MinVolts {
		return MinVolts
	}
	if v > MaxVolts {
		return MaxVolts
	}
	return v
}
