// Package wave contains the pure waveform-to-direction classifier for the
// PIR footpath sensor. This package has NO external dependencies (no ADC,
// GPIO, OS, or time.Sleep). Time is always injectable via time.Time
// parameters.
package wave

import "time"

// Direction is the inferred pedestrian travel direction.
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
)

// Default voltage thresholds bounding the neutral band, in volts.
// A crest-then-trough wave first crosses High; a trough-then-crest wave
// first crosses Low.
const (
	DefaultHighThreshold = 3.0
	DefaultLowThreshold  = 2.0
)

// DefaultStallTimeout bounds how long a tracked wave may wait between
// threshold crossings before it is discarded as a partial wave.
const DefaultStallTimeout = 1000 * time.Millisecond

// Sample is a single clamped analog reading on the 0-5V scale.
type Sample struct {
	Volts float64
	Time  time.Time
}

// Event is produced exactly once per fully-completed directional wave.
type Event struct {
	Direction Direction
	// Time is the instant of the confirming crossing, not the instant the
	// signal cleared the band afterwards.
	Time time.Time
}

// stage enumerates the classifier's progression markers. The high family
// tracks a crest-then-trough wave (left-to-right walker) through repeated
// crossings of the high threshold; the low family tracks trough-then-crest
// (right-to-left) through the low threshold. Stages alternate entry and
// exit edges of the same threshold; the even-numbered stages are plateaus
// waiting for the next re-entry. The drain stages hold the machine until
// the signal leaves the threshold band so a continued excursion cannot
// re-trigger a sequence.
type stage int

const (
	idle stage = iota
	high1
	high2 // plateau
	high3
	high4 // plateau
	drainHigh
	low1
	low2 // plateau
	low3
	low4 // plateau
	drainLow
)

// EventCounts tracks the number of confirmed events per direction since
// startup.
type EventCounts struct {
	Left  int
	Right int
}

// LivenessData contains information for a periodic liveness record.
type LivenessData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
