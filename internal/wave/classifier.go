package wave

import "time"

// Classifier consumes one Sample per poll and emits at most one Event per
// completed directional wave. All state between polls lives here; no other
// component reads or writes it.
type Classifier struct {
	high         float64
	low          float64
	stallTimeout time.Duration

	stage         stage
	firstCrossing time.Time
	lastCrossing  time.Time
	pending       Event // confirmed event held until the signal drains

	startTime    time.Time
	counts       EventCounts
	lastLiveness time.Time
}

// NewClassifier creates a classifier with the given thresholds and stall
// timeout. The startTime is used for calculating uptime in liveness data.
func NewClassifier(high, low float64, stallTimeout time.Duration, startTime time.Time) *Classifier {
	return &Classifier{
		high:         high,
		low:          low,
		stallTimeout: stallTimeout,
		startTime:    startTime,
		lastLiveness: startTime,
	}
}

// Process feeds one sample through the state machine. It returns a non-nil
// Event when a directional wave has completed AND the signal has cleared
// the threshold band, nil otherwise. Samples inside the neutral band do
// not advance either family; they only feed the stall check.
func (c *Classifier) Process(s Sample) *Event {
	switch c.stage {
	case idle:
		if s.Volts >= c.high {
			c.begin(high1, s.Time)
		} else if s.Volts < c.low {
			c.begin(low1, s.Time)
		}
		return nil

	case drainHigh:
		// No timeout here: the wave is already confirmed, we only wait for
		// the excursion to end so it cannot start a second sequence.
		if s.Volts < c.high {
			return c.commit()
		}
		return nil

	case drainLow:
		if s.Volts > c.low {
			return c.commit()
		}
		return nil
	}

	// Tracking stages. A wave that sits between crossings past the stall
	// timeout is a partial wave (or a stuck sensor) and is discarded. The
	// first plateau is measured from the wave's first crossing; later
	// stages from the most recent crossing, so a slow but live wave is not
	// cut off mid-sequence.
	ref := c.lastCrossing
	if c.stage == high2 || c.stage == low2 {
		ref = c.firstCrossing
	}
	if s.Time.Sub(ref) > c.stallTimeout {
		c.reset()
		return nil
	}

	switch c.stage {
	case high1:
		if s.Volts < c.low {
			c.reset() // opposite family mid-sequence: nonsensical input
		} else if s.Volts < c.high {
			c.advance(high2, s.Time)
		}
	case high2:
		if s.Volts < c.low {
			c.reset()
		} else if s.Volts >= c.high {
			c.advance(high3, s.Time)
		}
	case high3:
		if s.Volts < c.low {
			c.reset()
		} else if s.Volts < c.high {
			c.advance(high4, s.Time)
		}
	case high4:
		if s.Volts < c.low {
			c.reset()
		} else if s.Volts >= c.high {
			c.confirm(Left, drainHigh, s.Time)
		}

	case low1:
		if s.Volts >= c.high {
			c.reset()
		} else if s.Volts > c.low {
			c.advance(low2, s.Time)
		}
	case low2:
		if s.Volts >= c.high {
			c.reset()
		} else if s.Volts < c.low {
			c.advance(low3, s.Time)
		}
	case low3:
		if s.Volts >= c.high {
			c.reset()
		} else if s.Volts > c.low {
			c.advance(low4, s.Time)
		}
	case low4:
		if s.Volts >= c.high {
			c.reset()
		} else if s.Volts < c.low {
			c.confirm(Right, drainLow, s.Time)
		}
	}

	return nil
}

// begin starts tracking a new wave. Both crossing timestamps are set, so
// the idle-iff-zero invariant holds.
func (c *Classifier) begin(st stage, t time.Time) {
	c.stage = st
	c.firstCrossing = t
	c.lastCrossing = t
}

// advance records a threshold crossing within the current family.
func (c *Classifier) advance(st stage, t time.Time) {
	c.stage = st
	c.lastCrossing = t
}

// confirm records a completed wave and enters the drain stage.
func (c *Classifier) confirm(dir Direction, drain stage, t time.Time) {
	c.pending = Event{Direction: dir, Time: t}
	c.advance(drain, t)
}

// commit emits the pending event and returns the machine to idle.
func (c *Classifier) commit() *Event {
	ev := c.pending
	c.reset()

	switch ev.Direction {
	case Left:
		c.counts.Left++
	case Right:
		c.counts.Right++
	}
	return &ev
}

// reset returns the machine to idle and clears both crossing timestamps.
func (c *Classifier) reset() {
	c.stage = idle
	c.firstCrossing = time.Time{}
	c.lastCrossing = time.Time{}
	c.pending = Event{}
}

// Idle reports whether no wave is currently being tracked.
func (c *Classifier) Idle() bool {
	return c.stage == idle
}

// Counts returns the confirmed event counts since startup.
func (c *Classifier) Counts() EventCounts {
	return c.counts
}

// CheckLiveness returns liveness data if the interval has elapsed since
// the last liveness record (or startup). Returns nil if the interval has
// not elapsed or if interval is <= 0 (disabled).
func (c *Classifier) CheckLiveness(now time.Time, interval time.Duration) *LivenessData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastLiveness) < interval {
		return nil
	}

	c.lastLiveness = now
	return &LivenessData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
