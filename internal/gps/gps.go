// Package gps maintains the node's authoritative wall clock from a GPS
// receiver's NMEA stream. The receiver hardware is behind a narrow
// interface so the clock and parsing logic can be tested without a serial
// port.
package gps

import (
	"fmt"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// Receiver supplies raw NMEA sentences, one per call.
type Receiver interface {
	// ReadSentence blocks until a complete sentence is available.
	ReadSentence() (string, error)

	// Close releases the underlying input source.
	Close() error
}

// Clock holds the authoritative UTC time, anchored to the host's monotonic
// clock at the moment of the last resync. Correct time is a precondition
// for meaningful log records, so a Clock starts unsynced and Resync blocks
// without timeout.
type Clock struct {
	base   time.Time // UTC at the last resync
	ref    time.Time // host monotonic reference captured at the same moment
	synced bool
}

// NewClock returns an unsynced Clock.
func NewClock() *Clock {
	return &Clock{}
}

// Synced reports whether at least one resync has completed.
func (c *Clock) Synced() bool {
	return c.synced
}

// Now returns the current authoritative UTC time. It is the zero time
// until the first resync.
func (c *Clock) Now() time.Time {
	if !c.synced {
		return time.Time{}
	}
	return c.base.Add(time.Since(c.ref))
}

// Set anchors the clock to the given UTC instant.
func (c *Clock) Set(utc time.Time) {
	c.base = utc.UTC()
	c.ref = time.Now()
	c.synced = true
}

// Resync blocks until the receiver produces a valid RMC sentence and sets
// the clock from it. Malformed sentences, non-RMC sentences, and fixes
// flagged invalid are discarded; only a hard receiver error ends the wait.
func (c *Clock) Resync(r Receiver) error {
	for {
		line, err := r.ReadSentence()
		if err != nil {
			return fmt.Errorf("resync: %w", err)
		}

		utc, ok := parseRMCTime(line)
		if !ok {
			continue
		}
		c.Set(utc)
		return nil
	}
}

// parseRMCTime extracts the UTC date and time from an RMC sentence.
// Sentences that fail checksum or parsing, carry the invalid-data flag, or
// lack date/time fields report ok=false.
func parseRMCTime(line string) (time.Time, bool) {
	s, err := nmea.Parse(line)
	if err != nil {
		return time.Time{}, false
	}

	rmc, ok := s.(nmea.RMC)
	if !ok {
		return time.Time{}, false
	}
	if rmc.Validity != nmea.ValidRMC {
		return time.Time{}, false
	}
	if !rmc.Date.Valid || !rmc.Time.Valid {
		return time.Time{}, false
	}

	// RMC carries a two-digit year; GPS deployments of this node all
	// post-date 2000.
	return time.Date(2000+rmc.Date.YY, time.Month(rmc.Date.MM), rmc.Date.DD,
		rmc.Time.Hour, rmc.Time.Minute, rmc.Time.Second,
		rmc.Time.Millisecond*int(time.Millisecond), time.UTC), true
}
