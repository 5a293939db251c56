package gps

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const (
	validRMC    = "$GPRMC,140509,A,4043.000,N,07359.000,W,022.4,084.4,100526,003.1,W*7A"
	invalidRMC  = "$GPRMC,140509,V,4043.000,N,07359.000,W,022.4,084.4,100526,003.1,W*6D"
	ggaSentence = "$GPGGA,140509,4043.000,N,07359.000,W,1,08,0.9,10.0,M,-34.0,M,,*48"
	centuryRMC  = "$GPRMC,000001,A,4807.038,N,01131.000,E,022.4,084.4,010100,003.1,W*69"
	badChecksum = "$GPRMC,140509,A,4043.000,N,07359.000,W,022.4,084.4,100526,003.1,W*00"
)

func TestParseRMCTime(t *testing.T) {
	utc, ok := parseRMCTime(validRMC)
	if !ok {
		t.Fatal("valid RMC sentence rejected")
	}
	want := time.Date(2026, 5, 10, 14, 5, 9, 0, time.UTC)
	if !utc.Equal(want) {
		t.Errorf("parsed %v, want %v", utc, want)
	}
}

func TestParseRMCTimeRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"invalid-data flag", invalidRMC},
		{"non-RMC sentence", ggaSentence},
		{"bad checksum", badChecksum},
		{"garbage", "not an nmea sentence"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseRMCTime(tt.line); ok {
				t.Errorf("sentence %q should be rejected", tt.line)
			}
		})
	}
}

func TestParseRMCTimeCentury(t *testing.T) {
	// Two-digit year 00 maps to 2000.
	utc, ok := parseRMCTime(centuryRMC)
	if !ok {
		t.Fatal("sentence rejected")
	}
	if utc.Year() != 2000 {
		t.Errorf("year %d, want 2000", utc.Year())
	}
}

func TestClockUnsynced(t *testing.T) {
	c := NewClock()
	if c.Synced() {
		t.Error("new clock should not be synced")
	}
	if !c.Now().IsZero() {
		t.Error("unsynced clock should return the zero time")
	}
}

func TestResyncSkipsInvalidSentences(t *testing.T) {
	c := NewClock()
	r := NewFakeReceiver(invalidRMC, ggaSentence, badChecksum, validRMC)

	if err := c.Resync(r); err != nil {
		t.Fatalf("Resync: %v", err)
	}
	if !c.Synced() {
		t.Fatal("clock should be synced")
	}

	base := time.Date(2026, 5, 10, 14, 5, 9, 0, time.UTC)
	now := c.Now()
	if now.Before(base) || now.After(base.Add(time.Second)) {
		t.Errorf("Now() = %v, want within 1s after %v", now, base)
	}
}

func TestResyncPropagatesReceiverError(t *testing.T) {
	c := NewClock()
	r := NewFakeReceiver(invalidRMC) // script exhausts, then io.EOF

	if err := c.Resync(r); err == nil {
		t.Error("expected error when the receiver fails")
	}
	if c.Synced() {
		t.Error("clock should remain unsynced after a failed resync")
	}

	r2 := &FakeReceiver{ReadError: errors.New("port gone")}
	if err := c.Resync(r2); err == nil {
		t.Error("expected hard receiver error to propagate")
	}
}

func TestClockAdvances(t *testing.T) {
	c := NewClock()
	base := time.Date(2026, 5, 10, 14, 5, 9, 0, time.UTC)
	c.Set(base)

	a := c.Now()
	time.Sleep(10 * time.Millisecond)
	b := c.Now()
	if !b.After(a) {
		t.Error("clock should advance between reads")
	}
}

func TestSentenceReaderLines(t *testing.T) {
	sr := sentenceReader{src: strings.NewReader("$A\r\n\r\n$B\n")}

	line, err := sr.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}
	if line != "$A" {
		t.Errorf("first line %q, want %q", line, "$A")
	}

	line, err = sr.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}
	if line != "$B" {
		t.Errorf("second line %q, want %q", line, "$B")
	}

	if _, err := sr.readLine(); err == nil {
		t.Error("expected error at end of stream")
	}
}

func TestSentenceReaderDiscardsOversizedLines(t *testing.T) {
	long := strings.Repeat("x", sentenceBufSize+40)
	sr := sentenceReader{src: strings.NewReader(long + "\n" + validRMC + "\n")}

	line, err := sr.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}
	if line != validRMC {
		t.Errorf("oversized line should be discarded, got %q", line)
	}
}
