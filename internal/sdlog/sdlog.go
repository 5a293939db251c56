// Package sdlog appends line-oriented detection records to the SD-card
// log. Every operation opens, writes, syncs, and closes the file so that
// an abrupt power loss can cost at most the record being written. The one
// permitted in-place write is the liveness line immediately after the most
// recent START marker.
package sdlog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sweeney/footpath-counter/internal/wave"
)

// SessionMarker is the literal line that opens each power-on session.
// Consumers locate the most recent liveness anchor by scanning for it.
const SessionMarker = "START"

// livenessLen is the fixed byte length of a liveness line including the
// trailing newline. The line must be fixed-width so overwriting the
// anchor slot never grows or shifts the file.
const livenessLen = len("MM,DD,YYYY,HH,MM,SS\n")

// Log writes session, liveness, and direction records to a single file.
// It holds no open handle between operations.
type Log struct {
	path   string
	anchor int64 // byte offset of the liveness slot; -1 until a session starts
}

// New creates a Log for the given file path. No I/O happens until the
// first operation.
func New(path string) *Log {
	return &Log{path: path, anchor: -1}
}

// LogSessionStart appends the START marker and records the offset just
// after it as the anchor for liveness updates.
func (l *Log) LogSessionStart() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, SessionMarker); err != nil {
		return fmt.Errorf("write session marker: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}

	off, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("locate liveness anchor: %w", err)
	}
	l.anchor = off
	return nil
}

// LogLiveness writes the current local timestamp into the liveness slot,
// in place. Repeated calls always target the same offset; the file grows
// only on the first call after a session start.
func (l *Log) LogLiveness(local time.Time) error {
	if l.anchor < 0 {
		return fmt.Errorf("log liveness: no session started")
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	line := timestampLine(local)
	if _, err := f.WriteAt([]byte(line), l.anchor); err != nil {
		return fmt.Errorf("write liveness: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	return nil
}

// LogDirection appends a direction record.
func (l *Log) LogDirection(dir wave.Direction, local time.Time) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s,%s", dir, timestampLine(local)); err != nil {
		return fmt.Errorf("write direction: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	return nil
}

// timestampLine formats a local time as the fixed-width log line
// MM,DD,YYYY,HH,MM,SS with a trailing newline.
func timestampLine(t time.Time) string {
	return fmt.Sprintf("%02d,%02d,%04d,%02d,%02d,%02d\n",
		int(t.Month()), t.Day(), t.Year(), t.Hour(), t.Minute(), t.Second())
}
