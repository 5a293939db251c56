// Package status provides a thread-safe status tracker for the
// footpath-counter daemon. It is read by the HTTP status handlers and by
// the MQTT system-event payload builder.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/footpath-counter/internal/wave"
)

// NetworkInfo contains network state reported by the host.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int64
	StallMs    int64
	LivenessMs int64
	WarmupMs   int64
	Broker     string
	HTTPPort   string
	LogPath    string
	SerialPort string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	LastDirection wave.Direction // empty until the first event
	LastEventAt   time.Time
	Counts        wave.EventCounts
	WarmedUp      bool
	GPSSynced     bool
	LastResync    time.Time
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordEvent notes a confirmed direction event.
func (t *Tracker) RecordEvent(dir wave.Direction, at time.Time, counts wave.EventCounts) {
	t.mu.Lock()
	t.snap.LastDirection = dir
	t.snap.LastEventAt = at
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetWarmedUp marks the sensor warm-up as complete.
func (t *Tracker) SetWarmedUp(warmed bool) {
	t.mu.Lock()
	t.snap.WarmedUp = warmed
	t.mu.Unlock()
}

// RecordResync notes a completed GPS time resync.
func (t *Tracker) RecordResync(at time.Time) {
	t.mu.Lock()
	t.snap.GPSSynced = true
	t.snap.LastResync = at
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
