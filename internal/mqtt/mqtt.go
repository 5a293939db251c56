// Package mqtt provides optional uplink publishing with abstraction for
// testing. The node is fully functional without a broker: the SD-card log
// is the system of record, MQTT only mirrors it for live dashboards.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/footpath-counter/internal/wave"
)

// Topic is the MQTT topic for direction events.
const Topic = "traffic/footpath/sensor/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "traffic/footpath/sensor/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a direction event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event wave.Event, local time.Time) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Footpath FootpathPayload `json:"footpath"`
}

// FootpathPayload contains the direction event details. LocalTime carries
// the same civil timestamp written to the SD-card log.
type FootpathPayload struct {
	Timestamp string `json:"timestamp"`
	LocalTime string `json:"local_time"`
	Direction string `json:"direction"`
}

// FormatPayload creates the JSON payload for a direction event.
func FormatPayload(event wave.Event, local time.Time) ([]byte, error) {
	payload := Payload{
		Footpath: FootpathPayload{
			Timestamp: event.Time.UTC().Format(time.RFC3339),
			LocalTime: local.Format("2006-01-02T15:04:05"),
			Direction: string(event.Direction),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
