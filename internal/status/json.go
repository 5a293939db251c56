package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	LastDirection string       `json:"last_direction"`
	LastEventAt   string       `json:"last_event_at,omitempty"`
	Ready         bool         `json:"ready"`
	GPSSynced     bool         `json:"gps_synced"`
	LastResync    string       `json:"last_resync,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs     int64  `json:"poll_ms"`
	StallMs    int64  `json:"stall_ms"`
	LivenessMs int64  `json:"liveness_ms"`
	WarmupMs   int64  `json:"warmup_ms"`
	Broker     string `json:"broker"`
	HTTPPort   string `json:"http_port"`
	LogPath    string `json:"log_path"`
	SerialPort string `json:"serial_port"`
}

func buildInner(snap Snapshot) StatusInner {
	dir := string(snap.LastDirection)
	if dir == "" {
		dir = "NONE"
	}

	inner := StatusInner{
		LastDirection: dir,
		Ready:         snap.WarmedUp,
		GPSSynced:     snap.GPSSynced,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Left:  snap.Counts.Left,
			Right: snap.Counts.Right,
		},
		Config: ConfigJSON{
			PollMs:     snap.Config.PollMs,
			StallMs:    snap.Config.StallMs,
			LivenessMs: snap.Config.LivenessMs,
			WarmupMs:   snap.Config.WarmupMs,
			Broker:     snap.Config.Broker,
			HTTPPort:   snap.Config.HTTPPort,
			LogPath:    snap.Config.LogPath,
			SerialPort: snap.Config.SerialPort,
		},
	}

	if !snap.LastEventAt.IsZero() {
		inner.LastEventAt = snap.LastEventAt.UTC().Format(time.RFC3339)
	}
	if !snap.LastResync.IsZero() {
		inner.LastResync = snap.LastResync.UTC().Format(time.RFC3339)
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
