package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/footpath-counter/internal/adc"
	"github.com/sweeney/footpath-counter/internal/gpio"
	"github.com/sweeney/footpath-counter/internal/localtime"
	"github.com/sweeney/footpath-counter/internal/mqtt"
	"github.com/sweeney/footpath-counter/internal/sdlog"
	"github.com/sweeney/footpath-counter/internal/wave"
)

// simulate feeds the scripted voltages through a classifier at a 100ms poll
// interval, routing each confirmed event to the log, the indicator, and the
// publisher the way the daemon loop does.
func simulate(t *testing.T, volts []float64, start time.Time, store *sdlog.Log, pulser *gpio.FakePulser, pub *mqtt.FakePublisher) []wave.Event {
	t.Helper()

	reader := adc.NewFakeReader(volts)
	classifier := wave.NewClassifier(
		wave.DefaultHighThreshold, wave.DefaultLowThreshold,
		wave.DefaultStallTimeout, start)

	var events []wave.Event
	for i := range volts {
		v, err := reader.Read()
		if err != nil {
			t.Fatalf("sample %d: adc read error: %v", i, err)
		}

		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		event := classifier.Process(wave.Sample{Volts: v, Time: now})
		if event == nil {
			continue
		}
		events = append(events, *event)

		local := localtime.ToLocal(event.Time)
		if store != nil {
			if err := store.LogDirection(event.Direction, local); err != nil {
				t.Fatalf("sample %d: log error: %v", i, err)
			}
		}
		if pulser != nil {
			if err := pulser.Pulse(event.Direction); err != nil {
				t.Fatalf("sample %d: pulse error: %v", i, err)
			}
		}
		if pub != nil {
			if err := pub.Publish(*event, local); err != nil {
				t.Fatalf("sample %d: publish error: %v", i, err)
			}
		}
	}
	return events
}

// TestIntegrationFullFlow tests the complete flow from ADC samples to log,
// indicator, and MQTT using fakes.
func TestIntegrationFullFlow(t *testing.T) {
	// One left wave followed by one right wave.
	volts := []float64{
		2.5, // t=0      idle
		3.2, // t=100ms  first upward crossing
		2.5, // t=200ms
		3.2, // t=300ms
		2.5, // t=400ms
		3.2, // t=500ms  confirming crossing -> Left
		2.5, // t=600ms  signal clears, event emitted
		1.5, // t=700ms  first downward crossing
		2.5, // t=800ms
		1.5, // t=900ms
		2.5, // t=1000ms
		1.5, // t=1100ms confirming crossing -> Right
		2.5, // t=1200ms signal clears, event emitted
	}

	path := filepath.Join(t.TempDir(), "footpath.log")
	store := sdlog.New(path)
	if err := store.LogSessionStart(); err != nil {
		t.Fatalf("LogSessionStart: %v", err)
	}
	pulser := gpio.NewFakePulser()
	pub := mqtt.NewFakePublisher()

	// 2026-05-10 14:00 UTC is 10:00 EDT.
	start := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	events := simulate(t, volts, start, store, pulser, pub)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Direction != wave.Left {
		t.Errorf("event 0: expected L, got %s", events[0].Direction)
	}
	if !events[0].Time.Equal(start.Add(500 * time.Millisecond)) {
		t.Errorf("event 0: time = %v, want confirming crossing at +500ms", events[0].Time)
	}
	if events[1].Direction != wave.Right {
		t.Errorf("event 1: expected R, got %s", events[1].Direction)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "START\nL,05,10,2026,10,00,00\nR,05,10,2026,10,00,01\n"
	if string(data) != want {
		t.Errorf("log content = %q, want %q", data, want)
	}

	if len(pulser.Pulses) != 2 || pulser.Pulses[0] != wave.Left || pulser.Pulses[1] != wave.Right {
		t.Errorf("pulses = %v, want [L R]", pulser.Pulses)
	}

	// Verify JSON payloads
	for i, payload := range pub.Payloads {
		var parsed mqtt.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.Footpath.Timestamp == "" {
			t.Errorf("payload %d: missing timestamp", i)
		}
		if parsed.Footpath.Direction == "" {
			t.Errorf("payload %d: missing direction", i)
		}
	}
}

// TestIntegrationPartialWaveNoRecord verifies that a wave abandoned before
// its confirming crossing leaves no trace anywhere.
func TestIntegrationPartialWaveNoRecord(t *testing.T) {
	// Four crossings but no confirming fifth, then silence past the
	// stall timeout.
	volts := []float64{
		2.5, 3.2, 2.5, 3.2, 2.5, // partial wave
		2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5, // >1s of silence
	}

	path := filepath.Join(t.TempDir(), "footpath.log")
	store := sdlog.New(path)
	if err := store.LogSessionStart(); err != nil {
		t.Fatalf("LogSessionStart: %v", err)
	}
	pulser := gpio.NewFakePulser()
	pub := mqtt.NewFakePublisher()

	start := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	events := simulate(t, volts, start, store, pulser, pub)

	if len(events) != 0 {
		t.Fatalf("expected no events for partial wave, got %d", len(events))
	}
	if len(pub.Events) != 0 {
		t.Errorf("expected no published events, got %d", len(pub.Events))
	}
	if len(pulser.Pulses) != 0 {
		t.Errorf("expected no pulses, got %v", pulser.Pulses)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "START\n" {
		t.Errorf("log content = %q, want session marker only", data)
	}
}

// TestIntegrationLivenessAnchor verifies that the liveness record overwrites
// in place while direction records accumulate after it.
func TestIntegrationLivenessAnchor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "footpath.log")
	store := sdlog.New(path)
	if err := store.LogSessionStart(); err != nil {
		t.Fatalf("LogSessionStart: %v", err)
	}

	loc := time.FixedZone("EDT", -4*3600)
	if err := store.LogLiveness(time.Date(2026, 5, 10, 10, 0, 0, 0, loc)); err != nil {
		t.Fatalf("LogLiveness: %v", err)
	}
	if err := store.LogDirection(wave.Left, time.Date(2026, 5, 10, 10, 0, 5, 0, loc)); err != nil {
		t.Fatalf("LogDirection: %v", err)
	}
	if err := store.LogLiveness(time.Date(2026, 5, 10, 10, 1, 0, 0, loc)); err != nil {
		t.Fatalf("LogLiveness: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// The second liveness write lands on the first one's line; the
	// direction record after it is untouched.
	want := "START\n05,10,2026,10,01,00\nL,05,10,2026,10,00,05\n"
	if string(data) != want {
		t.Errorf("log content = %q, want %q", data, want)
	}
}

// TestIntegrationStorageFailureContinues verifies that a dead SD card does
// not stop classification or the MQTT mirror.
func TestIntegrationStorageFailureContinues(t *testing.T) {
	// A path whose parent does not exist: every write fails.
	store := sdlog.New(filepath.Join(t.TempDir(), "missing", "footpath.log"))

	volts := []float64{2.5, 3.2, 2.5, 3.2, 2.5, 3.2, 2.5}
	reader := adc.NewFakeReader(volts)
	start := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	classifier := wave.NewClassifier(
		wave.DefaultHighThreshold, wave.DefaultLowThreshold,
		wave.DefaultStallTimeout, start)
	pub := mqtt.NewFakePublisher()

	var logErrs int
	for i := range volts {
		v, err := reader.Read()
		if err != nil {
			t.Fatalf("sample %d: adc read error: %v", i, err)
		}
		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		event := classifier.Process(wave.Sample{Volts: v, Time: now})
		if event == nil {
			continue
		}

		local := localtime.ToLocal(event.Time)
		if err := store.LogDirection(event.Direction, local); err != nil {
			logErrs++ // the daemon logs and moves on
		}
		if err := pub.Publish(*event, local); err != nil {
			t.Fatalf("publish error: %v", err)
		}
	}

	if logErrs != 1 {
		t.Errorf("expected 1 storage failure, got %d", logErrs)
	}
	if len(pub.Events) != 1 {
		t.Fatalf("expected the event to reach MQTT anyway, got %d", len(pub.Events))
	}
	if pub.Events[0].Direction != wave.Left {
		t.Errorf("expected L, got %s", pub.Events[0].Direction)
	}
}

// TestIntegrationDSTBoundary verifies that events straddling the spring
// transition log the correct local times.
func TestIntegrationDSTBoundary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "footpath.log")
	store := sdlog.New(path)
	if err := store.LogSessionStart(); err != nil {
		t.Fatalf("LogSessionStart: %v", err)
	}

	// 2026-03-08 07:00 UTC is the spring transition.
	before := time.Date(2026, 3, 8, 6, 59, 59, 0, time.UTC)
	after := time.Date(2026, 3, 8, 7, 0, 1, 0, time.UTC)

	if err := store.LogDirection(wave.Left, localtime.ToLocal(before)); err != nil {
		t.Fatalf("LogDirection: %v", err)
	}
	if err := store.LogDirection(wave.Right, localtime.ToLocal(after)); err != nil {
		t.Fatalf("LogDirection: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// 01:59:59 EST, then 03:00:01 EDT one wall-clock second later.
	want := "START\nL,03,08,2026,01,59,59\nR,03,08,2026,03,00,01\n"
	if string(data) != want {
		t.Errorf("log content = %q, want %q", data, want)
	}
}
