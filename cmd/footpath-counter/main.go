// Command footpath-counter samples a PIR sensor through an ADC, classifies
// direction-of-travel waveforms, and records confirmed events to the SD-card
// log. MQTT and the HTTP status page are optional mirrors of that log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/footpath-counter/internal/adc"
	"github.com/sweeney/footpath-counter/internal/config"
	"github.com/sweeney/footpath-counter/internal/gpio"
	"github.com/sweeney/footpath-counter/internal/gps"
	"github.com/sweeney/footpath-counter/internal/localtime"
	"github.com/sweeney/footpath-counter/internal/mqtt"
	"github.com/sweeney/footpath-counter/internal/sdlog"
	"github.com/sweeney/footpath-counter/internal/status"
	"github.com/sweeney/footpath-counter/internal/wave"
	"github.com/sweeney/footpath-counter/internal/web"
)

// Daily resync fires when the local clock enters this window, once per day.
const (
	resyncHour   = 8
	resyncWindow = 2 * time.Second
)

func main() {
	configPath := flag.String("config", "/etc/footpath-counter.yaml", "Path to YAML config file")
	printSample := flag.Bool("print-sample", false, "Print one ADC sample and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printSample); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, printSample bool) error {
	// Initialize ADC
	sensor, err := adc.NewRealReader()
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer sensor.Close()

	// Print sample mode
	if printSample {
		v, err := sensor.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		fmt.Printf("PIR: %.3fV\n", v)
		return nil
	}

	// Initialize indicator outputs
	pulser, err := gpio.NewRealPulser(cfg.Indicators.PinLeft, cfg.Indicators.PinRight, cfg.Indicators.PulseWidth)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pulser.Close()

	// Initialize GPS and block for the first fix. Counting without a
	// correct clock would poison the log, so there is no timeout here.
	receiver, err := gps.OpenSerial(cfg.GPS.Port, cfg.GPS.BaudRate)
	if err != nil {
		return fmt.Errorf("open gps serial: %w", err)
	}
	defer receiver.Close()

	clock := gps.NewClock()
	log.Printf("waiting for GPS time fix on %s", cfg.GPS.Port)
	if err := clock.Resync(receiver); err != nil {
		return fmt.Errorf("initial time sync: %w", err)
	}
	log.Printf("GPS time fix acquired: %s", clock.Now().Format(time.RFC3339))

	// Start the SD-card log session. The log is the system of record;
	// failing to open it at startup is fatal. Later write failures are
	// logged and skipped so a flaky card does not kill the daemon.
	store := sdlog.New(cfg.Log.Path)
	if err := store.LogSessionStart(); err != nil {
		return fmt.Errorf("start log session: %w", err)
	}
	if err := store.LogLiveness(localtime.ToLocal(clock.Now())); err != nil {
		return fmt.Errorf("initial liveness record: %w", err)
	}

	// Initialize MQTT (optional)
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		real := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:     cfg.Sensor.PollInterval.Milliseconds(),
		StallMs:    cfg.Sensor.StallTimeout.Milliseconds(),
		LivenessMs: cfg.Log.LivenessInterval.Milliseconds(),
		WarmupMs:   cfg.Sensor.WarmupDuration.Milliseconds(),
		Broker:     cfg.MQTT.Broker,
		HTTPPort:   cfg.HTTP.Addr,
		LogPath:    cfg.Log.Path,
		SerialPort: cfg.GPS.Port,
	})
	tracker.RecordResync(clock.Now())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: poll=%v stall=%v warmup=%v log=%s broker=%q",
		cfg.Sensor.PollInterval, cfg.Sensor.StallTimeout, cfg.Sensor.WarmupDuration,
		cfg.Log.Path, cfg.MQTT.Broker)

	ticker := time.NewTicker(cfg.Sensor.PollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	d := &deps{
		sensor:     sensor,
		pulser:     pulser,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		store:      store,
		clock:      clock,
		receiver:   receiver,
		cfg:        cfg,
	}
	return runLoop(d, clock.Now, ticker.C, sigCh)
}

// deps holds the collaborators of the main loop. Every field is an
// interface or a pure type so the loop is testable without hardware.
type deps struct {
	sensor     adc.Reader
	pulser     gpio.Pulser
	publisher  mqtt.Publisher        // nil when MQTT is disabled
	mqttStatus mqtt.ConnectionStatus // nil when MQTT is disabled
	tracker    *status.Tracker
	store      *sdlog.Log
	clock      *gps.Clock
	receiver   gps.Receiver // nil disables the daily resync
	cfg        *config.Config
}

func runLoop(d *deps, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	classifier := wave.NewClassifier(
		d.cfg.Sensor.HighThreshold, d.cfg.Sensor.LowThreshold,
		d.cfg.Sensor.StallTimeout, startTime)

	warmedUp := d.cfg.Sensor.WarmupDuration == 0
	if warmedUp {
		d.tracker.SetWarmedUp(true)
	}
	var lastResyncDay int // local year-day of the last daily resync

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if d.publisher != nil {
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
				snap := d.tracker.Snapshot()
				event := mqtt.SystemEvent{
					Timestamp:  now(),
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := d.publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()

			// PIR output is garbage while the sensor element settles.
			if !warmedUp {
				if t.Sub(startTime) < d.cfg.Sensor.WarmupDuration {
					continue
				}
				warmedUp = true
				d.tracker.SetWarmedUp(true)
				log.Printf("sensor warm-up complete")
			}

			v, err := d.sensor.Read()
			if err != nil {
				log.Printf("adc read error: %v", err)
				continue
			}

			event := classifier.Process(wave.Sample{Volts: adc.ClampVolts(v), Time: t})
			if event != nil {
				local := localtime.ToLocal(event.Time)
				log.Printf("event: %s at %s", event.Direction, local.Format("2006-01-02 15:04:05"))

				if err := d.store.LogDirection(event.Direction, local); err != nil {
					log.Printf("log write error: %v", err)
					// Don't crash on storage failure
				}
				if err := d.pulser.Pulse(event.Direction); err != nil {
					log.Printf("indicator error: %v", err)
				}
				if d.publisher != nil {
					if err := d.publisher.Publish(*event, local); err != nil {
						log.Printf("publish error: %v", err)
					}
				}
				d.tracker.RecordEvent(event.Direction, event.Time, classifier.Counts())
			}

			// Periodic liveness record
			if lv := classifier.CheckLiveness(t, d.cfg.Log.LivenessInterval); lv != nil {
				local := localtime.ToLocal(lv.Timestamp)
				log.Printf("liveness: uptime=%v left=%d right=%d",
					lv.Uptime, lv.Counts.Left, lv.Counts.Right)

				if err := d.store.LogLiveness(local); err != nil {
					log.Printf("liveness write error: %v", err)
				}

				if d.publisher != nil {
					if d.mqttStatus != nil {
						d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
					}
					if net := readNetworkInfo(); net != nil {
						d.tracker.SetNetwork(net)
					}
					snap := d.tracker.Snapshot()
					hbEvent := mqtt.SystemEvent{
						Timestamp:  lv.Timestamp,
						Event:      "HEARTBEAT",
						RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
					}
					if err := d.publisher.PublishSystem(hbEvent); err != nil {
						log.Printf("heartbeat publish error: %v", err)
					}
				}
			}

			// Daily clock resync. Only attempt once per local day, and only
			// while the classifier is idle so a resync pause cannot cut a
			// waveform in half.
			if d.receiver != nil && classifier.Idle() {
				local := localtime.ToLocal(t)
				if inResyncWindow(local) && local.YearDay() != lastResyncDay {
					lastResyncDay = local.YearDay()
					log.Printf("daily time resync")
					if err := d.clock.Resync(d.receiver); err != nil {
						log.Printf("resync error: %v", err)
					} else {
						d.tracker.RecordResync(d.clock.Now())
					}
				}
			}
		}
	}
}

// inResyncWindow reports whether the local time is inside the daily
// resync window. The window is wider than one poll interval so a busy
// tick cannot skip it entirely.
func inResyncWindow(local time.Time) bool {
	windowStart := time.Date(local.Year(), local.Month(), local.Day(),
		resyncHour, 0, 0, 0, local.Location())
	diff := local.Sub(windowStart)
	return diff >= 0 && diff <= resyncWindow
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
