// Package config loads the daemon configuration from a YAML file. A
// missing file (the common case on a freshly imaged node) yields the
// defaults; a partial file is filled in from them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration.
type Config struct {
	Sensor     SensorConfig    `yaml:"sensor"`
	GPS        GPSConfig       `yaml:"gps"`
	Log        LogConfig       `yaml:"log"`
	MQTT       MQTTConfig      `yaml:"mqtt"`
	HTTP       HTTPConfig      `yaml:"http"`
	Indicators IndicatorConfig `yaml:"indicators"`
}

// SensorConfig contains PIR sampling and classification parameters.
type SensorConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	WarmupDuration time.Duration `yaml:"warmup_duration"` // PIR stabilization after power-on
	HighThreshold  float64       `yaml:"high_threshold"`  // volts
	LowThreshold   float64       `yaml:"low_threshold"`   // volts
	StallTimeout   time.Duration `yaml:"stall_timeout"`
}

// GPSConfig contains the time-sync serial port configuration.
type GPSConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// LogConfig contains the SD-card log configuration.
type LogConfig struct {
	Path             string        `yaml:"path"`
	LivenessInterval time.Duration `yaml:"liveness_interval"`
}

// MQTTConfig contains the optional uplink configuration. An empty broker
// disables MQTT entirely.
type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

// HTTPConfig contains the status server configuration. An empty address
// disables the server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// IndicatorConfig contains the direction LED configuration.
type IndicatorConfig struct {
	PinLeft    int           `yaml:"pin_left"`  // BCM numbering
	PinRight   int           `yaml:"pin_right"` // BCM numbering
	PulseWidth time.Duration `yaml:"pulse_width"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			PollInterval:   10 * time.Millisecond,
			WarmupDuration: 30 * time.Second,
			HighThreshold:  3.0,
			LowThreshold:   2.0,
			StallTimeout:   1000 * time.Millisecond,
		},
		GPS: GPSConfig{
			Port:     "/dev/ttyAMA0",
			BaudRate: 9600,
		},
		Log: LogConfig{
			Path:             "/mnt/sd/footpath.log",
			LivenessInterval: time.Minute,
		},
		MQTT: MQTTConfig{
			Broker: "", // disabled unless configured
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
		Indicators: IndicatorConfig{
			PinLeft:    26,
			PinRight:   16,
			PulseWidth: 50 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.ensureDefaults()
	return cfg, nil
}

// ensureDefaults fills required fields that the file left zero.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Sensor.PollInterval == 0 {
		c.Sensor.PollInterval = def.Sensor.PollInterval
	}
	if c.Sensor.WarmupDuration == 0 {
		c.Sensor.WarmupDuration = def.Sensor.WarmupDuration
	}
	if c.Sensor.HighThreshold == 0 {
		c.Sensor.HighThreshold = def.Sensor.HighThreshold
	}
	if c.Sensor.LowThreshold == 0 {
		c.Sensor.LowThreshold = def.Sensor.LowThreshold
	}
	if c.Sensor.StallTimeout == 0 {
		c.Sensor.StallTimeout = def.Sensor.StallTimeout
	}

	if c.GPS.Port == "" {
		c.GPS.Port = def.GPS.Port
	}
	if c.GPS.BaudRate == 0 {
		c.GPS.BaudRate = def.GPS.BaudRate
	}

	if c.Log.Path == "" {
		c.Log.Path = def.Log.Path
	}
	if c.Log.LivenessInterval == 0 {
		c.Log.LivenessInterval = def.Log.LivenessInterval
	}

	if c.Indicators.PinLeft == 0 {
		c.Indicators.PinLeft = def.Indicators.PinLeft
	}
	if c.Indicators.PinRight == 0 {
		c.Indicators.PinRight = def.Indicators.PinRight
	}
	if c.Indicators.PulseWidth == 0 {
		c.Indicators.PulseWidth = def.Indicators.PulseWidth
	}
}
