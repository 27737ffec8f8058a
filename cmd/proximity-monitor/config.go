package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the command-line flags for a YAML config file.
// Empty fields leave the flag value alone.
type fileConfig struct {
	Chip      string `yaml:"chip"`
	Pin       *int   `yaml:"pin"`
	ActiveLow *bool  `yaml:"active_low"`
	LEDPin    *int   `yaml:"led_pin"`
	LEDLow    *bool  `yaml:"led_active_low"`
	Display   string `yaml:"display"`
	LCDPort   string `yaml:"lcd_port"`
	LCDBaud   int    `yaml:"lcd_baud"`
	Broker    string `yaml:"broker"`
	Heartbeat string `yaml:"heartbeat"` // e.g. "15m", "0" to disable
	HTTP      string `yaml:"http"`
}

// loadConfig reads a YAML config file. Unlike flags, a named file that does
// not exist is an error.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	fc := &fileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return fc, nil
}

// applyConfig copies file settings into opts for every flag that was not set
// on the command line.
func applyConfig(opts *options, fc *fileConfig, changed func(name string) bool) error {
	if fc.Chip != "" && !changed("chip") {
		opts.chip = fc.Chip
	}
	if fc.Pin != nil && !changed("pin") {
		opts.pin = *fc.Pin
	}
	if fc.ActiveLow != nil && !changed("active-low") {
		opts.activeLow = *fc.ActiveLow
	}
	if fc.LEDPin != nil && !changed("led-pin") {
		opts.ledPin = *fc.LEDPin
	}
	if fc.LEDLow != nil && !changed("led-active-low") {
		opts.ledLow = *fc.LEDLow
	}
	if fc.Display != "" && !changed("display") {
		opts.display = fc.Display
	}
	if fc.LCDPort != "" && !changed("lcd-port") {
		opts.lcdPort = fc.LCDPort
	}
	if fc.LCDBaud != 0 && !changed("lcd-baud") {
		opts.lcdBaud = fc.LCDBaud
	}
	if fc.Broker != "" && !changed("broker") {
		opts.broker = fc.Broker
	}
	if fc.Heartbeat != "" && !changed("heartbeat") {
		d, err := time.ParseDuration(fc.Heartbeat)
		if err != nil {
			return fmt.Errorf("invalid heartbeat %q in config: %w", fc.Heartbeat, err)
		}
		opts.heartbeat = d
	}
	if fc.HTTP != "" && !changed("http") {
		opts.httpAddr = fc.HTTP
	}
	return nil
}
