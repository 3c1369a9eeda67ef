// Package config loads the twinaxd configuration: the serial converter
// device, per-station terminal definitions, and the debug console's
// listen addresses. Grounded on dcosson-h2/internal/config.Load/LoadFrom
// (YAML via gopkg.in/yaml.v3, missing file returns defaults rather than
// an error).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// StationCount is the number of station addresses on the shared twinax
// bus (spec.md §1: "up to seven terminals", addresses 0..6).
const StationCount = 7

// Config is the top-level twinaxd configuration.
type Config struct {
	SerialDevice   string           `yaml:"serial_device"`
	ClickerDefault bool             `yaml:"clicker_default"`
	Debug          bool             `yaml:"debug"`
	ListenUnix     bool             `yaml:"listen_unix"`
	ListenTCP      string           `yaml:"listen_tcp"`
	Shell          string           `yaml:"shell"`
	ShellArgs      []string         `yaml:"shell_args"`
	Terminals      []TerminalConfig `yaml:"terminals"`
}

// ResolveShell returns the configured shell and its arguments, falling
// back to $SHELL --norc (the original's default spawn argv) when unset.
func (c *Config) ResolveShell() (string, []string) {
	if c.Shell != "" {
		return c.Shell, c.ShellArgs
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, []string{"--norc"}
	}
	return "/bin/sh", nil
}

// TerminalConfig configures one station's scancode dictionary, poll
// pacing, codepage, and feature level.
type TerminalConfig struct {
	Station          byte   `yaml:"station"`
	Dictionary       string `yaml:"dictionary"`
	PollDelayMicros  int    `yaml:"poll_delay_us"`
	Codepage         string `yaml:"codepage"`
	AdvancedFeatures bool   `yaml:"advanced_features"`
}

// ConfigDir returns the twinaxd configuration directory (~/.twinax5250/).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".twinax5250")
	}
	return filepath.Join(home, ".twinax5250")
}

// SocketPath returns the debug console's default Unix socket path.
func SocketPath() string {
	return filepath.Join(ConfigDir(), "sockets", "console.sock")
}

// Load reads the config from ~/.twinax5250/config.yaml.
// If the file does not exist, it returns a default Config with no error.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads the config from the given path.
// If the file does not exist, it returns a default Config with no error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the zero-terminal default configuration.
func Default() *Config {
	return &Config{
		SerialDevice:   "/dev/ttyUSB0",
		ClickerDefault: true,
		ListenUnix:     true,
	}
}

func (c *Config) validate() error {
	seen := make(map[byte]bool, len(c.Terminals))
	for _, t := range c.Terminals {
		if t.Station >= StationCount {
			return fmt.Errorf("terminals: station %d out of range [0,%d)", t.Station, StationCount)
		}
		if seen[t.Station] {
			return fmt.Errorf("terminals: duplicate station %d", t.Station)
		}
		seen[t.Station] = true
	}
	return nil
}

// ParseStationFlag parses the original's command-line station-definition
// shorthand, STATION:[SCANCODE_DICT]:[SLOW_POLL]:[EBCDIC_CODEPAGE], into a
// TerminalConfig. SLOW_POLL is 0 (fast), 1 (slow, 5ms), or 2 (ultra-slow,
// 1000ms), matching original_source/5250_terminal.py's argument loop.
func ParseStationFlag(s string) (TerminalConfig, error) {
	parts := strings.Split(s, ":")

	station, err := strconv.Atoi(parts[0])
	if err != nil {
		return TerminalConfig{}, fmt.Errorf("station definition %q: invalid station address: %w", s, err)
	}
	if station < 0 || station >= StationCount {
		return TerminalConfig{}, fmt.Errorf("station definition %q: station %d out of range [0,%d)", s, station, StationCount)
	}

	tc := TerminalConfig{
		Station:    byte(station),
		Dictionary: "5250_ES",
		Codepage:   "cp037",
	}

	if len(parts) > 1 && parts[1] != "" {
		tc.Dictionary = parts[1]
	}

	if len(parts) > 2 && parts[2] != "" {
		slowPoll, err := strconv.Atoi(parts[2])
		if err != nil {
			return TerminalConfig{}, fmt.Errorf("station definition %q: invalid slow-poll field: %w", s, err)
		}
		switch slowPoll {
		case 0:
			tc.PollDelayMicros = 0
		case 1:
			tc.PollDelayMicros = 5000
		case 2:
			tc.PollDelayMicros = 1000000
		default:
			return TerminalConfig{}, fmt.Errorf("station definition %q: slow-poll field must be 0, 1, or 2", s)
		}
	}

	if len(parts) > 3 && parts[3] != "" {
		tc.Codepage = parts[3]
	}

	return tc, nil
}
