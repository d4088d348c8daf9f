// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

// Package config loads the beamcast TOML configuration file. Values left
// out of the file keep their defaults; command-line flags override both.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/luxcraft/beamcast/pkg/dmx"
)

// DefaultPath is where the CLI looks when --config is not given.
const DefaultPath = "beamcast.toml"

// Duration reads human-friendly TOML values like "500ms" or "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Serial configures the local adapter transport. An empty port means
// auto-detect; zero timings mean the engine defaults.
type Serial struct {
	Port           string   `toml:"port"`
	Baud           int      `toml:"baud"`
	Break          Duration `toml:"break"`
	MarkAfterBreak Duration `toml:"mark-after-break"`
}

// Gateway configures the remote WebSocket transport. Setting url switches
// the CLI off the local serial adapter.
type Gateway struct {
	URL      string `toml:"url"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Insecure bool   `toml:"insecure"`
}

// ArtNet configures the network node transport.
type ArtNet struct {
	Enabled  bool   `toml:"enabled"`
	CIDR     string `toml:"cidr"`
	Universe uint16 `toml:"universe"`
}

// Engine tunes the transmission loop. Zero values select the engine
// defaults (30 Hz, 3 attempts, 8s timeout).
type Engine struct {
	FrameRate      int      `toml:"frame-rate"`
	MaxRetries     int      `toml:"max-retries"`
	ConnectTimeout Duration `toml:"connect-timeout"`
	RetryBackoff   Duration `toml:"retry-backoff"`
	MaxBackoff     Duration `toml:"max-backoff"`
}

// Options converts the section to controller options.
func (e Engine) Options() dmx.Options {
	return dmx.Options{
		FrameRate:      e.FrameRate,
		MaxRetries:     e.MaxRetries,
		ConnectTimeout: e.ConnectTimeout.Duration,
		RetryBackoff:   e.RetryBackoff.Duration,
		MaxBackoff:     e.MaxBackoff.Duration,
	}
}

// Log configures the process logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
}

// MQTT configures the remote-control bridge.
type MQTT struct {
	Broker      string `toml:"broker"`
	ClientID    string `toml:"client-id"`
	User        string `toml:"user"`
	Password    string `toml:"password"`
	TopicPrefix string `toml:"topic-prefix"`
	QoS         byte   `toml:"qos"`
}

// Config is the whole beamcast.toml.
type Config struct {
	Serial  Serial  `toml:"serial"`
	Gateway Gateway `toml:"gateway"`
	ArtNet  ArtNet  `toml:"artnet"`
	Engine  Engine  `toml:"engine"`
	Log     Log     `toml:"log"`
	MQTT    MQTT    `toml:"mqtt"`

	// Profile is a fixture profile JSON path. Empty selects the
	// built-in dual laser profile.
	Profile string `toml:"profile"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		MQTT: MQTT{
			Broker:      "tcp://localhost:1883",
			ClientID:    "beamcast",
			TopicPrefix: "beamcast",
		},
	}
}

// Load decodes the TOML file at path over the defaults. Keys the schema
// does not know are errors; typos in a lighting rig config otherwise
// surface as a fixture doing nothing.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}
