// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

// Package fixture maps named fixture controls onto raw DMX channels.
//
// A Profile describes one fixture head: which channel each control sits
// on and how its value space is carved up. Profiles are data, loaded from
// JSON or built in (see DualLaser), and validated once at load time so
// that resolving a Setting at the command line never has to guess.
//
// Three control kinds cover the fixtures this package has met so far:
//
//   - select: the byte range is carved into named bands (a strobe channel
//     with off/strobe/sound regions). Resolving a band alone yields the
//     band's lowest value; band plus value checks the value against the
//     band's range.
//   - level: a continuous quantity such as a dimmer or pattern index,
//     optionally narrowed below the full 0..255.
//   - switch: two-state channels with distinct on/off byte values.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ChannelCount is the size of one DMX universe; profiles cannot span more.
const ChannelCount = 512

// Kind classifies how a control interprets its channel value.
type Kind int

const (
	KindSelect Kind = iota
	KindLevel
	KindSwitch
)

// String returns the kind name used in profile JSON.
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindLevel:
		return "level"
	case KindSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its JSON name.
func (k Kind) MarshalText() ([]byte, error) {
	if k < KindSelect || k > KindSwitch {
		return nil, fmt.Errorf("unknown control kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its JSON name.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "select":
		*k = KindSelect
	case "level":
		*k = KindLevel
	case "switch":
		*k = KindSwitch
	default:
		return fmt.Errorf("unknown control kind %q", text)
	}
	return nil
}

// Band is one named region of a select control's value space.
type Band struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

// Control binds a name to a channel and a value interpretation.
// Min/Max apply to level controls (Max 0 means the full 0..255);
// On/Off apply to switch controls; Bands to select controls.
type Control struct {
	Name    string `json:"name"`
	Channel int    `json:"channel"`
	Kind    Kind   `json:"kind"`
	Bands   []Band `json:"bands,omitempty"`
	Min     int    `json:"min,omitempty"`
	Max     int    `json:"max,omitempty"`
	On      int    `json:"on,omitempty"`
	Off     int    `json:"off,omitempty"`
}

func (c *Control) band(name string) *Band {
	for i := range c.Bands {
		if strings.EqualFold(c.Bands[i].Name, name) {
			return &c.Bands[i]
		}
	}
	return nil
}

func (c *Control) bandNames() string {
	names := make([]string, len(c.Bands))
	for i, b := range c.Bands {
		names[i] = b.Name
	}
	return strings.Join(names, ", ")
}

// Profile describes one fixture: its channel span and its controls.
type Profile struct {
	Name     string    `json:"name"`
	Channels int       `json:"channels"`
	Controls []Control `json:"controls"`
}

// Control looks up a control by name, case-insensitively.
func (p *Profile) Control(name string) *Control {
	for i := range p.Controls {
		if strings.EqualFold(p.Controls[i].Name, name) {
			return &p.Controls[i]
		}
	}
	return nil
}

// Validate checks the profile and normalizes level bounds (Max 0 becomes
// 255). Returns the first problem found.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if p.Channels < 1 || p.Channels > ChannelCount {
		return fmt.Errorf("profile %s: channel span %d outside [1,%d]", p.Name, p.Channels, ChannelCount)
	}
	if len(p.Controls) == 0 {
		return fmt.Errorf("profile %s: no controls", p.Name)
	}

	seenName := make(map[string]bool, len(p.Controls))
	seenChannel := make(map[int]string, len(p.Controls))
	for i := range p.Controls {
		c := &p.Controls[i]
		if c.Name == "" {
			return fmt.Errorf("profile %s: control %d has no name", p.Name, i)
		}
		key := strings.ToLower(c.Name)
		if seenName[key] {
			return fmt.Errorf("profile %s: duplicate control %s", p.Name, c.Name)
		}
		seenName[key] = true

		if c.Channel < 1 || c.Channel > p.Channels {
			return fmt.Errorf("profile %s: control %s on channel %d outside [1,%d]", p.Name, c.Name, c.Channel, p.Channels)
		}
		if prev, dup := seenChannel[c.Channel]; dup {
			return fmt.Errorf("profile %s: controls %s and %s share channel %d", p.Name, prev, c.Name, c.Channel)
		}
		seenChannel[c.Channel] = c.Name

		if err := c.validate(); err != nil {
			return fmt.Errorf("profile %s: control %s: %w", p.Name, c.Name, err)
		}
	}
	return nil
}

func (c *Control) validate() error {
	switch c.Kind {
	case KindSelect:
		if len(c.Bands) == 0 {
			return fmt.Errorf("select control has no bands")
		}
		seen := make(map[string]bool, len(c.Bands))
		for _, b := range c.Bands {
			if b.Name == "" {
				return fmt.Errorf("band has no name")
			}
			key := strings.ToLower(b.Name)
			if seen[key] {
				return fmt.Errorf("duplicate band %s", b.Name)
			}
			seen[key] = true
			if b.Min < 0 || b.Max > 255 || b.Min > b.Max {
				return fmt.Errorf("band %s: range [%d,%d] invalid", b.Name, b.Min, b.Max)
			}
		}
	case KindLevel:
		if c.Max == 0 {
			c.Max = 255
		}
		if c.Min < 0 || c.Max > 255 || c.Min > c.Max {
			return fmt.Errorf("level range [%d,%d] invalid", c.Min, c.Max)
		}
	case KindSwitch:
		if c.On < 0 || c.On > 255 || c.Off < 0 || c.Off > 255 {
			return fmt.Errorf("switch values on=%d off=%d outside [0,255]", c.On, c.Off)
		}
		if c.On == c.Off {
			return fmt.Errorf("switch values on and off are both %d", c.On)
		}
	default:
		return fmt.Errorf("unknown kind %d", int(c.Kind))
	}
	return nil
}

// Load reads and validates a profile from a JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
