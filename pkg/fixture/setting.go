// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package fixture

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting is one parsed control assignment from the command line.
type Setting struct {
	Control  string
	Band     string
	Value    int
	HasValue bool
}

// ParseSetting parses the CLI assignment syntax:
//
//	name=band        select a band (its lowest value), or on/off a switch
//	name=value       set a level
//	name=band:value  pick a specific value inside a band
func ParseSetting(arg string) (Setting, error) {
	name, rhs, ok := strings.Cut(arg, "=")
	if !ok || name == "" || rhs == "" {
		return Setting{}, fmt.Errorf("setting %q: want name=band, name=value or name=band:value", arg)
	}

	s := Setting{Control: name}

	if band, val, hasColon := strings.Cut(rhs, ":"); hasColon {
		if band == "" || val == "" {
			return Setting{}, fmt.Errorf("setting %q: want name=band:value", arg)
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return Setting{}, fmt.Errorf("setting %q: %q is not a number", arg, val)
		}
		s.Band, s.Value, s.HasValue = band, n, true
		return s, nil
	}

	if n, err := strconv.Atoi(rhs); err == nil {
		s.Value, s.HasValue = n, true
		return s, nil
	}
	s.Band = rhs
	return s, nil
}

// ParseSettings parses a slice of assignments, failing on the first bad one.
func ParseSettings(args []string) ([]Setting, error) {
	settings := make([]Setting, 0, len(args))
	for _, arg := range args {
		s, err := ParseSetting(arg)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, nil
}

// Resolve maps a setting to its channel and byte value under this profile.
func (p *Profile) Resolve(s Setting) (channel int, value byte, err error) {
	c := p.Control(s.Control)
	if c == nil {
		return 0, 0, fmt.Errorf("profile %s has no control %q", p.Name, s.Control)
	}

	switch c.Kind {
	case KindSelect:
		if s.Band == "" {
			return 0, 0, fmt.Errorf("control %s: band required (one of: %s)", c.Name, c.bandNames())
		}
		b := c.band(s.Band)
		if b == nil {
			return 0, 0, fmt.Errorf("control %s: no band %q (one of: %s)", c.Name, s.Band, c.bandNames())
		}
		if !s.HasValue {
			return c.Channel, byte(b.Min), nil
		}
		if s.Value < b.Min || s.Value > b.Max {
			return 0, 0, fmt.Errorf("control %s: value %d outside band %s [%d,%d]", c.Name, s.Value, b.Name, b.Min, b.Max)
		}
		return c.Channel, byte(s.Value), nil

	case KindLevel:
		if s.Band != "" {
			return 0, 0, fmt.Errorf("control %s: takes a plain value [%d,%d], not a band", c.Name, c.Min, c.Max)
		}
		if !s.HasValue {
			return 0, 0, fmt.Errorf("control %s: value required [%d,%d]", c.Name, c.Min, c.Max)
		}
		if s.Value < c.Min || s.Value > c.Max {
			return 0, 0, fmt.Errorf("control %s: value %d outside [%d,%d]", c.Name, s.Value, c.Min, c.Max)
		}
		return c.Channel, byte(s.Value), nil

	case KindSwitch:
		if !s.HasValue {
			switch {
			case strings.EqualFold(s.Band, "on"):
				return c.Channel, byte(c.On), nil
			case strings.EqualFold(s.Band, "off"):
				return c.Channel, byte(c.Off), nil
			}
		}
		return 0, 0, fmt.Errorf("control %s: want on or off", c.Name)
	}
	return 0, 0, fmt.Errorf("control %s: unsupported kind", c.Name)
}

// ChannelSetter is the slice of the engine a profile needs: batch channel
// writes. *dmx.Controller and *dmx.Universe both satisfy it.
type ChannelSetter interface {
	SetChannels(map[int]int) error
}

// Apply resolves all settings and pushes them as one batch. All-or-nothing:
// any resolution failure leaves the fixture untouched.
func (p *Profile) Apply(dst ChannelSetter, settings ...Setting) error {
	values := make(map[int]int, len(settings))
	for _, s := range settings {
		ch, v, err := p.Resolve(s)
		if err != nil {
			return err
		}
		values[ch] = int(v)
	}
	if len(values) == 0 {
		return nil
	}
	return dst.SetChannels(values)
}
