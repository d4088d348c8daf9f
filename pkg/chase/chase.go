// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

// Package chase plays timed channel sequences (chases) against a DMX
// universe. A Show is a list of Steps, each holding a set of channel
// targets for a duration with an optional linear fade in. The Player is
// untimed; the caller drives it with Tick(dt) from whatever clock it
// trusts.
package chase

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// channelCount is the size of one DMX universe.
const channelCount = 512

// Step is one scene of a show: target channel values, how long to hold
// them, and how long to spend fading from the previous values. Channels
// not named keep whatever the previous steps left.
type Step struct {
	Name     string      `yaml:"name,omitempty"`
	HoldS    float64     `yaml:"holdS"`
	FadeS    float64     `yaml:"fadeS,omitempty"`
	Channels map[int]int `yaml:"channels"`
}

// Label returns the step name, or "#n" for unnamed steps at index i.
func (s Step) Label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// Show is a named sequence of steps, optionally looping.
//
// The YAML form:
//
//	name: warmup
//	loop: true
//	steps:
//	  - name: red wash
//	    holdS: 2
//	    fadeS: 0.5
//	    channels:
//	      1: 40
//	      29: 16
type Show struct {
	Name  string `yaml:"name"`
	Loop  bool   `yaml:"loop,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Validate checks the show once so playback never has to.
func (s *Show) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("show %s: no steps", s.Name)
	}

	for i, step := range s.Steps {
		label := step.Label(i)
		if step.HoldS <= 0 {
			return fmt.Errorf("show %s: step %s: holdS %.3f must be positive", s.Name, label, step.HoldS)
		}
		if step.FadeS < 0 || step.FadeS > step.HoldS {
			return fmt.Errorf("show %s: step %s: fadeS %.3f outside [0,holdS]", s.Name, label, step.FadeS)
		}
		for ch, v := range step.Channels {
			if ch < 1 || ch > channelCount {
				return fmt.Errorf("show %s: step %s: channel %d outside [1,%d]", s.Name, label, ch, channelCount)
			}
			if v < 0 || v > 255 {
				return fmt.Errorf("show %s: step %s: channel %d value %d outside [0,255]", s.Name, label, ch, v)
			}
		}
	}
	return nil
}

// TotalS returns one pass through the show in seconds.
func (s *Show) TotalS() float64 {
	total := 0.0
	for _, step := range s.Steps {
		total += step.HoldS
	}
	return total
}

// Load reads and validates a show from a YAML file.
func Load(path string) (*Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read show: %w", err)
	}

	var s Show
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse show %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
