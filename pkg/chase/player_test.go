// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package chase

import (
	"maps"
	"slices"
	"testing"
)

// captureApply records each batch the player pushes. Batches are copied
// because the player may hand over its own maps.
type captureApply struct {
	applied []map[int]int
}

func (c *captureApply) apply(values map[int]int) error {
	cp := make(map[int]int, len(values))
	maps.Copy(cp, values)
	c.applied = append(c.applied, cp)
	return nil
}

func (c *captureApply) last() map[int]int {
	if len(c.applied) == 0 {
		return nil
	}
	return c.applied[len(c.applied)-1]
}

func TestPlayerRunsThroughOnce(t *testing.T) {
	rec := &captureApply{}
	p := NewPlayer(rec.apply)

	var entered []int
	p.OnStep = func(i int, _ Step) { entered = append(entered, i) }

	show := Show{
		Name: "two-step",
		Steps: []Step{
			{HoldS: 1, Channels: map[int]int{1: 100}},
			{HoldS: 1, Channels: map[int]int{1: 200, 2: 50}},
		},
	}
	if err := p.Load(show); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.State != Idle {
		t.Fatalf("state after Load = %s, want idle", p.State)
	}

	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !maps.Equal(rec.last(), map[int]int{1: 100}) {
		t.Errorf("after Start: applied %v, want step 1 targets", rec.last())
	}

	if err := p.Tick(1.0); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !maps.Equal(rec.last(), map[int]int{1: 200, 2: 50}) {
		t.Errorf("after first hold: applied %v, want step 2 targets", rec.last())
	}
	if p.State != Running {
		t.Errorf("state = %s, want running", p.State)
	}

	if err := p.Tick(1.0); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if p.State != Idle {
		t.Errorf("state after final step = %s, want idle", p.State)
	}

	if want := []int{0, 1}; !slices.Equal(entered, want) {
		t.Errorf("OnStep calls = %v, want %v", entered, want)
	}
}

func TestPlayerLoops(t *testing.T) {
	rec := &captureApply{}
	p := NewPlayer(rec.apply)

	show := Show{
		Name: "loop",
		Loop: true,
		Steps: []Step{
			{HoldS: 1, Channels: map[int]int{1: 10}},
			{HoldS: 1, Channels: map[int]int{1: 20}},
		},
	}
	if err := p.Load(show); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := p.Tick(1.0); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}

	if p.State != Running {
		t.Errorf("state = %s, want running (show loops)", p.State)
	}
	idx, _ := p.Position()
	if idx != 1 {
		t.Errorf("position = %d, want 1 (wrapped once)", idx)
	}
	if !maps.Equal(rec.last(), map[int]int{1: 20}) {
		t.Errorf("last applied = %v, want step 2 targets", rec.last())
	}
}

func TestPlayerFadesLinearly(t *testing.T) {
	rec := &captureApply{}
	p := NewPlayer(rec.apply)

	show := Show{
		Name:  "fade",
		Steps: []Step{{HoldS: 2, FadeS: 1, Channels: map[int]int{1: 100}}},
	}
	if err := p.Load(show); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	steps := []struct {
		dt   float64
		want int
	}{
		{dt: 0.25, want: 25},
		{dt: 0.25, want: 50},
		{dt: 0.5, want: 100}, // fade boundary snaps to target
	}
	if got := rec.last()[1]; got != 0 {
		t.Errorf("fade start value = %d, want 0", got)
	}
	for _, s := range steps {
		if err := p.Tick(s.dt); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if got := rec.last()[1]; got != s.want {
			t.Errorf("after dt %.2f: channel 1 = %d, want %d", s.dt, got, s.want)
		}
	}

	if err := p.Tick(1.0); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if p.State != Idle {
		t.Errorf("state = %s, want idle at show end", p.State)
	}
}

func TestPlayerFadeRoundsHalfUp(t *testing.T) {
	rec := &captureApply{}
	p := NewPlayer(rec.apply)

	show := Show{
		Name:  "round",
		Steps: []Step{{HoldS: 1, FadeS: 1, Channels: map[int]int{1: 255}}},
	}
	if err := p.Load(show); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := p.Tick(0.5); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got := rec.last()[1]; got != 128 {
		t.Errorf("midpoint of 0..255 = %d, want 128", got)
	}
}

func TestPlayerFadesFromPreviousLevels(t *testing.T) {
	rec := &captureApply{}
	p := NewPlayer(rec.apply)

	show := Show{
		Name: "carry",
		Steps: []Step{
			{HoldS: 1, Channels: map[int]int{1: 200}},
			{HoldS: 2, FadeS: 1, Channels: map[int]int{1: 100, 2: 50}},
		},
	}
	if err := p.Load(show); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Into step 2: fade starts at the levels step 1 left (ch2 never set).
	if err := p.Tick(1.0); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !maps.Equal(rec.last(), map[int]int{1: 200, 2: 0}) {
		t.Errorf("fade start = %v, want {1:200 2:0}", rec.last())
	}

	if err := p.Tick(0.5); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !maps.Equal(rec.last(), map[int]int{1: 150, 2: 25}) {
		t.Errorf("fade midpoint = %v, want {1:150 2:25}", rec.last())
	}

	if err := p.Tick(0.5); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !maps.Equal(rec.last(), map[int]int{1: 100, 2: 50}) {
		t.Errorf("fade end = %v, want step targets", rec.last())
	}
}

func TestPlayerPauseResume(t *testing.T) {
	rec := &captureApply{}
	p := NewPlayer(rec.apply)

	show := Show{Name: "pausable", Steps: []Step{{HoldS: 1, Channels: map[int]int{1: 1}}, {HoldS: 1, Channels: map[int]int{1: 2}}}}
	if err := p.Load(show); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := p.Tick(0.5); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	p.Pause()
	if p.State != Paused {
		t.Fatalf("state = %s, want paused", p.State)
	}

	applies := len(rec.applied)
	if err := p.Tick(10); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(rec.applied) != applies {
		t.Error("paused player still applied values")
	}
	_, within := p.Position()
	if within != 0.5 {
		t.Errorf("position advanced to %.2f while paused, want 0.5", within)
	}

	p.Resume()
	if err := p.Tick(0.5); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !maps.Equal(rec.last(), map[int]int{1: 2}) {
		t.Errorf("after resume: applied %v, want step 2 targets", rec.last())
	}
}

func TestPlayerStopAndRestart(t *testing.T) {
	rec := &captureApply{}
	p := NewPlayer(rec.apply)

	show := Show{Name: "restart", Steps: []Step{{HoldS: 1, FadeS: 1, Channels: map[int]int{1: 100}}}}
	if err := p.Load(show); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Tick(0.5); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	p.Stop()
	if p.State != Idle {
		t.Fatalf("state = %s, want idle", p.State)
	}
	idx, within := p.Position()
	if idx != 0 || within != 0 {
		t.Errorf("position after Stop = (%d, %.2f), want (0, 0)", idx, within)
	}

	// Restarting fades from where Stop left the levels, not from zero.
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := rec.last()[1]; got != 50 {
		t.Errorf("restart fade start = %d, want 50 (level left by Stop)", got)
	}
}

func TestPlayerStartWithoutShow(t *testing.T) {
	p := NewPlayer(nil)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if p.State != Idle {
		t.Errorf("state = %s, want idle with no show", p.State)
	}
}
