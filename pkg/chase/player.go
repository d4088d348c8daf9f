// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package chase

import "math"

// ApplyFunc pushes a batch of resolved channel values at the fixture.
// dmx.Controller.SetChannels satisfies it.
type ApplyFunc func(map[int]int) error

// PlayerState enumerates playback states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Player owns the show timeline. It keeps the last level it set on every
// channel it has touched, so each step fades from where the fixture
// actually is (untouched channels count as 0). The player has no clock of
// its own; call Tick with elapsed seconds.
type Player struct {
	State PlayerState

	// OnStep, when set, is called on entry to each step.
	OnStep func(index int, step Step)

	show   Show
	idx    int
	inS    float64 // time within the current step
	levels map[int]int
	from   map[int]int // fade start values for the current step
	faded  bool        // final targets of the current step applied

	apply ApplyFunc
}

// NewPlayer constructs a Player that pushes values through apply.
func NewPlayer(apply ApplyFunc) *Player {
	return &Player{
		State:  Idle,
		apply:  apply,
		levels: map[int]int{},
	}
}

// Load replaces the current show. Resets position and state to Idle.
func (p *Player) Load(show Show) error {
	if err := show.Validate(); err != nil {
		return err
	}
	p.show = show
	p.idx = 0
	p.inS = 0
	p.State = Idle
	return nil
}

// Start moves to Running and enters the first step. A no-op while
// running or with no show loaded.
func (p *Player) Start() error {
	if p.State == Running || len(p.show.Steps) == 0 {
		return nil
	}
	p.State = Running
	p.idx = 0
	p.inS = 0
	return p.enterStep()
}

// Pause freezes the timeline mid-step.
func (p *Player) Pause() {
	if p.State == Running {
		p.State = Paused
	}
}

// Resume continues a paused show.
func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop resets to the start and goes Idle. Channel levels are left as
// they are; blacking out is the caller's call.
func (p *Player) Stop() {
	p.State = Idle
	p.idx = 0
	p.inS = 0
}

// Position reports the current step index and the time spent in it.
func (p *Player) Position() (step int, within float64) {
	return p.idx, p.inS
}

// Tick advances the timeline by dt seconds: pushes fade interpolations
// while inside a step's fade window, snaps to the step targets at the end
// of the fade, and advances at hold expiry (loops or goes Idle).
func (p *Player) Tick(dt float64) error {
	if p.State != Running || dt <= 0 {
		return nil
	}
	p.inS += dt
	step := p.show.Steps[p.idx]

	if step.FadeS > 0 && p.inS < step.FadeS {
		return p.push(p.blend(step, p.inS/step.FadeS))
	}

	if !p.faded {
		if err := p.push(step.Channels); err != nil {
			return err
		}
		p.faded = true
	}

	if p.inS >= step.HoldS {
		return p.advance(step.HoldS)
	}
	return nil
}

// enterStep records the fade start levels and applies the first values.
func (p *Player) enterStep() error {
	step := p.show.Steps[p.idx]

	p.from = make(map[int]int, len(step.Channels))
	for ch := range step.Channels {
		p.from[ch] = p.levels[ch]
	}
	p.faded = false

	if p.OnStep != nil {
		p.OnStep(p.idx, step)
	}

	if step.FadeS <= 0 {
		p.faded = true
		return p.push(step.Channels)
	}
	// Alpha 0 pushes the fade start values; the first real Tick moves them.
	return p.push(p.blend(step, 0))
}

// advance moves to the next step, carrying tick overshoot so long shows
// do not drift.
func (p *Player) advance(holdS float64) error {
	p.inS -= holdS
	p.idx++
	if p.idx >= len(p.show.Steps) {
		if !p.show.Loop {
			p.State = Idle
			p.idx = 0
			p.inS = 0
			return nil
		}
		p.idx = 0
	}
	return p.enterStep()
}

// blend interpolates the step's channels between their fade start values
// and their targets. alpha 0 is all start, 1 all target.
func (p *Player) blend(step Step, alpha float64) map[int]int {
	out := make(map[int]int, len(step.Channels))
	for ch, to := range step.Channels {
		from := p.from[ch]
		out[ch] = int(math.Round(float64(from) + (float64(to)-float64(from))*alpha))
	}
	return out
}

func (p *Player) push(values map[int]int) error {
	if len(values) == 0 {
		return nil
	}
	for ch, v := range values {
		p.levels[ch] = v
	}
	if p.apply == nil {
		return nil
	}
	return p.apply(values)
}
