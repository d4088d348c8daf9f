// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"errors"
	"sync"
)

// Universe holds the logical state of one DMX universe: 512 channel values
// addressed 1..512. It is the only piece of engine state shared across
// caller goroutines; all access goes through a narrow lock so mutation from
// UI callbacks, chase ticks and CLI commands never waits on transmission.
//
// Addressing is strict, values are permissive: writes to a channel outside
// [1,512] fail with *ChannelRangeError, while values outside [0,255] are
// clamped rather than rejected.
type Universe struct {
	mu       sync.RWMutex
	channels [ChannelCount]byte
}

// NewUniverse returns a Universe with all channels at zero.
func NewUniverse() *Universe {
	return &Universe{}
}

func clampValue(value int) byte {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return byte(value)
}

// SetChannel stores value on a 1-based channel. The value is clamped to
// [0,255]; an out-of-range channel leaves the universe untouched and
// returns *ChannelRangeError.
func (u *Universe) SetChannel(channel, value int) error {
	if channel < 1 || channel > ChannelCount {
		return &ChannelRangeError{Channel: channel}
	}

	u.mu.Lock()
	u.channels[channel-1] = clampValue(value)
	u.mu.Unlock()
	return nil
}

// SetChannels applies a batch of channel updates under one lock
// acquisition. Entries with invalid channel numbers are skipped without
// rolling back the valid ones; the returned error joins one
// *ChannelRangeError per failed channel, or is nil when all applied.
func (u *Universe) SetChannels(values map[int]int) error {
	var failed []error

	u.mu.Lock()
	for channel, value := range values {
		if channel < 1 || channel > ChannelCount {
			failed = append(failed, &ChannelRangeError{Channel: channel})
			continue
		}
		u.channels[channel-1] = clampValue(value)
	}
	u.mu.Unlock()

	return errors.Join(failed...)
}

// Channel reads the value of a 1-based channel.
func (u *Universe) Channel(channel int) (byte, error) {
	if channel < 1 || channel > ChannelCount {
		return 0, &ChannelRangeError{Channel: channel}
	}

	u.mu.RLock()
	v := u.channels[channel-1]
	u.mu.RUnlock()
	return v, nil
}

// Blackout zeroes every channel. Never fails.
func (u *Universe) Blackout() {
	u.mu.Lock()
	u.channels = [ChannelCount]byte{}
	u.mu.Unlock()
}

// Snapshot returns a consistent point-in-time frame: start code plus all
// 512 channels copied under the lock, so no concurrent SetChannel can be
// half-visible.
func (u *Universe) Snapshot() Frame {
	var f Frame
	f[0] = StartCode

	u.mu.RLock()
	copy(f[1:], u.channels[:])
	u.mu.RUnlock()
	return f
}

// Restore bulk-loads all 512 channels from a frame, used by replay.
func (u *Universe) Restore(f Frame) {
	u.mu.Lock()
	copy(u.channels[:], f[1:])
	u.mu.Unlock()
}

// Values returns a copy of the channel block for display layers.
func (u *Universe) Values() [ChannelCount]byte {
	u.mu.RLock()
	v := u.channels
	u.mu.RUnlock()
	return v
}
