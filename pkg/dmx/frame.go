// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

// Frame is one complete DMX packet: the start code followed by all 512
// channel values. Frames have value semantics, so a frame handed to a
// transport or a listener is a point-in-time snapshot that can never show
// a torn write.
type Frame [FrameSize]byte

// ZeroFrame returns a blackout frame: start code plus 512 zero channels.
func ZeroFrame() Frame {
	var f Frame
	f[0] = StartCode
	return f
}

// StartCode returns the frame's start code byte.
func (f Frame) StartCode() byte {
	return f[0]
}

// Channel returns the value of a 1-based channel, or 0 if the channel is
// out of range. Display helper; use Universe.Channel for checked reads.
func (f Frame) Channel(channel int) byte {
	if channel < 1 || channel > ChannelCount {
		return 0
	}
	return f[channel]
}

// Channels returns a copy of the 512 data bytes without the start code.
func (f Frame) Channels() []byte {
	out := make([]byte, ChannelCount)
	copy(out, f[1:])
	return out
}

// Active returns the count of non-zero channels, useful for status lines.
func (f Frame) Active() int {
	n := 0
	for _, v := range f[1:] {
		if v != 0 {
			n++
		}
	}
	return n
}
