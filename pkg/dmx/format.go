// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"fmt"
	"strings"
)

// FormatFrame renders a frame as a hex dump, sixteen channels per row.
// The left column is the 1-based channel number of the first byte in
// the row. The start code is shown on its own line so the dump lines
// up with channel numbering.
func FormatFrame(f Frame) string {
	var b strings.Builder

	fmt.Fprintf(&b, "start code: 0x%02X\n", f.StartCode())

	data := f[1:]
	for row := 0; row < ChannelCount; row += 16 {
		fmt.Fprintf(&b, "%3d:", row+1)
		for col := 0; col < 16; col++ {
			fmt.Fprintf(&b, " %02X", data[row+col])
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// FormatChannels renders only the non-zero channels of a frame, one
// per line as "channel = value". Returns "(all channels zero)" for a
// blackout frame.
func FormatChannels(f Frame) string {
	var b strings.Builder

	count := 0
	for ch := 1; ch <= ChannelCount; ch++ {
		v := f.Channel(ch)
		if v == 0 {
			continue
		}
		fmt.Fprintf(&b, "%3d = %3d (0x%02X)\n", ch, v, v)
		count++
	}

	if count == 0 {
		return "(all channels zero)\n"
	}
	return b.String()
}

// FormatStatus renders a controller status block for CLI output.
func FormatStatus(s Status) string {
	var b strings.Builder

	fmt.Fprintf(&b, "State:    %s\n", s.State)
	if s.Endpoint != "" {
		fmt.Fprintf(&b, "Endpoint: %s\n", s.Endpoint)
	}
	fmt.Fprintf(&b, "Rate:     %d Hz target\n", s.TargetRate)
	fmt.Fprintf(&b, "Frames:   %d sent, %d dropped\n", s.Stats.Frames, s.Stats.Drops)
	if !s.Stats.LastFrameAt.IsZero() {
		fmt.Fprintf(&b, "Measured: %.1f frames/s\n", s.Stats.Rate)
	}

	return b.String()
}
