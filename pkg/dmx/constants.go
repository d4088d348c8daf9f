// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

// Package dmx implements a DMX512 transmission engine.
//
// DMX512 is a unidirectional, continuously-refreshed serial broadcast
// protocol for stage lighting: one universe carries 512 single-byte channel
// values per frame. This package owns the universe state, generates
// protocol-correct frames (break, mark-after-break, start code, 512 data
// bytes) and drives a jitter-tolerant refresh loop over a serial port, a
// WebSocket DMX gateway, or an Art-Net node. The universe is safely mutable
// from any goroutine while transmission is running.
//
// See ANSI E1.11 (DMX512-A) for the wire-level timing requirements.
package dmx

import "time"

// Universe dimensions
const (
	ChannelCount = 512              // channels per universe, addressed 1..512
	FrameSize    = ChannelCount + 1 // start code + channel data
)

// StartCode identifies standard dimmer data. Alternate start codes (RDM,
// text packets) are not implemented.
const StartCode byte = 0x00

// Serial line parameters. DMX512 runs at a fixed 250 kbaud with 8 data
// bits, 2 stop bits and no parity.
const (
	BaudRate = 250000
	DataBits = 8
)

// Break / mark-after-break timing. The standard requires a break of at
// least 88 us and a MAB of at least 8 us; the defaults carry some margin
// for slow optocoupled inputs.
const (
	MinBreak          = 88 * time.Microsecond
	MinMarkAfterBreak = 8 * time.Microsecond

	DefaultBreak          = 176 * time.Microsecond
	DefaultMarkAfterBreak = 12 * time.Microsecond
)

// Refresh rate limits. A full 513-byte frame plus break occupies ~23 ms on
// the wire, which caps the refresh rate at roughly 44 Hz.
const (
	MinFrameRate     = 1
	MaxFrameRate     = 44
	DefaultFrameRate = 30
)

// Connect retry defaults, used when Options leaves them zero.
const (
	DefaultMaxRetries     = 3
	DefaultConnectTimeout = 8 * time.Second
	DefaultRetryBackoff   = 500 * time.Millisecond
	DefaultMaxBackoff     = 30 * time.Second
)

// ConnState is the connection lifecycle state owned by Controller.
type ConnState int

// Connection states
const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateDegraded // connected but the last write failed; reconnecting
	StateFailed   // retries exhausted; explicit Connect required
)

// String returns the state name.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDegraded:
		return "degraded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
