// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"context"
	"errors"
)

// ErrTransportClosed is returned by SendFrame on a transport that has
// already been closed.
var ErrTransportClosed = errors.New("transport closed")

// FrameTransport carries complete DMX frames to an output: a serial
// adapter, a remote WebSocket gateway, or an Art-Net node. Implementations
// are driven from the scheduler's single send goroutine; only Close may be
// called concurrently with SendFrame.
type FrameTransport interface {
	// SendFrame transmits one complete frame as an atomic unit. A send
	// failure must leave the transport open; the Controller decides
	// whether to degrade and reconnect.
	SendFrame(Frame) error

	// Close releases the output, letting any in-flight write drain
	// first. Idempotent.
	Close() error

	// Describe returns a human-readable endpoint label for logs and
	// status lines.
	Describe() string
}

// Dialer opens a FrameTransport. Connect retries reuse the same Dialer, so
// implementations must be safe to call repeatedly.
type Dialer interface {
	Dial(ctx context.Context) (FrameTransport, error)

	// Endpoint names the dial target without opening it.
	Endpoint() string
}
