// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

// SerialDialer opens the reference DMX transport: a UART behind an RS-485
// driver, run at 250 kbaud 8N2. An empty Port auto-detects the first USB
// serial adapter.
type SerialDialer struct {
	Port string
	Baud int // 0 means BaudRate

	// Break and MarkAfterBreak override the frame preamble timing.
	// Zero means the defaults; values below the DMX512 minimums are
	// rejected.
	Break          time.Duration
	MarkAfterBreak time.Duration
}

func (d SerialDialer) Endpoint() string {
	if d.Port == "" {
		return "serial:auto"
	}
	return "serial:" + d.Port
}

func (d SerialDialer) Dial(ctx context.Context) (FrameTransport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	brk := d.Break
	if brk == 0 {
		brk = DefaultBreak
	}
	if brk < MinBreak {
		return nil, &ConfigError{Option: "break", Reason: fmt.Sprintf("%v below the DMX512 minimum of %v", brk, MinBreak)}
	}
	mab := d.MarkAfterBreak
	if mab == 0 {
		mab = DefaultMarkAfterBreak
	}
	if mab < MinMarkAfterBreak {
		return nil, &ConfigError{Option: "mark-after-break", Reason: fmt.Sprintf("%v below the DMX512 minimum of %v", mab, MinMarkAfterBreak)}
	}

	portName := d.Port
	if portName == "" {
		detected, err := DetectPort()
		if err != nil {
			return nil, &ConnectError{Endpoint: d.Endpoint(), Hint: hintNotFound, Err: err}
		}
		portName = detected
	}

	baud := d.Baud
	if baud == 0 {
		baud = BaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.TwoStopBits,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, &ConnectError{Endpoint: "serial:" + portName, Hint: connectHint(err), Err: err}
	}

	return &SerialTransport{
		port:      port,
		portName:  portName,
		baud:      baud,
		breakTime: brk,
		markTime:  mab,
	}, nil
}

// SerialTransport emits DMX frames on an open serial port. Each frame goes
// out as a UART break, the mark-after-break idle, then the 513 bytes; the
// port is drained before SendFrame returns so frames never interleave with
// the next break.
type SerialTransport struct {
	port      serial.Port
	portName  string
	baud      int
	breakTime time.Duration
	markTime  time.Duration

	mu     sync.Mutex
	closed bool
}

func (t *SerialTransport) SendFrame(f Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("serial %s: %w", t.portName, ErrTransportClosed)
	}

	if err := t.port.Break(t.breakTime); err != nil {
		return fmt.Errorf("break on %s: %w", t.portName, err)
	}
	// The line idles high after the break; holding it for the MAB
	// separates the break from the start code's start bit.
	time.Sleep(t.markTime)

	if _, err := t.port.Write(f[:]); err != nil {
		return fmt.Errorf("write frame to %s: %w", t.portName, err)
	}
	if err := t.port.Drain(); err != nil {
		return fmt.Errorf("drain %s: %w", t.portName, err)
	}
	return nil
}

// Close drains any in-flight write, then closes the port. Idempotent.
func (t *SerialTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	_ = t.port.Drain()
	return t.port.Close()
}

func (t *SerialTransport) Describe() string {
	return fmt.Sprintf("serial %s @ %d 8N2", t.portName, t.baud)
}

var _ FrameTransport = (*SerialTransport)(nil)
var _ Dialer = SerialDialer{}
