// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.bug.st/serial"
)

// ConfigError reports an invalid engine option. Configuration problems fail
// fast at construction and are never retried.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}

// ChannelRangeError reports a channel address outside [1,512]. It is
// synchronous and local: other channels in the same batch still apply.
type ChannelRangeError struct {
	Channel int
}

func (e *ChannelRangeError) Error() string {
	return fmt.Sprintf("channel %d out of range [1,%d]", e.Channel, ChannelCount)
}

// ConnectError wraps a transport open failure. Hint carries a
// human-actionable suggestion derived from the underlying OS error; the
// Controller retries these per its backoff policy before surfacing the
// final one to the caller.
type ConnectError struct {
	Endpoint string
	Hint     string
	Err      error
}

func (e *ConnectError) Error() string {
	msg := fmt.Sprintf("connect %s: %v", e.Endpoint, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Connect hints, keyed off the most common USB-DMX adapter failures.
const (
	hintPermission = "permission denied: add your user to the dialout group (usermod -aG dialout $USER) or adjust the device permissions"
	hintNotFound   = "device not found: check the USB cable and the adapter driver, then list detected ports with the ports command"
	hintBusy       = "port is busy: close other lighting software or a stale monitor session holding the device"
)

// connectHint derives an actionable hint from a port open failure.
// go.bug.st/serial reports platform-independent error codes; OS-level and
// string matching cover wrapped errors from other transports.
func connectHint(err error) string {
	var pe *serial.PortError
	if errors.As(err, &pe) {
		switch pe.Code() {
		case serial.PermissionDenied:
			return hintPermission
		case serial.PortNotFound:
			return hintNotFound
		case serial.PortBusy:
			return hintBusy
		}
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return hintPermission
	case errors.Is(err, fs.ErrNotExist):
		return hintNotFound
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "permission"):
		return hintPermission
	case strings.Contains(s, "no such"), strings.Contains(s, "not found"):
		return hintNotFound
	case strings.Contains(s, "busy"), strings.Contains(s, "in use"):
		return hintBusy
	}
	return ""
}
