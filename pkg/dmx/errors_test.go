// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestConnectHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "wrapped permission error",
			err:  fmt.Errorf("open /dev/ttyUSB0: %w", fs.ErrPermission),
			want: hintPermission,
		},
		{
			name: "wrapped not-exist error",
			err:  fmt.Errorf("open /dev/ttyUSB0: %w", fs.ErrNotExist),
			want: hintNotFound,
		},
		{
			name: "busy by message",
			err:  errors.New("open /dev/ttyUSB0: device or resource busy"),
			want: hintBusy,
		},
		{
			name: "in use by message",
			err:  errors.New("port already in use"),
			want: hintBusy,
		},
		{
			name: "permission by message",
			err:  errors.New("Permission denied"),
			want: hintPermission,
		},
		{
			name: "not found by message",
			err:  errors.New("no such file or directory"),
			want: hintNotFound,
		},
		{
			name: "unrecognized error gets no hint",
			err:  errors.New("input/output error"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connectHint(tt.err); got != tt.want {
				t.Errorf("connectHint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnectErrorMessage(t *testing.T) {
	inner := errors.New("boom")
	err := &ConnectError{Endpoint: "/dev/ttyUSB0", Hint: hintBusy, Err: inner}

	msg := err.Error()
	if !strings.Contains(msg, "/dev/ttyUSB0") {
		t.Errorf("Error() = %q, want endpoint included", msg)
	}
	if !strings.Contains(msg, "("+hintBusy+")") {
		t.Errorf("Error() = %q, want hint in parentheses", msg)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() cannot see the wrapped cause")
	}
}

func TestConnectErrorWithoutHint(t *testing.T) {
	err := &ConnectError{Endpoint: "ws://bridge", Err: errors.New("refused")}
	if strings.Contains(err.Error(), "(") {
		t.Errorf("Error() = %q, want no parenthesized hint", err.Error())
	}
}

func TestChannelRangeErrorMessage(t *testing.T) {
	err := &ChannelRangeError{Channel: 513}
	want := "channel 513 out of range [1,512]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Option: "frame-rate", Reason: "45 Hz outside [1,44]"}
	want := "invalid option frame-rate: 45 Hz outside [1,44]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
