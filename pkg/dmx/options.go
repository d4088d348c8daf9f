// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"fmt"
	"time"
)

// Options tunes the Controller. The zero value selects the defaults.
type Options struct {
	// FrameRate is the refresh rate in Hz, 1..44.
	FrameRate int

	// MaxRetries is the total number of dial attempts per connect (and
	// per background reconnect after a write failure).
	MaxRetries int

	// ConnectTimeout bounds each individual dial attempt.
	ConnectTimeout time.Duration

	// RetryBackoff is the delay after the first failed attempt; it
	// doubles per attempt up to MaxBackoff.
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
}

func (o Options) withDefaults() Options {
	if o.FrameRate == 0 {
		o.FrameRate = DefaultFrameRate
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.RetryBackoff == 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}
	if o.MaxBackoff == 0 {
		o.MaxBackoff = DefaultMaxBackoff
	}
	return o
}

func (o Options) validate() error {
	if o.FrameRate < MinFrameRate || o.FrameRate > MaxFrameRate {
		return &ConfigError{
			Option: "frame-rate",
			Reason: fmt.Sprintf("%d Hz outside [%d,%d]", o.FrameRate, MinFrameRate, MaxFrameRate),
		}
	}
	if o.MaxRetries < 1 {
		return &ConfigError{Option: "max-retries", Reason: "need at least one attempt"}
	}
	if o.ConnectTimeout <= 0 {
		return &ConfigError{Option: "connect-timeout", Reason: "must be positive"}
	}
	if o.RetryBackoff <= 0 {
		return &ConfigError{Option: "retry-backoff", Reason: "must be positive"}
	}
	if o.MaxBackoff < o.RetryBackoff {
		return &ConfigError{Option: "max-backoff", Reason: "below the initial backoff"}
	}
	return nil
}
