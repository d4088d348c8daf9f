// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SendSource yields the transport for the next frame, or nil when nothing
// is connected and the tick should be skipped.
type SendSource func() FrameTransport

// Scheduler drives the refresh loop: one dedicated goroutine that wakes on
// a monotonic ticker, snapshots the universe and sends the frame
// synchronously. Sending in the loop body makes overlapping transmissions
// structurally impossible; when a slow send holds the loop past one or more
// tick periods those ticks are dropped (counted, never queued), trading
// late frames for bounded latency.
type Scheduler struct {
	universe *Universe
	stats    *Stats
	log      logrus.FieldLogger
	notify   func(Event)
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewScheduler builds a scheduler for the given refresh rate in Hz. The
// notify callback receives EventFrame per transmission and EventError per
// send failure; it may be nil.
func NewScheduler(universe *Universe, stats *Stats, log logrus.FieldLogger, rate int, notify func(Event)) (*Scheduler, error) {
	if universe == nil {
		return nil, &ConfigError{Option: "universe", Reason: "required"}
	}
	if stats == nil {
		return nil, &ConfigError{Option: "stats", Reason: "required"}
	}
	if log == nil {
		return nil, &ConfigError{Option: "log", Reason: "required"}
	}
	if rate < MinFrameRate || rate > MaxFrameRate {
		return nil, &ConfigError{
			Option: "frame-rate",
			Reason: fmt.Sprintf("%d Hz outside [%d,%d]", rate, MinFrameRate, MaxFrameRate),
		}
	}
	if notify == nil {
		notify = func(Event) {}
	}

	return &Scheduler{
		universe: universe,
		stats:    stats,
		log:      log.WithField("module", "scheduler"),
		notify:   notify,
		interval: time.Second / time.Duration(rate),
	}, nil
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start launches the refresh loop. A no-op when already running.
func (s *Scheduler) Start(src SendSource) error {
	if src == nil {
		return &ConfigError{Option: "source", Reason: "required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx, src, s.done)
	s.log.WithField("interval", s.interval).Debug("refresh loop started")
	return nil
}

// Stop cancels the tick timer and returns once the loop has exited,
// including completion of any in-flight send. No frame is transmitted
// after Stop returns. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.running = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()
	s.log.Debug("refresh loop stopped")
}

func (s *Scheduler) run(ctx context.Context, src SendSource, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var prevTick time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// Ticks that fired while the previous send was still
			// in flight coalesced inside the ticker; the gap
			// between tick timestamps says how many were skipped.
			// Accounting off elapsed time keeps the loop free of
			// accumulated drift.
			if !prevTick.IsZero() {
				missed := int((now.Sub(prevTick) + s.interval/2) / s.interval)
				if missed > 1 {
					s.stats.RecordDrops(missed - 1)
					s.log.WithField("skipped", missed-1).Debug("tick skipped; previous send still in flight")
				}
			}
			prevTick = now

			transport := src()
			if transport == nil {
				continue
			}

			frame := s.universe.Snapshot()
			if err := transport.SendFrame(frame); err != nil {
				s.notify(Event{
					Type: EventError,
					At:   time.Now(),
					Err:  fmt.Errorf("send frame: %w", err),
				})
				continue
			}

			sent := time.Now()
			s.stats.RecordFrame(sent)
			s.notify(Event{Type: EventFrame, At: sent, Frame: frame})
		}
	}
}
