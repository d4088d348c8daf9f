// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"fmt"
	"sync"
	"time"
)

// rateWindow is the trailing window for the rolling frame rate estimate.
const rateWindow = time.Second

// Stats tracks transmission statistics. The scheduler writes from its send
// goroutine while status lines and UIs read from theirs, so all access is
// lock-scoped; readers get a consistent StatsSnapshot.
type Stats struct {
	mu        sync.Mutex
	startTime time.Time
	frames    uint64
	drops     uint64
	lastFrame time.Time
	recent    []time.Time // send timestamps within rateWindow
}

// NewStats returns a zeroed tracker.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// RecordFrame counts one successful transmission.
func (s *Stats) RecordFrame(at time.Time) {
	s.mu.Lock()
	s.frames++
	s.lastFrame = at
	s.recent = append(s.recent, at)
	s.prune(at)
	s.mu.Unlock()
}

// RecordDrops counts ticks skipped while a send was in flight.
func (s *Stats) RecordDrops(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.drops += uint64(n)
	s.mu.Unlock()
}

// prune discards send timestamps older than the rate window. Caller holds mu.
func (s *Stats) prune(now time.Time) {
	cutoff := now.Add(-rateWindow)
	i := 0
	for i < len(s.recent) && s.recent[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		s.recent = append(s.recent[:0], s.recent[i:]...)
	}
}

// Reset zeroes all counters; called on each successful connect.
func (s *Stats) Reset() {
	s.mu.Lock()
	s.startTime = time.Now()
	s.frames = 0
	s.drops = 0
	s.lastFrame = time.Time{}
	s.recent = s.recent[:0]
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(time.Now())
	return StatsSnapshot{
		Frames:      s.frames,
		Drops:       s.drops,
		Rate:        float64(len(s.recent)) / rateWindow.Seconds(),
		LastFrameAt: s.lastFrame,
		Uptime:      time.Since(s.startTime),
	}
}

// StatsSnapshot is a point-in-time view of transmission counters.
type StatsSnapshot struct {
	Frames      uint64
	Drops       uint64
	Rate        float64 // frames per second over the trailing window
	LastFrameAt time.Time
	Uptime      time.Duration
}

// String formats a one-line summary for status output.
func (s StatsSnapshot) String() string {
	last := "never"
	if !s.LastFrameAt.IsZero() {
		last = fmt.Sprintf("%.1fs ago", time.Since(s.LastFrameAt).Seconds())
	}
	return fmt.Sprintf("frames=%d drops=%d rate=%.1f/s last=%s", s.Frames, s.Drops, s.Rate, last)
}
