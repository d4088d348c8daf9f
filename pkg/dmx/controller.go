// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Controller is the public face of the engine. It composes the Universe,
// the Scheduler and a Dialer: callers mutate channels from any goroutine
// while the scheduler transmits continuously. The controller owns the
// connection lifecycle itself, from the initial dial and its retry
// backoff to write-failure degradation and the blackout on disconnect.
//
// Connection state is owned exclusively by the controller; everything else
// observes it through Status, State and events.
type Controller struct {
	dialer Dialer
	opts   Options
	log    logrus.FieldLogger

	universe *Universe
	stats    *Stats
	sched    *Scheduler

	mu        sync.Mutex
	state     ConnState
	transport FrameTransport
	retryStop context.CancelFunc // cancels a background reconnect

	lmu          sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// Status is a point-in-time view of the controller for status lines and
// dashboards.
type Status struct {
	State      ConnState
	Connected  bool
	Endpoint   string
	TargetRate int // configured Hz; Stats.Rate is the measured rate
	Stats      StatsSnapshot
}

// New builds a controller around a dialer. Options are validated up front;
// an invalid combination fails fast with *ConfigError and is never retried.
func New(dialer Dialer, opts Options, log logrus.FieldLogger) (*Controller, error) {
	if dialer == nil {
		return nil, &ConfigError{Option: "dialer", Reason: "required"}
	}
	if log == nil {
		return nil, &ConfigError{Option: "log", Reason: "required"}
	}

	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		dialer:    dialer,
		opts:      opts,
		log:       log.WithField("module", "dmx"),
		universe:  NewUniverse(),
		stats:     NewStats(),
		state:     StateDisconnected,
		listeners: map[int]Listener{},
	}

	sched, err := NewScheduler(c.universe, c.stats, log, opts.FrameRate, c.onSchedulerEvent)
	if err != nil {
		return nil, err
	}
	c.sched = sched
	return c, nil
}

// Universe exposes the channel buffer for layers that batch their own
// updates (chase player, replay).
func (c *Controller) Universe() *Universe {
	return c.universe
}

// SetChannel stores value on a 1-based channel; see Universe.SetChannel.
func (c *Controller) SetChannel(channel, value int) error {
	return c.universe.SetChannel(channel, value)
}

// SetChannels applies a batch of updates; see Universe.SetChannels.
func (c *Controller) SetChannels(values map[int]int) error {
	return c.universe.SetChannels(values)
}

// Channel reads one channel value.
func (c *Controller) Channel(channel int) (byte, error) {
	return c.universe.Channel(channel)
}

// Blackout zeroes the universe; the zeros go out on the next tick.
func (c *Controller) Blackout() {
	c.universe.Blackout()
	c.log.Debug("blackout")
}

// State returns the connection state.
func (c *Controller) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the state, endpoint and statistics in one consistent view.
func (c *Controller) Status() Status {
	c.mu.Lock()
	st := c.state
	endpoint := c.dialer.Endpoint()
	if c.transport != nil {
		endpoint = c.transport.Describe()
	}
	c.mu.Unlock()

	return Status{
		State:      st,
		Connected:  st == StateConnected,
		Endpoint:   endpoint,
		TargetRate: c.opts.FrameRate,
		Stats:      c.stats.Snapshot(),
	}
}

// AddListener registers a listener for engine events and returns the
// function that removes it. Handlers run synchronously on engine
// goroutines and must not block.
func (c *Controller) AddListener(l Listener) (remove func()) {
	c.lmu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = l
	c.lmu.Unlock()

	return func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}
}

func (c *Controller) dispatch(ev Event) {
	c.lmu.Lock()
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.lmu.Unlock()

	for _, l := range ls {
		l.HandleEvent(ev)
	}
}

// Connect dials the transport and starts transmission. Returns nil when
// already connected; from Connecting or Degraded it returns an error since
// a dial is already in progress. Dial failures are retried with
// exponential backoff up to MaxRetries attempts; exhaustion transitions to
// StateFailed and returns the final *ConnectError.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateConnected:
		c.mu.Unlock()
		return nil
	case StateConnecting, StateDegraded:
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("connect: already %s", st)
	}
	c.state = StateConnecting
	c.mu.Unlock()

	transport, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.mu.Unlock()
		c.dispatch(Event{
			Type:     EventError,
			At:       time.Now(),
			State:    StateFailed,
			Endpoint: c.dialer.Endpoint(),
			Err:      err,
		})
		return err
	}

	c.mu.Lock()
	if c.state != StateConnecting {
		st := c.state
		c.mu.Unlock()
		_ = transport.Close()
		return fmt.Errorf("connect aborted: state changed to %s", st)
	}
	c.transport = transport
	c.state = StateConnected
	c.mu.Unlock()

	c.stats.Reset()
	if err := c.sched.Start(c.currentTransport); err != nil {
		return err
	}

	c.log.WithField("endpoint", transport.Describe()).Info("connected")
	c.dispatch(Event{
		Type:     EventConnected,
		At:       time.Now(),
		State:    StateConnected,
		Endpoint: transport.Describe(),
	})
	return nil
}

// dial attempts the transport up to MaxRetries times with exponential
// backoff. Configuration errors abort immediately; they never heal on
// retry.
func (c *Controller) dial(ctx context.Context) (FrameTransport, error) {
	backoff := c.opts.RetryBackoff
	var lastErr error

	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
		transport, err := c.dialer.Dial(attemptCtx)
		cancel()
		if err == nil {
			return transport, nil
		}

		var ce *ConfigError
		if errors.As(err, &ce) {
			return nil, err
		}

		lastErr = err
		c.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"of":      c.opts.MaxRetries,
			"backoff": backoff,
		}).WithError(err).Warn("connect attempt failed")

		if attempt == c.opts.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect cancelled: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.opts.MaxBackoff {
			backoff = c.opts.MaxBackoff
		}
	}
	return nil, lastErr
}

// currentTransport is the scheduler's SendSource: the live transport while
// connected, nil otherwise so ticks are skipped.
func (c *Controller) currentTransport() FrameTransport {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return nil
	}
	return c.transport
}

// onSchedulerEvent enriches scheduler events and reacts to send failures.
func (c *Controller) onSchedulerEvent(ev Event) {
	ev.Endpoint = c.dialer.Endpoint()
	ev.State = c.State()

	if ev.Type == EventError {
		c.dispatch(ev)
		c.degrade(ev.Err)
		return
	}
	c.dispatch(ev)
}

// degrade handles a write failure while connected: close the dead
// transport, mark the state and reconnect in the background with the same
// backoff policy as Connect. The fixture keeps whatever frame it last
// received.
func (c *Controller) degrade(cause error) {
	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return
	}
	c.state = StateDegraded
	transport := c.transport
	c.transport = nil

	ctx, cancel := context.WithCancel(context.Background())
	c.retryStop = cancel
	c.mu.Unlock()

	if transport != nil {
		_ = transport.Close()
	}

	c.log.WithError(cause).Warn("write failed; reconnecting")
	c.dispatch(Event{
		Type:     EventDegraded,
		At:       time.Now(),
		State:    StateDegraded,
		Endpoint: c.dialer.Endpoint(),
		Err:      cause,
	})

	go c.reconnect(ctx)
}

func (c *Controller) reconnect(ctx context.Context) {
	transport, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		c.retryStop = nil
		if c.state == StateDegraded {
			c.state = StateFailed
		}
		st := c.state
		c.mu.Unlock()

		if st != StateFailed {
			return // disconnected while retrying
		}

		c.sched.Stop()
		final := fmt.Errorf("reconnect: %w", err)
		c.log.WithError(err).Error("reconnect failed; transmission halted")
		c.dispatch(Event{
			Type:     EventError,
			At:       time.Now(),
			State:    StateFailed,
			Endpoint: c.dialer.Endpoint(),
			Err:      final,
		})
		return
	}

	c.mu.Lock()
	if ctx.Err() != nil || c.state != StateDegraded {
		c.mu.Unlock()
		_ = transport.Close()
		return
	}
	c.transport = transport
	c.state = StateConnected
	c.retryStop = nil
	c.mu.Unlock()

	c.log.WithField("endpoint", transport.Describe()).Info("reconnected")
	c.dispatch(Event{
		Type:     EventConnected,
		At:       time.Now(),
		State:    StateConnected,
		Endpoint: transport.Describe(),
	})
}

// Disconnect stops the scheduler (waiting out any in-flight send), zeroes
// the universe, transmits one best-effort blackout frame so the fixture
// does not latch its last state, then closes the transport. Idempotent.
func (c *Controller) Disconnect() error {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	if c.retryStop != nil {
		c.retryStop()
		c.retryStop = nil
	}
	transport := c.transport
	c.transport = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	c.sched.Stop()
	c.universe.Blackout()

	if transport != nil {
		if err := transport.SendFrame(c.universe.Snapshot()); err != nil {
			c.log.WithError(err).Warn("blackout frame not sent")
		}
		if err := transport.Close(); err != nil {
			c.log.WithError(err).Warn("close transport")
		}
	}

	c.log.Info("disconnected")
	c.dispatch(Event{
		Type:     EventDisconnected,
		At:       time.Now(),
		State:    StateDisconnected,
		Endpoint: c.dialer.Endpoint(),
	})
	return nil
}
