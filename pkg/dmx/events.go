// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import "time"

// EventType classifies engine events.
type EventType int

// Event types
const (
	EventConnected EventType = iota
	EventDisconnected
	EventDegraded // last write failed; background reconnect running
	EventError
	EventFrame // one successful frame transmission
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventDegraded:
		return "degraded"
	case EventError:
		return "error"
	case EventFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Event is one engine notification. Frame is set for EventFrame; Err for
// EventError and EventDegraded.
type Event struct {
	Type     EventType
	At       time.Time
	State    ConnState
	Endpoint string
	Frame    Frame
	Err      error
}

// Listener receives engine events. Handlers run synchronously on engine
// goroutines (the scheduler's, for EventFrame) and must return promptly;
// slow consumers should hand off to their own channel.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// HandleEvent calls f(e).
func (f ListenerFunc) HandleEvent(e Event) {
	f(e)
}

var _ Listener = ListenerFunc(nil)
