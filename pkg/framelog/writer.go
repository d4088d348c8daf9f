// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package framelog

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/luxcraft/beamcast/pkg/dmx"
)

// Writer appends frame records to a CBOR log file. It implements
// dmx.Listener, so recording a session is one AddListener call away.
// Safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	file    *os.File
	enc     *cbor.Encoder
	session string
	written int
	closed  bool
}

// NewWriter opens path for appending (created 0644 if missing) and
// assigns the recording a fresh session ID.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}
	return &Writer{
		file:    f,
		enc:     encMode.NewEncoder(f),
		session: uuid.NewString(),
	}, nil
}

// Session returns the writer's session ID.
func (w *Writer) Session() string {
	return w.session
}

// Written returns the number of records appended so far.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// HandleEvent records frame events and ignores everything else. It runs
// on the scheduler goroutine, so encoding errors are swallowed; a full
// disk loses records, never frames.
func (w *Writer) HandleEvent(e dmx.Event) {
	if e.Type != dmx.EventFrame {
		return
	}
	w.Write(Record{
		At:       e.At,
		Endpoint: e.Endpoint,
		Frame:    append([]byte(nil), e.Frame[:]...),
	})
}

// Write appends one record, stamping it with the writer's session ID.
// Records written after Close are dropped.
func (w *Writer) Write(rec Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	rec.Session = w.session
	if err := w.enc.Encode(rec); err == nil {
		w.written++
	}
}

// Close closes the log file. Safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

var _ dmx.Listener = (*Writer)(nil)
