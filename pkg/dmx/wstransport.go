// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Bridge keepalive and write pacing.
const (
	bridgeHandshakeTimeout = 10 * time.Second
	bridgeWriteTimeout     = 5 * time.Second
	bridgePingInterval     = 20 * time.Second
	bridgePongWait         = 60 * time.Second
)

// BridgeDialer connects to a remote DMX gateway over WebSocket. The gateway
// receives one binary message per frame (the raw 513 bytes) and puts it on
// its local wire; this lets a fixture hang off a far-away adapter.
type BridgeDialer struct {
	URL      string
	Username string
	Password string

	// InsecureSkipVerify disables TLS certificate verification for
	// wss:// targets (self-signed gateway certs).
	InsecureSkipVerify bool
}

func (d BridgeDialer) Endpoint() string {
	return d.URL
}

func (d BridgeDialer) Dial(ctx context.Context) (FrameTransport, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return nil, &ConfigError{Option: "url", Reason: err.Error()}
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, &ConfigError{Option: "url", Reason: fmt.Sprintf("unsupported scheme %q (use ws:// or wss://)", u.Scheme)}
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: bridgeHandshakeTimeout,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: d.InsecureSkipVerify,
		}
	}

	headers := http.Header{}
	if d.Username != "" && d.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(d.Username + ":" + d.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	conn, resp, err := dialer.DialContext(ctx, d.URL, headers)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("handshake failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, &ConnectError{Endpoint: d.URL, Hint: connectHint(err), Err: err}
	}

	t := &BridgeTransport{
		conn: conn,
		url:  d.URL,
		done: make(chan struct{}),
	}

	// The gateway never sends data frames, but the connection must be
	// read to service pongs and close frames.
	_ = conn.SetReadDeadline(time.Now().Add(bridgePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(bridgePongWait))
	})
	go t.readLoop()
	go t.keepalive()

	return t, nil
}

// BridgeTransport sends frames to a WebSocket DMX gateway, one binary
// message per frame. A background ping loop detects dead gateways between
// frames.
type BridgeTransport struct {
	conn *websocket.Conn
	url  string
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func (t *BridgeTransport) SendFrame(f Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("gateway %s: %w", t.url, ErrTransportClosed)
	}

	_ = t.conn.SetWriteDeadline(time.Now().Add(bridgeWriteTimeout))
	if err := t.conn.WriteMessage(websocket.BinaryMessage, f[:]); err != nil {
		return fmt.Errorf("send frame to %s: %w", t.url, err)
	}
	return nil
}

// Close sends a polite close frame and drops the socket. Idempotent.
func (t *BridgeTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.done)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	t.mu.Unlock()

	return t.conn.Close()
}

func (t *BridgeTransport) Describe() string {
	return "gateway " + t.url
}

// readLoop pumps control frames. On any read error the socket is closed,
// which poisons the next SendFrame and lets the Controller degrade.
func (t *BridgeTransport) readLoop() {
	for {
		if _, _, err := t.conn.ReadMessage(); err != nil {
			select {
			case <-t.done:
			default:
				_ = t.conn.Close()
			}
			return
		}
	}
}

func (t *BridgeTransport) keepalive() {
	ticker := time.NewTicker(bridgePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			// WriteControl is safe concurrently with SendFrame.
			err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(bridgeWriteTimeout))
			if err != nil {
				return
			}
		}
	}
}

var _ FrameTransport = (*BridgeTransport)(nil)
var _ Dialer = BridgeDialer{}
