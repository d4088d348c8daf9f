// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/Haba1234/go-artnet"
)

// DefaultArtNetCIDR is the primary Art-Net network range; nodes on other
// subnets need an explicit CIDR.
const DefaultArtNetCIDR = "2.0.0.0/8"

// ArtNetDialer sends the universe to network nodes as ArtDMX instead of a
// local serial adapter. Break/MAB timing does not apply; the node's own
// output stage handles wire framing.
type ArtNetDialer struct {
	// CIDR selects the local interface to bind, by address range.
	// Empty means DefaultArtNetCIDR.
	CIDR string

	// Universe is the packed Art-Net port address (high byte Net, low
	// byte SubUni).
	Universe uint16
}

func (d ArtNetDialer) Endpoint() string {
	return fmt.Sprintf("artnet:universe-%d", d.Universe)
}

func (d ArtNetDialer) Dial(ctx context.Context) (FrameTransport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cidr := d.CIDR
	if cidr == "" {
		cidr = DefaultArtNetCIDR
	}
	ip, err := findInterfaceIP(cidr)
	if err != nil {
		return nil, &ConnectError{Endpoint: d.Endpoint(), Err: err}
	}

	host, err := os.Hostname()
	if err != nil {
		host = "beamcast"
	}
	host = strings.ToLower(strings.Split(host, ".")[0])

	sender := artnet.NewController(host, ip, artnet.NewDefaultLogger("error"), artnet.MaxFPS(MaxFrameRate))
	if err := sender.Start(); err != nil {
		return nil, &ConnectError{Endpoint: d.Endpoint(), Err: fmt.Errorf("start controller on %s: %w", ip, err)}
	}

	var addr [2]byte
	binary.BigEndian.PutUint16(addr[:], d.Universe)

	return &ArtNetTransport{
		sender: sender,
		addr:   artnet.Address{Net: addr[0], SubUni: addr[1]},
		label:  fmt.Sprintf("artnet universe %d via %s", d.Universe, ip),
	}, nil
}

// findInterfaceIP returns the first local IPv4 address inside the given
// network range.
func findInterfaceIP(cidr string) (net.IP, error) {
	_, cidrNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("parse CIDR %q: %w", cidr, err)
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("list interface addresses: %w", err)
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil {
			continue
		}
		if cidrNet.Contains(ip) {
			return ip, nil
		}
	}

	return nil, fmt.Errorf("no interface inside %s", cidr)
}

// ArtNetTransport broadcasts frames as ArtDMX packets. Sends are UDP
// fire-and-forget; failures only surface when the socket itself dies.
type ArtNetTransport struct {
	sender *artnet.Controller
	addr   artnet.Address
	label  string

	mu     sync.Mutex
	closed bool
}

func (t *ArtNetTransport) SendFrame(f Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("%s: %w", t.label, ErrTransportClosed)
	}

	var channels [ChannelCount]byte
	copy(channels[:], f[1:])
	t.sender.SendDMXToAddress(channels, t.addr)
	return nil
}

func (t *ArtNetTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.sender.Stop()
	return nil
}

func (t *ArtNetTransport) Describe() string {
	return t.label
}

var _ FrameTransport = (*ArtNetTransport)(nil)
var _ Dialer = ArtNetDialer{}
