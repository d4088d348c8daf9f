// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works

package dmx

import (
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port found on the host. USB metadata is
// populated only when the port sits behind a USB bridge, which covers
// every common DMX interface (FTDI, CP210x, CH340).
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// String returns a one-line description suitable for port listings.
func (p PortInfo) String() string {
	if !p.IsUSB {
		return p.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s [USB %s:%s]", p.Name, p.VID, p.PID)
	if p.Product != "" {
		fmt.Fprintf(&b, " %s", p.Product)
	}
	if p.SerialNumber != "" {
		fmt.Fprintf(&b, " (serial %s)", p.SerialNumber)
	}
	return b.String()
}

// ListPorts enumerates the serial ports present on the host.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return ports, nil
}

// DetectPort picks the first USB serial device on the host. DMX
// interfaces are almost always USB bridges, so motherboard UARTs are
// skipped. Returns a ConnectError with guidance when nothing suitable
// is found.
func DetectPort() (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}

	for _, p := range ports {
		if p.IsUSB {
			return p.Name, nil
		}
	}

	return "", &ConnectError{
		Endpoint: "auto",
		Hint:     hintNotFound,
		Err:      fmt.Errorf("no USB serial device found (%d ports total)", len(ports)),
	}
}
