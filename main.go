// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Luxcraft Works
//
// Beamcast - DMX512 Transmission Engine
//
// A CLI tool for driving DMX512 fixtures over local serial adapters,
// WebSocket gateways and Art-Net nodes, with fixture profiles, timed
// shows, frame recording and an MQTT bridge.

package main

import (
	"os"

	"github.com/luxcraft/beamcast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
