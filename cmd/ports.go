// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/pkg/dmx"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Long: `List the serial ports on this machine.

USB devices show their vendor:product IDs and serial numbers, which is
usually enough to spot a DMX adapter (FTDI and CH340 parts are common).
Without --port, beamcast transmits on the first USB serial device; the
marker in this list shows which one that would be.

Examples:
  # List everything
  beamcast ports

  # Then transmit on a specific device
  beamcast send --port /dev/ttyUSB1 1=255

Exit codes:
  0 - Ports listed (a machine with none still exits 0)
  1 - Enumeration failed`,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := dmx.ListPorts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Enumeration error: %v\n", err)
		os.Exit(1)
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}

	autoPicked := false
	for _, p := range ports {
		marker := "  "
		if p.IsUSB && !autoPicked {
			marker = "* "
			autoPicked = true
		}
		fmt.Printf("%s%s\n", marker, p)
	}

	if autoPicked {
		fmt.Printf("\n* auto-detect target when --port is not given\n")
	} else {
		fmt.Printf("\nNo USB serial device; auto-detect would fail. Use --port.\n")
	}
	return nil
}
