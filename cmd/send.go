// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var sendHold time.Duration

var sendCmd = &cobra.Command{
	Use:   "send <channel=value> [channel=value ...]",
	Short: "Set raw channel values and transmit",
	Long: `Set channels to raw byte values and keep transmitting them.

Channels are 1-512, values 0-255. The universe refreshes continuously, so
the fixture holds the look until the command exits; on exit the universe is
blacked out (a dark fixture beats a frozen one).

Examples:
  # Lamp on manual (channel 1), full pattern (channel 3), hold until Ctrl+C
  beamcast send 1=50 3=255

  # Hold for two seconds, then black out and exit
  beamcast send --hold 2s 1=50

Exit codes:
  0 - Values transmitted
  1 - Bad arguments or transmission failure
  2 - Connection error`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().DurationVar(&sendHold, "hold", 0, "How long to hold before exiting (0 = until Ctrl+C)")
}

// parseChannelArgs turns "1=255" pairs into a channel value map. Syntax
// only; range checking is the engine's call.
func parseChannelArgs(args []string) (map[int]int, error) {
	values := make(map[int]int, len(args))
	for _, arg := range args {
		chStr, valStr, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q: want channel=value", arg)
		}
		ch, err := strconv.Atoi(chStr)
		if err != nil {
			return nil, fmt.Errorf("argument %q: channel %q is not a number", arg, chStr)
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			return nil, fmt.Errorf("argument %q: value %q is not a number", arg, valStr)
		}
		values[ch] = val
	}
	return values, nil
}

func runSend(cmd *cobra.Command, args []string) error {
	values, err := parseChannelArgs(args)
	if err != nil {
		return err
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ctrl, cleanup, err := openController(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer cleanup()

	if err := ctrl.SetChannels(values); err != nil {
		return err
	}

	st := ctrl.Status()
	fmt.Printf("Beamcast - Channel Send\n")
	fmt.Printf("Connection: %s @ %d Hz\n\n", st.Endpoint, st.TargetRate)
	channels := make([]int, 0, len(values))
	for ch := range values {
		channels = append(channels, ch)
	}
	slices.Sort(channels)
	for _, ch := range channels {
		fmt.Printf("  channel %3d = %d\n", ch, values[ch])
	}

	if sendHold > 0 {
		fmt.Printf("\nHolding for %v...\n", sendHold)
		select {
		case <-ctx.Done():
		case <-time.After(sendHold):
		}
	} else {
		fmt.Printf("\nHolding. Press Ctrl+C to black out and exit.\n")
		<-ctx.Done()
		fmt.Println()
	}
	return nil
}
