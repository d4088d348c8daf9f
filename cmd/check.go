// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/pkg/dmx"
)

var (
	checkFirst    int
	checkLast     int
	checkLevel    int
	checkStepHold time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Walk channels one at a time for addressing verification",
	Long: `Raise each channel to a test level, one at a time, and drop it again.

Point this at a freshly patched rig and watch which fixture reacts on which
channel; mismatches between the plot and the wall are found in one pass.
Each channel holds for --step-hold, previous channels return to zero before
the next one rises.

Examples:
  # Walk the whole universe, half a second per channel
  beamcast check

  # Just the dual laser block, slower
  beamcast check --first 1 --last 32 --step-hold 2s

Exit codes:
  0 - Walk completed (or interrupted with Ctrl+C)
  1 - Bad range or transmission failure
  2 - Connection error`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&checkFirst, "first", 1, "First channel to walk")
	checkCmd.Flags().IntVar(&checkLast, "last", dmx.ChannelCount, "Last channel to walk")
	checkCmd.Flags().IntVar(&checkLevel, "level", 255, "Test level (0-255)")
	checkCmd.Flags().DurationVar(&checkStepHold, "step-hold", 500*time.Millisecond, "Hold time per channel")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFirst < 1 || checkLast > dmx.ChannelCount || checkFirst > checkLast {
		return fmt.Errorf("channel range %d..%d outside [1,%d]", checkFirst, checkLast, dmx.ChannelCount)
	}
	if checkStepHold <= 0 {
		return fmt.Errorf("step hold must be positive")
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

	fmt.Printf("Beamcast - Channel Check\n")
	fmt.Printf("Connection: %s\n", ctrl.Status().Endpoint)
	fmt.Printf("Walking channels %d..%d at level %d, %v per channel. Ctrl+C stops.\n\n",
		checkFirst, checkLast, checkLevel, checkStepHold)

	for ch := checkFirst; ch <= checkLast; ch++ {
		if err := ctrl.SetChannel(ch, checkLevel); err != nil {
			return err
		}
		fmt.Printf("\rchannel %3d", ch)

		select {
		case <-ctx.Done():
			fmt.Println("\nInterrupted.")
			return nil
		case <-time.After(checkStepHold):
		}

		if err := ctrl.SetChannel(ch, 0); err != nil {
			return err
		}
	}

	fmt.Println("\nWalk complete.")
	return nil
}
