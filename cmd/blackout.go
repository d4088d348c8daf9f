// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var blackoutCmd = &cobra.Command{
	Use:   "blackout",
	Short: "Zero every channel and exit",
	Long: `Drive all 512 channels to zero and exit once the frames have had
time to reach the fixture.

Useful as a panic button and at the end of scripted shows. The engine also
blacks out on every normal disconnect; this command exists for fixtures
left lit by a crashed process or another controller.

Exit codes:
  0 - Blackout transmitted
  2 - Connection error`,
	RunE: runBlackout,
}

func init() {
	rootCmd.AddCommand(blackoutCmd)
}

func runBlackout(cmd *cobra.Command, args []string) error {
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

	ctrl.Blackout()

	// Let a few zero frames hit the wire before disconnecting.
	interval := time.Second / time.Duration(ctrl.Status().TargetRate)
	select {
	case <-ctx.Done():
	case <-time.After(3 * interval):
	}

	fmt.Printf("Blackout sent on %s\n", ctrl.Status().Endpoint)
	return nil
}
