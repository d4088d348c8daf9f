// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/pkg/chase"
)

// playerTick is how often the chase timeline advances. Fades interpolate
// per tick, so this bounds fade smoothness, not frame rate.
const playerTick = 25 * time.Millisecond

var chaseLoop bool

var chaseCmd = &cobra.Command{
	Use:   "chase <show.yaml>",
	Short: "Run a timed show from a YAML file",
	Long: `Play a chase: a sequence of steps, each holding a set of channel values
for a duration, optionally fading in from the previous step's levels.

Show file format:

  name: warm pulse
  loop: true
  steps:
    - name: dim red
      holdS: 2.0
      fadeS: 0.5
      channels: {1: 50, 29: 16, 3: 40}
    - name: bright
      holdS: 1.0
      fadeS: 1.0
      channels: {3: 255}

Times are seconds. Steps fade from wherever the previous step left each
channel; channels never touched by the show stay at zero. A non-looping
show blacks out and exits after the last step; Ctrl+C stops a looping one.

Exit codes:
  0 - Show completed (or interrupted)
  1 - Bad show file or transmission failure
  2 - Connection error`,
	Args: cobra.ExactArgs(1),
	RunE: runChase,
}

func init() {
	rootCmd.AddCommand(chaseCmd)
	chaseCmd.Flags().BoolVar(&chaseLoop, "loop", false, "Loop the show even if the file says not to")
}

func runChase(cmd *cobra.Command, args []string) error {
	show, err := chase.Load(args[0])
	if err != nil {
		return err
	}
	if chaseLoop {
		show.Loop = true
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

	fmt.Printf("Beamcast - Chase\n")
	fmt.Printf("Connection: %s\n", ctrl.Status().Endpoint)
	fmt.Printf("Show: %s (%d steps, %.1fs per pass, loop=%v)\n\n",
		show.Name, len(show.Steps), show.TotalS(), show.Loop)

	player := chase.NewPlayer(ctrl.SetChannels)
	player.OnStep = func(i int, step chase.Step) {
		fmt.Printf("  step %d/%d  %s\n", i+1, len(show.Steps), step.Label(i))
	}
	if err := player.Load(*show); err != nil {
		return err
	}
	if err := player.Start(); err != nil {
		return err
	}

	// dt comes from the clock, not the tick count, so a stalled process
	// resumes at the right point instead of replaying the gap.
	ticker := time.NewTicker(playerTick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			player.Stop()
			fmt.Println("\nInterrupted.")
			return nil
		case now := <-ticker.C:
			if err := player.Tick(now.Sub(last).Seconds()); err != nil {
				return err
			}
			last = now
			if player.State == chase.Idle {
				fmt.Println("\nShow complete.")
				return nil
			}
		}
	}
}
