// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/pkg/framelog"
)

var replaySpeed float64

var replayCmd = &cobra.Command{
	Use:   "replay <file.blog>",
	Short: "Replay a recorded frame log onto the wire",
	Long: `Read a frame log written by --record and retransmit it, pacing frames
by their recorded timestamps. Each record overwrites the whole universe,
so the output matches the original run channel for channel.

Examples:
  beamcast replay show.blog
  beamcast replay --speed 2.0 show.blog     # twice as fast
  beamcast replay --speed 0.5 rehearsal.blog

Exit codes:
  0 - Replay finished (or interrupted)
  1 - Unreadable log or transmission failure
  2 - Connection error`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replaySpeed <= 0 {
		return fmt.Errorf("speed %.3f must be positive", replaySpeed)
	}

	rd, err := framelog.NewReader(args[0])
	if err != nil {
		return err
	}
	defer rd.Close()

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

	fmt.Printf("Beamcast - Replay\n")
	fmt.Printf("Connection: %s\n", ctrl.Status().Endpoint)
	fmt.Printf("Log: %s at %.2fx\n\n", args[0], replaySpeed)

	var (
		count   int
		prevAt  time.Time
		session string
	)
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if rec.Session != session {
			if session != "" {
				fmt.Printf("  session %s\n", rec.Session)
			}
			session = rec.Session
			prevAt = time.Time{}
		}

		// Pace by recorded spacing. The first record of the file, and of
		// each appended session, goes out immediately.
		if !prevAt.IsZero() {
			if gap := rec.At.Sub(prevAt); gap > 0 {
				select {
				case <-ctx.Done():
					fmt.Printf("\nInterrupted after %d frames.\n", count)
					return nil
				case <-time.After(time.Duration(float64(gap) / replaySpeed)):
				}
			}
		}
		prevAt = rec.At

		ctrl.Universe().Restore(rec.DMXFrame())
		count++
	}

	fmt.Printf("Replayed %d frames.\n", count)
	return nil
}
