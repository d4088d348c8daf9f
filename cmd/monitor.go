// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/pkg/dmx"
)

var (
	monitorTUI      bool
	monitorInterval int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live universe dashboard",
	Long: `Watch the universe while it transmits: every channel value, the link
state and frame counters, and recent engine events. Channels can be edited
in place, so the dashboard doubles as a quick focus tool.

Keys (TUI mode):
  arrows/hjkl - Move channel selection
  enter       - Edit the selected channel (enter again commits, esc cancels)
  b           - Blackout
  q           - Quit

By default a full-screen terminal UI is used. With --tui=false a plain
status line is printed every --stats-interval seconds instead, which suits
logging to a file or running under systemd.

Exit codes:
  0 - Clean exit
  1 - Monitor failure
  2 - Connection error`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorTUI, "tui", true, "Use terminal UI (false for text mode)")
	monitorCmd.Flags().IntVar(&monitorInterval, "stats-interval", 10, "Text mode status interval (seconds)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
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

	if monitorTUI {
		return runMonitorTUI(ctx, ctrl, log)
	}
	return runMonitorText(ctx, ctrl)
}

// runMonitorTUI drives the dashboard. Engine events arrive on engine
// goroutines and are forwarded with p.Send; the grid itself is refreshed
// from the tick so frame events stay out of the message queue.
func runMonitorTUI(ctx context.Context, ctrl *dmx.Controller, log *logrus.Logger) error {
	// The TUI owns the terminal. Anything logrus would print mid-frame
	// tears the screen, so route it away for the duration.
	out := log.Out
	log.SetOutput(io.Discard)
	defer log.SetOutput(out)

	m := initialMonitorModel(ctrl)
	p := tea.NewProgram(m)

	remove := ctrl.AddListener(dmx.ListenerFunc(func(ev dmx.Event) {
		if ev.Type == dmx.EventFrame {
			return
		}
		p.Send(engineEventMsg(ev))
	}))
	defer remove()

	// Ctrl+C lands on the signal context first; quit the program so the
	// terminal is restored before the deferred disconnect runs.
	go func() {
		<-ctx.Done()
		p.Send(quitMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor UI: %w", err)
	}
	return nil
}

// runMonitorText prints the status block on an interval, plus engine
// events as they happen.
func runMonitorText(ctx context.Context, ctrl *dmx.Controller) error {
	status := ctrl.Status()
	fmt.Printf("Beamcast - Monitor\n")
	fmt.Printf("Connection: %s @ %d Hz\n", status.Endpoint, status.TargetRate)
	fmt.Printf("Status interval: %d seconds\n", monitorInterval)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	remove := ctrl.AddListener(dmx.ListenerFunc(func(ev dmx.Event) {
		if ev.Type == dmx.EventFrame {
			return
		}
		stamp := ev.At.Format("15:04:05.000")
		if ev.Err != nil {
			fmt.Printf("[%s] %s: %v\n", stamp, ev.State, ev.Err)
		} else {
			fmt.Printf("[%s] %s %s\n", stamp, ev.State, ev.Endpoint)
		}
	}))
	defer remove()

	ticker := time.NewTicker(time.Duration(monitorInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nInterrupted.")
			return nil
		case <-ticker.C:
			s := ctrl.Status()
			fmt.Println()
			fmt.Print(dmx.FormatStatus(s))
			fmt.Printf("Active:   %d channels non-zero\n", ctrl.Universe().Snapshot().Active())
		}
	}
}
