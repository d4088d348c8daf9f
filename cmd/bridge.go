// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/internal/bridge"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Serve the universe over MQTT",
	Long: `Connect the engine to an MQTT broker so home-automation controllers
can drive the fixture. Runs until interrupted.

Topics (under mqtt.topic-prefix, default "beamcast"):
  <prefix>/set       - Subscribe. JSON array of channel writes:
                       [{"channel": 1, "value": 255}, {"channel": 2, "value": 128}]
  <prefix>/blackout  - Subscribe. Any payload zeroes the universe.
  <prefix>/status    - Publish, retained. Link state and frame counters,
                       refreshed every 5 seconds and on every state change.

The broker address, credentials and topic prefix come from the [mqtt]
section of the config file.

Examples:
  beamcast bridge
  beamcast --config /etc/beamcast.toml bridge

Exit codes:
  0 - Clean shutdown
  1 - Broker connection or bridge failure
  2 - Connection error (DMX transport)`,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
}

func runBridge(cmd *cobra.Command, args []string) error {
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

	b := bridge.New(cfg.MQTT, ctrl, log)
	if err := b.Start(ctx); err != nil {
		return err
	}
	defer b.Stop()

	fmt.Printf("Beamcast - MQTT Bridge\n")
	fmt.Printf("Connection: %s @ %d Hz\n", ctrl.Status().Endpoint, ctrl.Status().TargetRate)
	fmt.Printf("Broker: %s (topics under %s/)\n", cfg.MQTT.Broker, cfg.MQTT.TopicPrefix)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	<-ctx.Done()
	fmt.Println("Shutting down.")
	return nil
}
