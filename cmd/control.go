// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/pkg/fixture"
)

var controlHold time.Duration

var controlCmd = &cobra.Command{
	Use:   "control <name=value|name=band|name=band:value> ...",
	Short: "Set fixture controls by name",
	Long: `Set named fixture controls instead of raw channel numbers.

Controls come from the fixture profile (--profile JSON, or the built-in
32-channel dual laser). Three forms are accepted:

  name=value       level controls, e.g. pattern=200
  name=band        select controls, band start value, e.g. lamp_mode=manual
  name=band:value  select controls with a value inside the band,
                   e.g. strobe=strobe:80

All settings resolve before anything is sent; one bad name or value means
nothing changes on the fixture.

Examples:
  # Lamp on, red static pattern on the first head
  beamcast control lamp_mode=manual:50 color=red pattern=10

  # Inspect the built-in profile's control names
  beamcast control --help-controls

Exit codes:
  0 - Settings transmitted
  1 - Unknown control, bad value, or transmission failure
  2 - Connection error`,
	Args: cobra.ArbitraryArgs,
	RunE: runControl,
}

var controlListControls bool

func init() {
	rootCmd.AddCommand(controlCmd)
	controlCmd.Flags().DurationVar(&controlHold, "hold", 0, "How long to hold before exiting (0 = until Ctrl+C)")
	controlCmd.Flags().BoolVar(&controlListControls, "help-controls", false, "List the profile's controls and exit")
}

func runControl(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	if controlListControls {
		printControls(profile)
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("no settings given (see --help-controls for control names)")
	}

	settings, err := fixture.ParseSettings(args)
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

	if err := profile.Apply(ctrl, settings...); err != nil {
		return err
	}

	st := ctrl.Status()
	fmt.Printf("Beamcast - Fixture Control\n")
	fmt.Printf("Connection: %s @ %d Hz\n", st.Endpoint, st.TargetRate)
	fmt.Printf("Profile: %s\n\n", profile.Name)
	for _, s := range settings {
		ch, v, _ := profile.Resolve(s)
		fmt.Printf("  %-20s -> channel %3d = %d\n", s.Control, ch, v)
	}

	if controlHold > 0 {
		fmt.Printf("\nHolding for %v...\n", controlHold)
		select {
		case <-ctx.Done():
		case <-time.After(controlHold):
		}
	} else {
		fmt.Printf("\nHolding. Press Ctrl+C to black out and exit.\n")
		<-ctx.Done()
		fmt.Println()
	}
	return nil
}

// printControls dumps the profile's control table.
func printControls(p *fixture.Profile) {
	fmt.Printf("Profile: %s (%d channels)\n\n", p.Name, p.Channels)
	for _, c := range p.Controls {
		switch c.Kind {
		case fixture.KindSelect:
			fmt.Printf("  %-20s ch %3d  select:", c.Name, c.Channel)
			for i, b := range c.Bands {
				if i > 0 {
					fmt.Print(",")
				}
				fmt.Printf(" %s", b.Name)
			}
			fmt.Println()
		case fixture.KindLevel:
			fmt.Printf("  %-20s ch %3d  level %d-%d\n", c.Name, c.Channel, c.Min, c.Max)
		case fixture.KindSwitch:
			fmt.Printf("  %-20s ch %3d  switch on=%d off=%d\n", c.Name, c.Channel, c.On, c.Off)
		}
	}
}
