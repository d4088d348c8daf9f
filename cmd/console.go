// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/luxcraft/beamcast/pkg/dmx"
	"github.com/luxcraft/beamcast/pkg/fixture"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for channel and fixture control",
	Long: `Open a line-oriented console on the configured transport. Channel
writes land on the wire at the running frame rate, so the fixture follows
each command immediately.

Examples:
  beamcast console
  beamcast --url wss://gateway.local:9000/dmx console
  beamcast --profile dual-laser console

Exit codes:
  0 - Clean exit
  1 - Console failure
  2 - Connection error`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// console wires the engine into a readline loop. Engine events arrive on
// their own goroutine and print through rl.Stdout so they do not tear the
// prompt.
type console struct {
	ctrl    *dmx.Controller
	profile *fixture.Profile
	rl      *readline.Instance
	ctx     context.Context
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	profile, err := loadProfile(cfg)
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

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "beamcast> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("create readline: %w", err)
	}
	defer rl.Close()

	c := &console{ctrl: ctrl, profile: profile, rl: rl, ctx: ctx}

	// Show connection changes as they happen, between prompts.
	removeListener := ctrl.AddListener(dmx.ListenerFunc(func(ev dmx.Event) {
		if ev.Type == dmx.EventFrame {
			return
		}
		if ev.Err != nil {
			fmt.Fprintf(rl.Stdout(), "\n[%s] %s: %v\n", ev.At.Format("15:04:05"), ev.State, ev.Err)
		} else {
			fmt.Fprintf(rl.Stdout(), "\n[%s] %s %s\n", ev.At.Format("15:04:05"), ev.State, ev.Endpoint)
		}
		rl.Refresh()
	}))
	defer removeListener()

	fmt.Printf("Beamcast - Console\n")
	fmt.Printf("Connection: %s @ %d Hz\n", ctrl.Status().Endpoint, ctrl.Status().TargetRate)
	fmt.Printf("Type 'help' for commands.\n\n")

	return c.run(cancel)
}

func (c *console) run(cancel context.CancelFunc) error {
	for {
		select {
		case <-c.ctx.Done():
			return nil
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "set", "s":
			c.cmdSet(args)

		case "get", "g":
			c.cmdGet(args)

		case "control", "ctl":
			c.cmdControl(args)

		case "blackout", "b":
			c.ctrl.Blackout()
			fmt.Fprintln(c.rl.Stdout(), "All channels zeroed")

		case "stats", "status":
			fmt.Fprint(c.rl.Stdout(), dmx.FormatStatus(c.ctrl.Status()))

		case "dump", "d":
			c.cmdDump(args)

		case "connect":
			c.cmdConnect()

		case "disconnect":
			c.cmdDisconnect()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return nil

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Beamcast Console Commands:
  Channels:
    set <ch=val ...>       - Set channels, e.g. set 1=255 2=128
    get <ch ...>           - Show current channel values
    dump [hex]             - Show non-zero channels (hex: full frame dump)
    blackout               - Zero every channel

  Fixture:
    control <name=val ...> - Apply profile controls, e.g. control mode=sound
                             (run 'beamcast control --help-controls' for names)

  Link:
    stats                  - Connection state and frame counters
    connect                - Dial the transport if disconnected
    disconnect             - Stop transmission and black out

  General:
    help                   - Show this help
    quit                   - Exit console`)
}

func (c *console) cmdSet(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: set <channel=value ...>")
		return
	}
	values, err := parseChannelArgs(args)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if err := c.ctrl.SetChannels(values); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "OK (%d channels)\n", len(values))
}

func (c *console) cmdGet(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: get <channel ...>")
		return
	}
	for _, arg := range args {
		ch, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "channel %q is not a number\n", arg)
			continue
		}
		v, err := c.ctrl.Channel(ch)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(c.rl.Stdout(), "%3d = %3d (0x%02X)\n", ch, v, v)
	}
}

func (c *console) cmdControl(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: control <name=value ...>")
		fmt.Fprintf(c.rl.Stdout(), "  Profile: %s\n", c.profile.Name)
		return
	}
	settings, err := fixture.ParseSettings(args)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if err := c.profile.Apply(c.ctrl, settings...); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}
	for _, s := range settings {
		ch, v, _ := c.profile.Resolve(s)
		fmt.Fprintf(c.rl.Stdout(), "%-20s -> channel %3d = %d\n", s.Control, ch, v)
	}
}

func (c *console) cmdDump(args []string) {
	frame := c.ctrl.Universe().Snapshot()
	if len(args) > 0 && strings.EqualFold(args[0], "hex") {
		fmt.Fprint(c.rl.Stdout(), dmx.FormatFrame(frame))
		return
	}
	fmt.Fprint(c.rl.Stdout(), dmx.FormatChannels(frame))
}

func (c *console) cmdConnect() {
	if c.ctrl.State() == dmx.StateConnected {
		fmt.Fprintln(c.rl.Stdout(), "Already connected")
		return
	}
	ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
	defer cancel()
	if err := c.ctrl.Connect(ctx); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Connect failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Connected: %s\n", c.ctrl.Status().Endpoint)
}

func (c *console) cmdDisconnect() {
	if c.ctrl.State() == dmx.StateDisconnected {
		fmt.Fprintln(c.rl.Stdout(), "Not connected")
		return
	}
	if err := c.ctrl.Disconnect(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Disconnect failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Disconnected (fixture blacked out)")
}
