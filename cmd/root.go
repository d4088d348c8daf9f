// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Luxcraft Works

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/luxcraft/beamcast/internal/config"
	"github.com/luxcraft/beamcast/internal/logger"
	"github.com/luxcraft/beamcast/pkg/dmx"
	"github.com/luxcraft/beamcast/pkg/fixture"
	"github.com/luxcraft/beamcast/pkg/framelog"
)

var (
	// Config and logging flags
	flagConfig   string
	flagLogLevel string

	// Serial transport flags
	flagPort string
	flagBaud int

	// Gateway transport flags
	flagURL      string
	flagUser     string
	flagInsecure bool

	// Art-Net transport flags
	flagArtNet         bool
	flagArtNetUniverse uint16

	// Engine flags
	flagFPS int

	// Fixture and recording flags
	flagProfile string
	flagRecord  string
)

var rootCmd = &cobra.Command{
	Use:   "beamcast",
	Short: "DMX512 transmission engine and fixture controller",
	Long: `Beamcast - drive DMX512 fixtures from the command line.

Owns a 512-channel universe and refreshes it continuously (default 30 Hz)
so fixtures hold their look between commands. Channels can be set raw, by
fixture profile, from timed chase files, or replayed from a recording.

Transports:
  Serial (default): --port /dev/ttyUSB0, empty auto-detects the first
                    USB serial adapter (250 kbaud 8N2 with DMX break timing)
  Gateway:          --url ws://host/dmx [--user name]
  Art-Net:          --artnet [--artnet-universe 0]

Settings load from beamcast.toml (or --config); flags given explicitly
override the file. For gateway authentication the password is read from the
BEAMCAST_PASSWORD environment variable, or prompted interactively if not
set. The --password flag is intentionally not provided to avoid leaking
credentials in shell history.`,
	Version: "1.2.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default beamcast.toml if present)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (trace..panic)")

	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "Serial port device (empty = auto-detect)")
	rootCmd.PersistentFlags().IntVarP(&flagBaud, "baud", "b", dmx.BaudRate, "Baud rate (serial only)")

	rootCmd.PersistentFlags().StringVarP(&flagURL, "url", "u", "", "DMX gateway WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Username for gateway HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().BoolVar(&flagArtNet, "artnet", false, "Send to an Art-Net node instead of a serial adapter")
	rootCmd.PersistentFlags().Uint16Var(&flagArtNetUniverse, "artnet-universe", 0, "Art-Net port address (high byte Net, low byte SubUni)")

	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", dmx.DefaultFrameRate, "Frame rate in Hz (1-44)")

	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Fixture profile JSON (default: built-in dual laser)")
	rootCmd.PersistentFlags().StringVar(&flagRecord, "record", "", "Record transmitted frames to this file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// setup resolves the effective configuration (file under flags) and builds
// the process logger. Every command calls it first.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// resolveConfig loads the config file and lays explicitly-set flags over
// it. Without --config a missing beamcast.toml just means defaults.
func resolveConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case flagConfig != "":
		c, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		if _, err := os.Stat(config.DefaultPath); err == nil {
			c, err := config.Load(config.DefaultPath)
			if err != nil {
				return nil, err
			}
			cfg = c
		} else {
			cfg = config.Default()
		}
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("port") {
		cfg.Serial.Port = flagPort
	}
	if flags.Changed("baud") {
		cfg.Serial.Baud = flagBaud
	}
	if flags.Changed("url") {
		cfg.Gateway.URL = flagURL
	}
	if flags.Changed("user") {
		cfg.Gateway.User = flagUser
	}
	if flags.Changed("insecure") {
		cfg.Gateway.Insecure = flagInsecure
	}
	if flags.Changed("artnet") {
		cfg.ArtNet.Enabled = flagArtNet
	}
	if flags.Changed("artnet-universe") {
		cfg.ArtNet.Universe = flagArtNetUniverse
	}
	if flags.Changed("fps") {
		cfg.Engine.FrameRate = flagFPS
	}
	if flags.Changed("profile") {
		cfg.Profile = flagProfile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// pickDialer selects the transport: Art-Net when requested, the gateway
// when a URL is set, the local serial adapter otherwise.
func pickDialer(cfg *config.Config) (dmx.Dialer, error) {
	if cfg.ArtNet.Enabled {
		return dmx.ArtNetDialer{
			CIDR:     cfg.ArtNet.CIDR,
			Universe: cfg.ArtNet.Universe,
		}, nil
	}

	if cfg.Gateway.URL != "" {
		password := cfg.Gateway.Password
		if cfg.Gateway.User != "" && password == "" {
			pw, err := getPassword()
			if err != nil {
				return nil, err
			}
			password = pw
		}
		return dmx.BridgeDialer{
			URL:                cfg.Gateway.URL,
			Username:           cfg.Gateway.User,
			Password:           password,
			InsecureSkipVerify: cfg.Gateway.Insecure,
		}, nil
	}

	return dmx.SerialDialer{
		Port:           cfg.Serial.Port,
		Baud:           cfg.Serial.Baud,
		Break:          cfg.Serial.Break.Duration,
		MarkAfterBreak: cfg.Serial.MarkAfterBreak.Duration,
	}, nil
}

// openController builds the engine, attaches the frame recorder when
// --record is set, and connects. The returned cleanup disconnects (which
// blacks out the fixture) and closes the recording.
func openController(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*dmx.Controller, func(), error) {
	dialer, err := pickDialer(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctrl, err := dmx.New(dialer, cfg.Engine.Options(), log)
	if err != nil {
		return nil, nil, err
	}

	var rec *framelog.Writer
	if flagRecord != "" {
		rec, err = framelog.NewWriter(flagRecord)
		if err != nil {
			return nil, nil, err
		}
		ctrl.AddListener(rec)
		log.WithFields(logrus.Fields{"file": flagRecord, "session": rec.Session()}).Info("recording frames")
	}

	if err := ctrl.Connect(ctx); err != nil {
		if rec != nil {
			rec.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		if err := ctrl.Disconnect(); err != nil {
			log.WithError(err).Warn("disconnect")
		}
		if rec != nil {
			rec.Close()
		}
	}
	return ctrl, cleanup, nil
}

// loadProfile returns the configured fixture profile, defaulting to the
// built-in dual laser.
func loadProfile(cfg *config.Config) (*fixture.Profile, error) {
	if cfg.Profile == "" {
		return fixture.DualLaser(), nil
	}
	return fixture.Load(cfg.Profile)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// getPassword retrieves the gateway password from the environment or
// prompts without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("BEAMCAST_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal; fall back to a plain line read.
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}
