// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/reverseclock"
	"github.com/gogpu/reverseclock/clocksource"
	"github.com/gogpu/reverseclock/internal/config"
	"github.com/gogpu/reverseclock/internal/imageio"
	"github.com/gogpu/reverseclock/internal/logger"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "reverseclock.yaml"

// globalFlags holds the persistent flags shared by all commands.
type globalFlags struct {
	ConfigPath string
	LogLevel   string
	NTPServer  string
	Timezone   string
}

// app is the state every command builds from flags and configuration.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	clock reverseclock.Clock
	ntp   *clocksource.NTP
	image image.Image
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:          "reverseclock",
		Short:        "Render a reverse analog clock",
		Long:         "reverseclock draws an analog clock whose hands run counter-clockwise over a dial numbered 12, 11, 10 ... 1.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "configuration file (default ./"+defaultConfigFile+" if present)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&flags.NTPServer, "ntp-server", "", "correct the system clock against this NTP server")
	pf.StringVar(&flags.Timezone, "timezone", "", "IANA timezone shown by the clock (default local)")

	root.AddCommand(
		newRenderCmd(flags),
		newWatchCmd(flags),
		newServeCmd(flags),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration file and applies flag overrides.
// Flags beat environment variables, which beat the file. Validation runs
// once, after every layer has been applied.
func loadConfig(cmd *cobra.Command, flags *globalFlags, overrides ...func(*config.Config)) (*config.Config, error) {
	path := flags.ConfigPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg, err := config.Read(path)
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if pf.Changed("ntp-server") {
		cfg.NTP.Server = flags.NTPServer
	}
	if pf.Changed("timezone") {
		cfg.Timezone = flags.Timezone
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp loads the configuration, installs the logger and builds the clock
// and the decorative image.
func newApp(ctx context.Context, cmd *cobra.Command, flags *globalFlags, overrides ...func(*config.Config)) (*app, error) {
	cfg, err := loadConfig(cmd, flags, overrides...)
	if err != nil {
		return nil, err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	reverseclock.SetLogger(log)

	a := &app{cfg: cfg, log: log, clock: reverseclock.SystemClock}

	if cfg.NTP.Server != "" {
		opts := []clocksource.NTPOption{clocksource.WithSyncInterval(cfg.NTP.SyncInterval)}
		if cfg.NTP.UnhealthyThreshold > 0 {
			opts = append(opts, clocksource.WithUnhealthyThreshold(cfg.NTP.UnhealthyThreshold))
		}
		a.ntp = clocksource.NewNTP(ctx, cfg.NTP.Server, opts...)
		a.clock = a.ntp
		log.Info("Using NTP clock", "server", cfg.NTP.Server, "offset", a.ntp.Offset())
	}

	a.clock, err = clocksource.Zone(a.clock, cfg.Timezone)
	if err != nil {
		return nil, err
	}

	if cfg.Image != "" {
		a.image, err = imageio.Load(cfg.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to load image: %w", err)
		}
	}
	return a, nil
}

// rendererOptions returns the renderer options implied by the configuration.
func (a *app) rendererOptions(extra ...reverseclock.Option) []reverseclock.Option {
	opts := []reverseclock.Option{
		reverseclock.WithClock(a.clock),
		reverseclock.WithImage(a.image),
	}
	if a.cfg.ImageRotation != nil {
		opts = append(opts, reverseclock.WithImageRotation(*a.cfg.ImageRotation))
	}
	return append(opts, extra...)
}
