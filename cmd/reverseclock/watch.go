// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/reverseclock"
)

func newWatchCmd(global *globalFlags) *cobra.Command {
	var (
		out      outputFlags
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep a clock image file up to date",
		Long: `watch renders the clock to a file and rewrites it every interval until
interrupted. Each frame replaces the file atomically, so readers never see a
partial image.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out.Out == "-" {
				return errors.New("watch needs an output file")
			}
			if interval <= 0 {
				return errors.New("--interval must be positive")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cmd, global, out.override(cmd))
			if err != nil {
				return err
			}
			w, h, err := reverseclock.ParseSize(a.cfg.Size)
			if err != nil {
				return err
			}

			var (
				mu       sync.Mutex
				renderer *reverseclock.Renderer
				frames   int
				done     bool
			)
			sched := reverseclock.NewTimerScheduler(func() {
				mu.Lock()
				defer mu.Unlock()
				if done {
					return
				}

				data, err := encode(renderer.Render(), a.cfg.Format)
				if err == nil {
					err = writeOutput(cmd, out.Out, data)
				}
				if err != nil {
					a.log.Error("Failed to update clock file", "path", out.Out, "error", err)
					return
				}
				frames++
				a.log.Debug("Clock file updated", "path", out.Out, "frame", frames)
			})
			renderer = reverseclock.NewRenderer(a.rendererOptions(
				reverseclock.WithScheduler(sched),
				reverseclock.WithRedrawInterval(interval),
			)...)
			renderer.SetSize(w, h)

			a.log.Info("Watching clock", "path", out.Out, "size", a.cfg.Size, "format", a.cfg.Format, "interval", interval)
			err = sched.Run(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				mu.Lock()
				done = true
				a.log.Info("Stopped watching", "frames", frames)
				mu.Unlock()
				return nil
			}
			return err
		},
	}
	out.register(cmd, "clock.png")
	cmd.Flags().DurationVar(&interval, "interval", reverseclock.DefaultRedrawInterval, "delay between frames")
	return cmd
}
