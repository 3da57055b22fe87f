// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/gogpu/reverseclock/internal/config"
	"github.com/gogpu/reverseclock/internal/metrics"
	"github.com/gogpu/reverseclock/internal/server"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 30 * time.Second

func newServeCmd(global *globalFlags) *cobra.Command {
	var (
		listen string
		image  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the clock over HTTP",
		Long: `serve exposes the clock as an auto-refreshing page on /, the current frame
on /clock.png and /clock.svg, liveness on /healthz and Prometheus metrics on
/metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cmd, global, func(cfg *config.Config) {
				if cmd.Flags().Changed("listen") {
					cfg.Server.Listen = listen
				}
				if cmd.Flags().Changed("image") {
					cfg.Image = image
				}
			})
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m, err := metrics.New(reg)
			if err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}

			opts := []server.Option{
				server.WithImage(a.image),
				server.WithClock(a.clock),
				server.WithMetrics(m, reg),
				server.WithLogger(a.log),
			}
			if a.ntp != nil {
				opts = append(opts, server.WithNTP(a.ntp))
			}
			srv, err := server.New(a.cfg, opts...)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			if a.ntp != nil {
				a.ntp.Wait()
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&image, "image", "", "decorative image drawn on the dial")
	return cmd
}
