// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/reverseclock"
	"github.com/gogpu/reverseclock/clocksource"
	"github.com/gogpu/reverseclock/internal/atomicfile"
	"github.com/gogpu/reverseclock/internal/config"
)

// outputFlags are shared by render and watch.
type outputFlags struct {
	Size   string
	Image  string
	Format string
	Out    string
}

func (o *outputFlags) register(cmd *cobra.Command, defaultOut string) {
	f := cmd.Flags()
	f.StringVar(&o.Size, "size", "", "surface size as WxH (default from config)")
	f.StringVar(&o.Image, "image", "", "decorative image drawn on the dial")
	f.StringVar(&o.Format, "format", "", "output format: png|svg (default from config)")
	f.StringVarP(&o.Out, "out", "o", defaultOut, `output file, "-" for stdout`)
}

// override copies the changed flags into the configuration.
func (o *outputFlags) override(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		f := cmd.Flags()
		if f.Changed("size") {
			cfg.Size = o.Size
		}
		if f.Changed("format") {
			cfg.Format = o.Format
		}
		if f.Changed("image") {
			cfg.Image = o.Image
		}
	}
}

func newRenderCmd(global *globalFlags) *cobra.Command {
	var (
		out outputFlags
		at  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a single clock frame",
		Example: `  reverseclock render --size 800x800 --out clock.png
  reverseclock render --format svg --at 2025-01-01T14:05:30Z -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cmd, global, out.override(cmd))
			if err != nil {
				return err
			}
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at value: %w", err)
				}
				if a.clock, err = clocksource.Zone(clocksource.Fixed(t), a.cfg.Timezone); err != nil {
					return err
				}
			}

			w, h, err := reverseclock.ParseSize(a.cfg.Size)
			if err != nil {
				return err
			}
			r := reverseclock.NewRenderer(a.rendererOptions()...)
			r.SetSize(w, h)

			data, err := encode(r.Render(), a.cfg.Format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out.Out, data)
		},
	}
	out.register(cmd, "clock.png")
	cmd.Flags().StringVar(&at, "at", "", "render the clock at this RFC 3339 time instead of now")
	return cmd
}

// encode plays frame back to the named backend and returns the encoded
// output.
func encode(frame reverseclock.Frame, format string) ([]byte, error) {
	b, err := reverseclock.NewBackend(format)
	if err != nil {
		return nil, err
	}
	wb, ok := b.(reverseclock.WriterBackend)
	if !ok {
		return nil, fmt.Errorf("backend %q cannot write output", format)
	}
	if err := frame.Playback(wb); err != nil {
		return nil, fmt.Errorf("failed to render frame: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
