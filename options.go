// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"image"
	"time"
)

// DefaultImageRotation is the tilt of the decorative image in degrees.
const DefaultImageRotation = -11.0

// Option configures a Renderer during creation.
//
// Example:
//
//	r := reverseclock.NewRenderer(
//	    reverseclock.WithImage(img),
//	    reverseclock.WithScheduler(host),
//	)
type Option func(*rendererOptions)

type rendererOptions struct {
	clock          Clock
	image          image.Image
	scheduler      Scheduler
	observer       Observer
	redrawInterval time.Duration
	imageRotation  float64
}

func defaultOptions() rendererOptions {
	return rendererOptions{
		clock:          SystemClock,
		redrawInterval: DefaultRedrawInterval,
		imageRotation:  DefaultImageRotation,
	}
}

// WithClock sets the time source used by Render. The default is SystemClock.
func WithClock(c Clock) Option {
	return func(o *rendererOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithImage sets the decorative image. The pixels are read once; later
// changes to img are not observed once the surface has been sized.
func WithImage(img image.Image) Option {
	return func(o *rendererOptions) {
		o.image = img
	}
}

// WithScheduler sets where Render sends its request for the next frame.
// Without a scheduler no redraw is requested.
func WithScheduler(s Scheduler) Option {
	return func(o *rendererOptions) {
		o.scheduler = s
	}
}

// WithObserver attaches instrumentation hooks.
func WithObserver(obs Observer) Option {
	return func(o *rendererOptions) {
		o.observer = obs
	}
}

// WithRedrawInterval overrides the delay between frames. Non-positive
// values are ignored.
func WithRedrawInterval(d time.Duration) Option {
	return func(o *rendererOptions) {
		if d > 0 {
			o.redrawInterval = d
		}
	}
}

// WithImageRotation overrides the tilt of the decorative image, in degrees.
func WithImageRotation(deg float64) Option {
	return func(o *rendererOptions) {
		o.imageRotation = deg
	}
}
