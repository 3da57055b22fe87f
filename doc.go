// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package reverseclock renders a reverse analog clock face.
//
// # Overview
//
// The hands of a reverse clock sweep counter-clockwise and the numerals run
// 12, 11, 10 ... 1 clockwise around the dial, while every glyph stays upright
// and readable. In the afternoon the hour hand is moved half a turn.
//
// A Renderer turns (surface size, wall-clock time, decorative image) into a
// Frame: a flat list of typed draw commands in the style of gg's recording
// package. A Backend plays the frame back to pixels or vector output.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/reverseclock"
//	    "github.com/gogpu/reverseclock/backend/raster"
//	)
//
//	r := reverseclock.NewRenderer(reverseclock.WithImage(img))
//	r.SetSize(512, 512)
//
//	frame := r.Render()
//	b := raster.NewBackend()
//	if err := frame.Playback(b); err != nil {
//	    return err
//	}
//	b.SavePNG("clock.png")
//
// # Redraw
//
// The renderer does not loop. After each frame it asks its Scheduler for
// the next one, one second later by default. UI hosts map the request to
// their invalidate call; other hosts can use TimerScheduler.
//
// # Coordinate System
//
// Command coordinates are relative to the clock centre with y pointing down.
// Clock angles are in degrees, 0 at twelve o'clock, positive clockwise.
package reverseclock
