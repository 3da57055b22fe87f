// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// Frame is the complete set of draw commands for one clock frame.
// Command coordinates are relative to Center.
type Frame struct {
	Width, Height int
	Center        gg.Point
	Time          TimeSample
	Theme         Theme
	Commands      []Command
}

// Count returns the number of commands of the given type.
func (f *Frame) Count(t CommandType) int {
	n := 0
	for _, cmd := range f.Commands {
		if cmd.Type() == t {
			n++
		}
	}
	return n
}

// Texts returns the text commands in drawing order.
func (f *Frame) Texts() []DrawTextCommand {
	var out []DrawTextCommand
	for _, cmd := range f.Commands {
		if c, ok := cmd.(DrawTextCommand); ok {
			out = append(out, c)
		}
	}
	return out
}

// Playback replays the frame to a backend in surface coordinates.
func (f *Frame) Playback(backend Backend) error {
	if err := backend.Begin(f.Width, f.Height); err != nil {
		return fmt.Errorf("reverseclock: begin playback: %w", err)
	}

	o := f.Center
	for _, cmd := range f.Commands {
		switch c := cmd.(type) {
		case ClearCommand:
			backend.Clear(c)
		case FillCircleCommand:
			c.Center = c.Center.Add(o)
			backend.FillCircle(c)
		case StrokeCircleCommand:
			c.Center = c.Center.Add(o)
			backend.StrokeCircle(c)
		case StrokeLineCommand:
			c.From = c.From.Add(o)
			c.To = c.To.Add(o)
			backend.StrokeLine(c)
		case DrawImageCommand:
			c.Center = c.Center.Add(o)
			backend.DrawImage(c)
		case DrawTextCommand:
			c.Anchor = c.Anchor.Add(o)
			backend.DrawText(c)
		}
	}

	return backend.End()
}

// ParseSize parses a "WIDTHxHEIGHT" string such as "800x600".
func ParseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	width, err = strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	height, err = strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return width, height, nil
}
