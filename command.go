// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"image"

	"github.com/gogpu/gg"
)

// CommandType identifies the type of a draw command.
type CommandType uint8

const (
	CmdClear        CommandType = iota // Fill the whole surface
	CmdFillCircle                      // Fill a circle
	CmdStrokeCircle                    // Stroke a circle outline
	CmdStrokeLine                      // Stroke a line segment
	CmdDrawImage                       // Draw a rotated image
	CmdDrawText                        // Draw a rotated text run
)

var commandTypeNames = [...]string{
	CmdClear:        "Clear",
	CmdFillCircle:   "FillCircle",
	CmdStrokeCircle: "StrokeCircle",
	CmdStrokeLine:   "StrokeLine",
	CmdDrawImage:    "DrawImage",
	CmdDrawText:     "DrawText",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by all draw commands.
//
// Commands are plain values that carry their complete style. Coordinates are
// relative to the clock centre, y pointing down; rotations are in degrees,
// positive turning clockwise.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// FontRole names the typeface a text command should use. Backends map roles
// to concrete fonts.
type FontRole uint8

const (
	FontNumeral FontRole = iota // monospaced dial numerals
	FontCaption                 // bold caption above the image
	FontBody                    // regular small print
)

// String returns the role name.
func (f FontRole) String() string {
	switch f {
	case FontNumeral:
		return "numeral"
	case FontCaption:
		return "caption"
	case FontBody:
		return "body"
	default:
		return "unknown"
	}
}

// Shadow describes a drop shadow drawn beneath a shape. The zero value
// disables it.
type Shadow struct {
	DX, DY float64
	Blur   float64
	Color  gg.RGBA
}

// Enabled reports whether the shadow is visible.
func (s Shadow) Enabled() bool {
	return s.Color.A > 0
}

// DefaultShadow is the shadow used under the ring, the hands and the accent
// caption.
var DefaultShadow = Shadow{DX: 5, DY: 5, Blur: 5, Color: gg.RGBA2(0, 0, 0, 0.45)}

// ClearCommand fills the whole surface with a colour.
type ClearCommand struct {
	Color gg.RGBA
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// FillCircleCommand fills a circle.
type FillCircleCommand struct {
	Center gg.Point
	Radius float64
	Color  gg.RGBA
	Shadow Shadow
}

// Type implements Command.
func (FillCircleCommand) Type() CommandType { return CmdFillCircle }

// StrokeCircleCommand strokes a circle outline.
type StrokeCircleCommand struct {
	Center gg.Point
	Radius float64
	Width  float64
	Color  gg.RGBA
	Shadow Shadow
}

// Type implements Command.
func (StrokeCircleCommand) Type() CommandType { return CmdStrokeCircle }

// StrokeLineCommand strokes a single line segment.
type StrokeLineCommand struct {
	From, To gg.Point
	Width    float64
	Cap      gg.LineCap
	Color    gg.RGBA
	Shadow   Shadow
}

// Type implements Command.
func (StrokeLineCommand) Type() CommandType { return CmdStrokeLine }

// DrawImageCommand draws an image centred on Center, rotated about its own
// centre.
type DrawImageCommand struct {
	Image    image.Image
	Center   gg.Point
	Rotation float64
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// Size returns the image dimensions, or zero for a nil image.
func (c DrawImageCommand) Size() (width, height int) {
	if c.Image == nil {
		return 0, 0
	}
	b := c.Image.Bounds()
	return b.Dx(), b.Dy()
}

// DrawTextCommand draws a horizontally centred text run.
//
// The frame is translated to Anchor and rotated by Rotation; the text
// baseline then lies BaselineShift below the anchor in that rotated frame.
type DrawTextCommand struct {
	Text          string
	Anchor        gg.Point
	Rotation      float64
	BaselineShift float64
	Font          FontRole
	Size          float64
	Color         gg.RGBA
	Shadow        Shadow
}

// Type implements Command.
func (DrawTextCommand) Type() CommandType { return CmdDrawText }
