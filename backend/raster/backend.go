// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster plays clock frames back to pixels using gg.Context.
//
// Shapes go straight through gg's software rasterizer. Rotated images and
// rotated text are first rendered upright into a square sprite, turned with
// a Catmull-Rom resampler and then composited, because gg draws images and
// glyphs axis-aligned.
//
// Shadows are drawn as a translucent copy of the shape offset by the shadow
// vector. The blur radius is not applied.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/reverseclock/backend/raster"
//
//	// Create via registry
//	backend, _ := reverseclock.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend()
//	frame.Playback(backend)
//	backend.SavePNG("clock.png")
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/reverseclock"
)

func init() {
	reverseclock.Register("raster", func() reverseclock.Backend {
		return NewBackend()
	})
}

// Backend renders frames to an RGBA image.
type Backend struct {
	ctx    *gg.Context
	width  int
	height int
	fonts  *Fonts
	err    error
}

// Ensure Backend implements the required interfaces.
var (
	_ reverseclock.Backend       = (*Backend)(nil)
	_ reverseclock.WriterBackend = (*Backend)(nil)
)

// Option configures a Backend.
type Option func(*Backend)

// WithFonts sets the fonts used for text commands. By default the Go fonts
// are used.
func WithFonts(f *Fonts) Option {
	return func(b *Backend) {
		if f != nil {
			b.fonts = f
		}
	}
}

// NewBackend creates a raster backend. Begin must be called before use.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin allocates a fresh width×height surface.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("raster: %w: %dx%d", reverseclock.ErrInvalidSize, width, height)
	}
	if b.fonts == nil {
		fonts, err := DefaultFonts()
		if err != nil {
			return err
		}
		b.fonts = fonts
	}
	b.width = width
	b.height = height
	b.ctx = gg.NewContext(width, height)
	b.err = nil
	return nil
}

// End reports the first drawing error of the frame, if any.
func (b *Backend) End() error {
	return b.err
}

// Clear fills the surface.
func (b *Backend) Clear(c reverseclock.ClearCommand) {
	b.ctx.ClearWithColor(c.Color)
}

// FillCircle fills a circle and its shadow.
func (b *Backend) FillCircle(c reverseclock.FillCircleCommand) {
	fill := func(dx, dy float64, col gg.RGBA) {
		b.ctx.DrawCircle(c.Center.X+dx, c.Center.Y+dy, c.Radius)
		b.setColor(col)
		b.check(b.ctx.Fill())
	}
	if c.Shadow.Enabled() {
		fill(c.Shadow.DX, c.Shadow.DY, c.Shadow.Color)
	}
	fill(0, 0, c.Color)
}

// StrokeCircle strokes a circle outline and its shadow.
func (b *Backend) StrokeCircle(c reverseclock.StrokeCircleCommand) {
	stroke := func(dx, dy float64, col gg.RGBA) {
		b.ctx.DrawCircle(c.Center.X+dx, c.Center.Y+dy, c.Radius)
		b.setColor(col)
		b.ctx.SetLineWidth(c.Width)
		b.check(b.ctx.Stroke())
	}
	if c.Shadow.Enabled() {
		stroke(c.Shadow.DX, c.Shadow.DY, c.Shadow.Color)
	}
	stroke(0, 0, c.Color)
}

// StrokeLine strokes a segment and its shadow.
func (b *Backend) StrokeLine(c reverseclock.StrokeLineCommand) {
	b.ctx.SetLineCap(c.Cap)
	b.ctx.SetLineWidth(c.Width)
	stroke := func(dx, dy float64, col gg.RGBA) {
		b.ctx.DrawLine(c.From.X+dx, c.From.Y+dy, c.To.X+dx, c.To.Y+dy)
		b.setColor(col)
		b.check(b.ctx.Stroke())
	}
	if c.Shadow.Enabled() {
		stroke(c.Shadow.DX, c.Shadow.DY, c.Shadow.Color)
	}
	stroke(0, 0, c.Color)
}

// DrawImage composites the image centred on c.Center, rotated about its
// own centre.
func (b *Backend) DrawImage(c reverseclock.DrawImageCommand) {
	w, h := c.Size()
	if w == 0 || h == 0 {
		return
	}
	side := int(math.Ceil(math.Hypot(float64(w), float64(h)))) + 2
	sprite := rotateAboutCenter(c.Image, side, c.Rotation)
	half := float64(side) / 2
	b.ctx.DrawImage(gg.ImageBufFromImage(sprite), c.Center.X-half, c.Center.Y-half)
}

// DrawText draws a horizontally centred run whose baseline sits
// BaselineShift below the anchor in the rotated frame.
func (b *Backend) DrawText(c reverseclock.DrawTextCommand) {
	if c.Text == "" || c.Size <= 0 {
		return
	}
	face := b.fonts.Face(c.Font, c.Size)

	if c.Rotation == 0 {
		b.ctx.SetFont(face)
		if c.Shadow.Enabled() {
			b.setColor(c.Shadow.Color)
			b.ctx.DrawStringAnchored(c.Text, c.Anchor.X+c.Shadow.DX, c.Anchor.Y+c.BaselineShift+c.Shadow.DY, 0.5, 0)
		}
		b.setColor(c.Color)
		b.ctx.DrawStringAnchored(c.Text, c.Anchor.X, c.Anchor.Y+c.BaselineShift, 0.5, 0)
		return
	}

	// Render upright with the anchor at the sprite centre, then turn.
	b.ctx.SetFont(face)
	tw, th := b.ctx.MeasureString(c.Text)
	side := int(math.Ceil(2*(math.Max(tw, th)+math.Abs(c.BaselineShift)))) + 4
	half := float64(side) / 2

	upright := gg.NewContext(side, side)
	defer upright.Close()
	upright.SetFont(face)
	upright.SetRGBA(c.Color.R, c.Color.G, c.Color.B, c.Color.A)
	upright.DrawStringAnchored(c.Text, half, half+c.BaselineShift, 0.5, 0)
	sprite := gg.ImageBufFromImage(rotateAboutCenter(upright.Image(), side, c.Rotation))

	if c.Shadow.Enabled() {
		shadow := gg.NewContext(side, side)
		defer shadow.Close()
		shadow.SetFont(face)
		shadow.SetRGBA(c.Shadow.Color.R, c.Shadow.Color.G, c.Shadow.Color.B, c.Shadow.Color.A)
		shadow.DrawStringAnchored(c.Text, half, half+c.BaselineShift, 0.5, 0)
		ss := gg.ImageBufFromImage(rotateAboutCenter(shadow.Image(), side, c.Rotation))
		b.ctx.DrawImage(ss, c.Anchor.X-half+c.Shadow.DX, c.Anchor.Y-half+c.Shadow.DY)
	}
	b.ctx.DrawImage(sprite, c.Anchor.X-half, c.Anchor.Y-half)
}

func (b *Backend) setColor(c gg.RGBA) {
	b.ctx.SetRGBA(c.R, c.G, c.B, c.A)
}

func (b *Backend) check(err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("raster: draw: %w", err)
	}
}

// rotateAboutCenter returns a side×side image holding src centred and
// rotated by deg degrees clockwise.
func rotateAboutCenter(src image.Image, side int, deg float64) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	sr := src.Bounds()
	w, h := float64(sr.Dx()), float64(sr.Dy())
	c := float64(side) / 2

	sin, cos := math.Sincos(deg * math.Pi / 180)
	bx, by := float64(sr.Min.X), float64(sr.Min.Y)
	tx := c - cos*(bx+w/2) + sin*(by+h/2)
	ty := c - sin*(bx+w/2) - cos*(by+h/2)

	s2d := f64.Aff3{
		cos, -sin, tx,
		sin, cos, ty,
	}
	draw.CatmullRom.Transform(dst, s2d, src, sr, draw.Over, nil)
	return dst
}

// errNotRendered is returned by output methods called before Begin.
var errNotRendered = errors.New("raster: nothing rendered")

// WriteTo writes the rendered image as PNG.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.ctx == nil {
		return 0, errNotRendered
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.ctx.Image())
	return cw.n, err
}

// EncodePNG writes the rendered image as PNG.
func (b *Backend) EncodePNG(w io.Writer) error {
	_, err := b.WriteTo(w)
	return err
}

// Image returns the rendered image, or nil before Begin.
func (b *Backend) Image() image.Image {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Image()
}

// SavePNG saves the rendered image to a PNG file.
func (b *Backend) SavePNG(path string) error {
	if b.ctx == nil {
		return errNotRendered
	}
	return b.ctx.SavePNG(path)
}

// Width returns the surface width.
func (b *Backend) Width() int {
	return b.width
}

// Height returns the surface height.
func (b *Backend) Height() int {
	return b.height
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
