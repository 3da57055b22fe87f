// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package svg plays clock frames back to an SVG 1.1 document.
//
// Rotations become transform attributes, shadows become feDropShadow
// filters and images are inlined as base64 PNG data URIs, so the output is a
// single self-contained file.
//
//	import _ "github.com/gogpu/reverseclock/backend/svg"
//
//	backend, _ := reverseclock.NewBackend("svg")
//	frame.Playback(backend)
//	backend.(reverseclock.WriterBackend).WriteTo(w)
package svg

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/gogpu/gg"

	"github.com/gogpu/reverseclock"
)

func init() {
	reverseclock.Register("svg", func() reverseclock.Backend {
		return NewBackend()
	})
}

// Font families per role. Viewers fall back to the generic family.
var fontFamilies = map[reverseclock.FontRole]string{
	reverseclock.FontNumeral: "'Go Mono', monospace",
	reverseclock.FontCaption: "'Go', sans-serif",
	reverseclock.FontBody:    "'Go', sans-serif",
}

var errNotRendered = errors.New("svg: nothing rendered")

// Backend writes frames as SVG.
type Backend struct {
	width, height int

	body    bytes.Buffer
	filters []reverseclock.Shadow
	doc     []byte
	err     error
}

// Ensure Backend implements the required interfaces.
var (
	_ reverseclock.Backend       = (*Backend)(nil)
	_ reverseclock.WriterBackend = (*Backend)(nil)
)

// NewBackend creates an SVG backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Begin starts a new document.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("svg: %w: %dx%d", reverseclock.ErrInvalidSize, width, height)
	}
	b.width, b.height = width, height
	b.body.Reset()
	b.filters = b.filters[:0]
	b.doc = nil
	b.err = nil
	return nil
}

// End assembles the document.
func (b *Backend) End() error {
	if b.err != nil {
		return b.err
	}
	var doc bytes.Buffer
	doc.WriteString(xml.Header)
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		b.width, b.height, b.width, b.height)
	if len(b.filters) > 0 {
		doc.WriteString("<defs>\n")
		for i, s := range b.filters {
			fmt.Fprintf(&doc, `<filter id="%s" x="-50%%" y="-50%%" width="200%%" height="200%%"><feDropShadow dx="%s" dy="%s" stdDeviation="%s" flood-color="%s" flood-opacity="%s"/></filter>`+"\n",
				filterID(i), num(s.DX), num(s.DY), num(s.Blur/2), rgb(s.Color), num(s.Color.A))
		}
		doc.WriteString("</defs>\n")
	}
	doc.Write(b.body.Bytes())
	doc.WriteString("</svg>\n")
	b.doc = doc.Bytes()
	return nil
}

// Clear paints the background.
func (b *Backend) Clear(c reverseclock.ClearCommand) {
	fmt.Fprintf(&b.body, `<rect x="0" y="0" width="%d" height="%d"%s/>`+"\n",
		b.width, b.height, paint("fill", c.Color))
}

// FillCircle writes a filled circle.
func (b *Backend) FillCircle(c reverseclock.FillCircleCommand) {
	fmt.Fprintf(&b.body, `<circle cx="%s" cy="%s" r="%s"%s%s/>`+"\n",
		num(c.Center.X), num(c.Center.Y), num(c.Radius), paint("fill", c.Color), b.filter(c.Shadow))
}

// StrokeCircle writes a circle outline.
func (b *Backend) StrokeCircle(c reverseclock.StrokeCircleCommand) {
	fmt.Fprintf(&b.body, `<circle cx="%s" cy="%s" r="%s" fill="none"%s stroke-width="%s"%s/>`+"\n",
		num(c.Center.X), num(c.Center.Y), num(c.Radius), paint("stroke", c.Color), num(c.Width), b.filter(c.Shadow))
}

// StrokeLine writes a line segment.
func (b *Backend) StrokeLine(c reverseclock.StrokeLineCommand) {
	fmt.Fprintf(&b.body, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s stroke-width="%s" stroke-linecap="%s"%s/>`+"\n",
		num(c.From.X), num(c.From.Y), num(c.To.X), num(c.To.Y),
		paint("stroke", c.Color), num(c.Width), lineCap(c.Cap), b.filter(c.Shadow))
}

// DrawImage inlines the image as PNG.
func (b *Backend) DrawImage(c reverseclock.DrawImageCommand) {
	w, h := c.Size()
	if w == 0 || h == 0 {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image); err != nil {
		b.fail(fmt.Errorf("svg: encode image: %w", err))
		return
	}
	fmt.Fprintf(&b.body, `<image x="%s" y="%s" width="%d" height="%d"%s xlink:href="data:image/png;base64,%s"/>`+"\n",
		num(c.Center.X-float64(w)/2), num(c.Center.Y-float64(h)/2), w, h,
		rotate(c.Rotation, c.Center),
		base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// DrawText writes a centred text run.
func (b *Backend) DrawText(c reverseclock.DrawTextCommand) {
	if c.Text == "" || c.Size <= 0 {
		return
	}
	transform := fmt.Sprintf(` transform="translate(%s %s)`, num(c.Anchor.X), num(c.Anchor.Y))
	if c.Rotation != 0 {
		transform += fmt.Sprintf(` rotate(%s)`, num(c.Rotation))
	}
	transform += `"`

	weight := ""
	if c.Font == reverseclock.FontCaption {
		weight = ` font-weight="bold"`
	}

	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(c.Text)); err != nil {
		b.fail(fmt.Errorf("svg: escape text: %w", err))
		return
	}
	fmt.Fprintf(&b.body, `<text x="0" y="%s"%s text-anchor="middle" font-family="%s" font-size="%s"%s%s%s>%s</text>`+"\n",
		num(c.BaselineShift), transform, fontFamily(c.Font), num(c.Size), weight,
		paint("fill", c.Color), b.filter(c.Shadow), escaped.String())
}

// filter returns the filter attribute for s, registering a new filter the
// first time a shadow is seen.
func (b *Backend) filter(s reverseclock.Shadow) string {
	if !s.Enabled() {
		return ""
	}
	for i, f := range b.filters {
		if f == s {
			return fmt.Sprintf(` filter="url(#%s)"`, filterID(i))
		}
	}
	b.filters = append(b.filters, s)
	return fmt.Sprintf(` filter="url(#%s)"`, filterID(len(b.filters)-1))
}

func (b *Backend) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Bytes returns the document produced by End.
func (b *Backend) Bytes() []byte {
	return b.doc
}

// WriteTo writes the document.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.doc == nil {
		return 0, errNotRendered
	}
	n, err := w.Write(b.doc)
	return int64(n), err
}

// SaveSVG writes the document to a file.
func (b *Backend) SaveSVG(path string) error {
	if b.doc == nil {
		return errNotRendered
	}
	return os.WriteFile(path, b.doc, 0o644)
}

// Width returns the document width.
func (b *Backend) Width() int { return b.width }

// Height returns the document height.
func (b *Backend) Height() int { return b.height }

func filterID(i int) string {
	return "shadow" + strconv.Itoa(i)
}

func fontFamily(role reverseclock.FontRole) string {
	if f, ok := fontFamilies[role]; ok {
		return f
	}
	return fontFamilies[reverseclock.FontBody]
}

func rotate(deg float64, about gg.Point) string {
	if deg == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(deg), num(about.X), num(about.Y))
}

func lineCap(c gg.LineCap) string {
	switch c {
	case gg.LineCapRound:
		return "round"
	case gg.LineCapSquare:
		return "square"
	default:
		return "butt"
	}
}

// paint returns the colour and opacity attributes for a fill or stroke.
func paint(attr string, c gg.RGBA) string {
	s := fmt.Sprintf(` %s="%s"`, attr, rgb(c))
	if c.A < 1 {
		s += fmt.Sprintf(` %s-opacity="%s"`, attr, num(c.A))
	}
	return s
}

func rgb(c gg.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(min(max(v, 0), 1)*255 + 0.5)
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
