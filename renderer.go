// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"image"
	"strconv"
	"time"

	"github.com/gogpu/gg"
)

// Caption strings drawn around the decorative image.
const (
	CaptionTitle    = "Ntafatiro"
	CaptionDesigner = "Designed and developed by"
	CaptionCompany  = "Gasape Group Innovation LTD"
)

const (
	tickCount    = 60
	hourTickStep = 5
	numeralCount = 12
)

// Observer receives instrumentation events from a Renderer.
type Observer interface {
	GeometryRebuilt(width, height int)
	FrameRendered(theme string, elapsed time.Duration)
	RedrawRequested(after time.Duration)
}

// Renderer draws the reverse clock face.
//
// The only state kept between frames is the geometry of the last surface
// size and the decorative image scaled for it. Every frame is computed from
// scratch at the current time.
//
// Renderer is NOT safe for concurrent use.
type Renderer struct {
	opts rendererOptions

	width, height int
	geom          Geometry
	image         *DecorativeImage
}

// NewRenderer creates a renderer. The surface is unsized until SetSize is
// called; frames rendered before that hold only the background.
func NewRenderer(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{
		opts:  o,
		image: NewDecorativeImage(o.image),
	}
}

// SetSize rebuilds the geometry and the scaled image for a new surface size.
// Non-positive dimensions are ignored and the previous geometry stays.
func (r *Renderer) SetSize(width, height int) {
	g, ok := NewGeometry(width, height)
	if !ok {
		Logger().Debug("reverseclock: ignoring surface size", "width", width, "height", height)
		return
	}

	r.width, r.height = width, height
	r.geom = g

	if r.image != nil && !r.image.rescale(g) {
		Logger().Debug("reverseclock: image scale target is empty, keeping previous", "radius", g.R)
	}

	Logger().Debug("reverseclock: geometry rebuilt", "width", width, "height", height, "radius", g.R)
	if r.opts.observer != nil {
		r.opts.observer.GeometryRebuilt(width, height)
	}
}

// Size returns the last accepted surface size.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Geometry returns the current geometry.
func (r *Renderer) Geometry() Geometry {
	return r.geom
}

// ScaledImage returns the decorative image scaled for the current geometry,
// or nil if there is none.
func (r *Renderer) ScaledImage() image.Image {
	return r.image.Scaled()
}

// Render draws a frame for the configured clock's current time.
func (r *Renderer) Render() Frame {
	return r.RenderAt(r.opts.clock.Now())
}

// RenderAt draws a frame for time t and asks the scheduler for the next one.
func (r *Renderer) RenderAt(t time.Time) Frame {
	start := time.Now()

	sample := SampleTime(t)
	theme := ThemeFor(sample)

	f := Frame{
		Width:  r.width,
		Height: r.height,
		Center: gg.Pt(r.geom.CX, r.geom.CY),
		Time:   sample,
		Theme:  theme,
	}
	f.Commands = append(f.Commands, ClearCommand{Color: theme.Background})

	if r.geom.Valid() {
		r.drawImage(&f)
		r.drawNumerals(&f)
		r.drawHands(&f)
		r.drawTicks(&f)
		r.drawRing(&f)
	} else {
		Logger().Debug("reverseclock: surface not sized, drawing background only")
	}

	r.requestRedraw()

	if r.opts.observer != nil {
		r.opts.observer.FrameRendered(theme.Name, time.Since(start))
	}
	return f
}

func (r *Renderer) requestRedraw() {
	if r.opts.scheduler == nil {
		return
	}
	r.opts.scheduler.RequestRedraw(r.opts.redrawInterval)
	if r.opts.observer != nil {
		r.opts.observer.RedrawRequested(r.opts.redrawInterval)
	}
}

// drawImage draws the tilted decorative image and the captions above and
// below it. Captions are laid out in the untilted frame.
func (r *Renderer) drawImage(f *Frame) {
	img := r.image.Scaled()
	if img == nil {
		return
	}
	g := r.geom
	half := float64(img.Bounds().Dy()) / 2

	f.Commands = append(f.Commands,
		DrawImageCommand{
			Image:    img,
			Center:   gg.Pt(0, 0),
			Rotation: r.opts.imageRotation,
		},
		DrawTextCommand{
			Text:   CaptionTitle,
			Anchor: gg.Pt(0, -half-g.CaptionOffsetTop),
			Font:   FontCaption,
			Size:   g.CaptionSize,
			Color:  f.Theme.CaptionAccent,
			Shadow: DefaultShadow,
		},
		DrawTextCommand{
			Text:   CaptionDesigner,
			Anchor: gg.Pt(0, half+g.CaptionOffsetBottom),
			Font:   FontBody,
			Size:   g.DesignerSize,
			Color:  f.Theme.CaptionMuted,
		},
		DrawTextCommand{
			Text:   CaptionCompany,
			Anchor: gg.Pt(0, half+g.CaptionOffsetBottom+designerLineSpacing),
			Font:   FontBody,
			Size:   g.DesignerSize,
			Color:  f.Theme.CaptionMuted,
		},
	)
}

// NumeralDigit returns the numeral printed at dial position i (0 at twelve
// o'clock, counting clockwise). The dial reads 12, 11, 10 ... 1.
func NumeralDigit(i int) int {
	if i == 0 {
		return 12
	}
	return 12 - i
}

func (r *Renderer) drawNumerals(f *Frame) {
	g := r.geom
	for i := range numeralCount {
		digit := NumeralDigit(i)

		radius := g.NumeralRing
		if digit < 10 {
			radius += g.NumeralBoost
		}
		dx, dy := direction(float64(i * 30))

		f.Commands = append(f.Commands, DrawTextCommand{
			Text:          strconv.Itoa(digit),
			Anchor:        gg.Pt(radius*dx, radius*dy),
			Rotation:      float64(i),
			BaselineShift: g.NumeralSize * numeralBaselineShift,
			Font:          FontNumeral,
			Size:          g.NumeralSize,
			Color:         f.Theme.Foreground,
		})
	}
}

func (r *Renderer) drawHands(f *Frame) {
	g := r.geom
	s := f.Time
	th := f.Theme

	f.Commands = append(f.Commands,
		hand(s.HourAngle(), g.HourHand, g.HandTail, g.HourHandStroke, th.Foreground),
		hand(s.MinuteAngle(), g.MinuteHand, g.HandTail, g.HourHandStroke, th.Foreground),
		FillCircleCommand{
			Center: gg.Pt(0, 0),
			Radius: g.CenterDot,
			Color:  th.Foreground,
			Shadow: DefaultShadow,
		},
		hand(s.SecondAngle(), g.SecondHand, g.HandTail, g.SecondHandStroke, th.SecondHand),
	)
}

// hand builds a hand running from a short tail behind the centre to length
// along the given clock angle.
func hand(deg, length, tail, width float64, col gg.RGBA) StrokeLineCommand {
	dx, dy := direction(deg)
	return StrokeLineCommand{
		From:   gg.Pt(-tail*dx, -tail*dy),
		To:     gg.Pt(length*dx, length*dy),
		Width:  width,
		Cap:    gg.LineCapRound,
		Color:  col,
		Shadow: DefaultShadow,
	}
}

func (r *Renderer) drawTicks(f *Frame) {
	g := r.geom
	distance := g.TickRing * tickPlacementFactor
	for i := range tickCount {
		size := g.MinuteTick
		if i%hourTickStep == 0 {
			size = g.HourTick
		}
		dx, dy := direction(float64(i * 6))
		f.Commands = append(f.Commands, FillCircleCommand{
			Center: gg.Pt(distance*dx, distance*dy),
			Radius: size,
			Color:  f.Theme.Foreground,
		})
	}
}

func (r *Renderer) drawRing(f *Frame) {
	g := r.geom
	f.Commands = append(f.Commands, StrokeCircleCommand{
		Center: gg.Pt(0, 0),
		Radius: g.R,
		Width:  g.OuterStroke,
		Color:  f.Theme.Foreground,
		Shadow: DefaultShadow,
	})
}
