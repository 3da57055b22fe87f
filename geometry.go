// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

// Proportions of the outer radius R. Every size-derived quantity of the clock
// face is one of these fractions multiplied by R.
const (
	radiusFraction = 0.92 // R relative to the shorter half-side

	hourTickFraction     = 0.024
	minuteTickFraction   = 0.01
	tickRingFraction     = 0.95
	tickPlacementFactor  = 0.98 // ticks sit slightly inside the tick ring
	numeralRingFraction  = 0.74
	numeralBoostFraction = 0.07
	numeralTextFraction  = 0.16
	numeralBaselineShift = 0.3 // of the numeral text size

	hourHandStrokeFraction   = 0.04
	secondHandStrokeFraction = 0.02
	centerDotFraction        = 0.06
	handTailFraction         = 0.25
	hourHandFraction         = 0.6
	minuteHandFraction       = 0.85
	secondHandFraction       = 0.9

	outerStrokeFraction = 0.015

	captionOffsetTopFraction    = 0.08
	captionOffsetBottomFraction = 0.10
	captionTextFraction         = 0.10
	designerTextFraction        = 0.06

	imageHeightFraction = 0.9

	// designerLineSpacing separates the two designer caption lines. It is a
	// fixed distance in surface units, not a fraction of R.
	designerLineSpacing = 30
)

// Geometry holds every size-derived constant of the clock face.
//
// A Geometry is built by NewGeometry from the surface size and is immutable
// afterwards. All offsets are derived from the same R, so they always change
// together. The zero value means "not sized yet" and reports Valid() == false.
type Geometry struct {
	// CX, CY is the centre of the surface.
	CX, CY float64

	// R is the outer ring radius.
	R float64

	HourTick   float64 // radius of the 12 hour tick dots
	MinuteTick float64 // radius of the 48 minute tick dots
	TickRing   float64

	NumeralRing  float64
	NumeralBoost float64 // extra radius for single-digit numerals
	NumeralSize  float64

	HourHandStroke   float64 // shared by the hour and minute hands
	SecondHandStroke float64
	CenterDot        float64
	HandTail         float64
	HourHand         float64
	MinuteHand       float64
	SecondHand       float64

	OuterStroke float64

	CaptionOffsetTop    float64
	CaptionOffsetBottom float64
	CaptionSize         float64
	DesignerSize        float64
}

// NewGeometry computes the geometry for a width×height surface.
// It reports false if either dimension is not positive.
func NewGeometry(width, height int) (Geometry, bool) {
	if width <= 0 || height <= 0 {
		return Geometry{}, false
	}

	cx := float64(width) / 2
	cy := float64(height) / 2
	r := min(cx, cy) * radiusFraction

	return Geometry{
		CX: cx,
		CY: cy,
		R:  r,

		HourTick:   r * hourTickFraction,
		MinuteTick: r * minuteTickFraction,
		TickRing:   r * tickRingFraction,

		NumeralRing:  r * numeralRingFraction,
		NumeralBoost: r * numeralBoostFraction,
		NumeralSize:  r * numeralTextFraction,

		HourHandStroke:   r * hourHandStrokeFraction,
		SecondHandStroke: r * secondHandStrokeFraction,
		CenterDot:        r * centerDotFraction,
		HandTail:         r * handTailFraction,
		HourHand:         r * hourHandFraction,
		MinuteHand:       r * minuteHandFraction,
		SecondHand:       r * secondHandFraction,

		OuterStroke: r * outerStrokeFraction,

		CaptionOffsetTop:    r * captionOffsetTopFraction,
		CaptionOffsetBottom: r * captionOffsetBottomFraction,
		CaptionSize:         r * captionTextFraction,
		DesignerSize:        r * designerTextFraction,
	}, true
}

// Valid reports whether g was produced from a positive surface size.
func (g Geometry) Valid() bool {
	return g.R > 0
}

// ImageHeight returns the target height of the decorative image in pixels.
func (g Geometry) ImageHeight() float64 {
	return g.R * imageHeightFraction
}
