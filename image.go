// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// DecorativeImage is the picture drawn behind the hands.
//
// The source pixels never change. Scaled holds a resampled copy sized to the
// current geometry and is replaced, not mutated, when the surface resizes.
type DecorativeImage struct {
	source image.Image
	scaled *image.RGBA
}

// NewDecorativeImage wraps decoded pixels. A nil or empty image yields nil,
// which the renderer treats as "no image".
func NewDecorativeImage(src image.Image) *DecorativeImage {
	if src == nil || src.Bounds().Empty() {
		return nil
	}
	return &DecorativeImage{source: src}
}

// Source returns the original pixels.
func (d *DecorativeImage) Source() image.Image {
	if d == nil {
		return nil
	}
	return d.source
}

// Scaled returns the pixels scaled for the last geometry, or nil if no
// rescale has succeeded yet.
func (d *DecorativeImage) Scaled() image.Image {
	if d == nil || d.scaled == nil {
		return nil
	}
	return d.scaled
}

// ScaledSize returns the target size of the decorative image for a geometry:
// height is 0.9·R, width keeps the source aspect ratio.
func ScaledSize(g Geometry, srcWidth, srcHeight int) (width, height int) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return 0, 0
	}
	height = int(math.Round(g.ImageHeight()))
	aspect := float64(srcWidth) / float64(srcHeight)
	width = int(math.Round(float64(height) * aspect))
	return width, height
}

// rescale resamples the source for g. It reports false, keeping the previous
// scaled copy, when the target size rounds to zero.
func (d *DecorativeImage) rescale(g Geometry) bool {
	if d == nil {
		return false
	}
	b := d.source.Bounds()
	w, h := ScaledSize(g, b.Dx(), b.Dy())
	if w <= 0 || h <= 0 {
		return false
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), d.source, b, draw.Src, nil)
	d.scaled = dst
	return true
}
