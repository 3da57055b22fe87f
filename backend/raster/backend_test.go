// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/reverseclock"
)

func TestBackendRegistration(t *testing.T) {
	if !reverseclock.IsRegistered("raster") {
		t.Fatal("raster backend not registered")
	}
	backend, err := reverseclock.NewBackend("raster")
	if err != nil {
		t.Fatalf("failed to create raster backend: %v", err)
	}
	if _, ok := backend.(*Backend); !ok {
		t.Fatalf("backend is %T, want *raster.Backend", backend)
	}
}

func TestBackendLifecycle(t *testing.T) {
	backend := NewBackend()
	if backend.Image() != nil {
		t.Error("Image() before Begin should be nil")
	}
	if _, err := backend.WriteTo(&bytes.Buffer{}); !errors.Is(err, errNotRendered) {
		t.Errorf("WriteTo before Begin = %v, want errNotRendered", err)
	}

	if err := backend.Begin(100, 60); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if backend.Width() != 100 || backend.Height() != 60 {
		t.Errorf("size = %dx%d, want 100x60", backend.Width(), backend.Height())
	}
	if err := backend.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if b := backend.Image().Bounds(); b.Dx() != 100 || b.Dy() != 60 {
		t.Errorf("image bounds = %v", b)
	}
}

func TestBackendBeginInvalidSize(t *testing.T) {
	err := NewBackend().Begin(0, 10)
	if !errors.Is(err, reverseclock.ErrInvalidSize) {
		t.Errorf("Begin(0, 10) = %v, want ErrInvalidSize", err)
	}
}

func TestBackendFillCircle(t *testing.T) {
	b := NewBackend()
	if err := b.Begin(100, 100); err != nil {
		t.Fatal(err)
	}
	b.Clear(reverseclock.ClearCommand{Color: gg.White})
	b.FillCircle(reverseclock.FillCircleCommand{
		Center: gg.Pt(50, 50),
		Radius: 20,
		Color:  gg.Red,
	})
	if err := b.End(); err != nil {
		t.Fatal(err)
	}

	img := b.Image()
	if !isReddish(img.At(50, 50)) {
		t.Errorf("centre pixel = %v, want red", img.At(50, 50))
	}
	if !isWhitish(img.At(5, 5)) {
		t.Errorf("corner pixel = %v, want white", img.At(5, 5))
	}
}

func TestBackendShadowOffset(t *testing.T) {
	b := NewBackend()
	if err := b.Begin(100, 100); err != nil {
		t.Fatal(err)
	}
	b.Clear(reverseclock.ClearCommand{Color: gg.White})
	b.FillCircle(reverseclock.FillCircleCommand{
		Center: gg.Pt(40, 40),
		Radius: 10,
		Color:  gg.Red,
		Shadow: reverseclock.Shadow{DX: 15, DY: 15, Color: gg.Black},
	})
	if err := b.End(); err != nil {
		t.Fatal(err)
	}

	r, g, bl, _ := b.Image().At(55, 55).RGBA()
	if r > 0x4000 || g > 0x4000 || bl > 0x4000 {
		t.Errorf("shadow pixel = %v, want dark", b.Image().At(55, 55))
	}
}

func TestBackendDrawRotatedImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 10))
	for y := range 10 {
		for x := range 40 {
			src.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}

	tests := []struct {
		name      string
		rotation  float64
		inside    image.Point
		outside   image.Point
		wantBlue  bool
		wantWhite bool
	}{
		{"upright", 0, image.Point{X: 65, Y: 50}, image.Point{X: 50, Y: 65}, true, true},
		{"quarter turn", 90, image.Point{X: 50, Y: 65}, image.Point{X: 65, Y: 50}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend()
			if err := b.Begin(100, 100); err != nil {
				t.Fatal(err)
			}
			b.Clear(reverseclock.ClearCommand{Color: gg.White})
			b.DrawImage(reverseclock.DrawImageCommand{
				Image:    src,
				Center:   gg.Pt(50, 50),
				Rotation: tt.rotation,
			})
			if err := b.End(); err != nil {
				t.Fatal(err)
			}
			img := b.Image()
			if !isBluish(img.At(tt.inside.X, tt.inside.Y)) {
				t.Errorf("pixel %v = %v, want blue", tt.inside, img.At(tt.inside.X, tt.inside.Y))
			}
			if !isWhitish(img.At(tt.outside.X, tt.outside.Y)) {
				t.Errorf("pixel %v = %v, want white", tt.outside, img.At(tt.outside.X, tt.outside.Y))
			}
		})
	}
}

func TestRotateAboutCenterKeepsCentre(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 20, 20))
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			src.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	out := rotateAboutCenter(src, 30, 45)
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 30 {
		t.Fatalf("sprite bounds = %v", out.Bounds())
	}
	if !isBluish(out.At(15, 15)) {
		t.Errorf("sprite centre = %v, want blue", out.At(15, 15))
	}
	if _, _, _, a := out.At(0, 0).RGBA(); a != 0 {
		t.Errorf("sprite corner alpha = %d, want transparent", a)
	}
}

func TestBackendDrawText(t *testing.T) {
	for _, rotation := range []float64{0, 30} {
		b := NewBackend()
		if err := b.Begin(120, 120); err != nil {
			t.Fatal(err)
		}
		b.Clear(reverseclock.ClearCommand{Color: gg.White})
		b.DrawText(reverseclock.DrawTextCommand{
			Text:     "12",
			Anchor:   gg.Pt(60, 60),
			Rotation: rotation,
			Font:     reverseclock.FontNumeral,
			Size:     40,
			Color:    gg.Black,
		})
		if err := b.End(); err != nil {
			t.Fatal(err)
		}
		if darkPixels(b.Image()) == 0 {
			t.Errorf("rotation %v: no text pixels drawn", rotation)
		}
	}
}

func TestBackendDrawTextSkipsEmpty(t *testing.T) {
	b := NewBackend()
	if err := b.Begin(40, 40); err != nil {
		t.Fatal(err)
	}
	b.Clear(reverseclock.ClearCommand{Color: gg.White})
	b.DrawText(reverseclock.DrawTextCommand{Text: "", Size: 20, Color: gg.Black})
	b.DrawText(reverseclock.DrawTextCommand{Text: "x", Size: 0, Color: gg.Black})
	if darkPixels(b.Image()) != 0 {
		t.Error("empty text commands drew pixels")
	}
}

func TestFrameRendersSecondHand(t *testing.T) {
	tm := time.Date(2025, 1, 1, 10, 0, 15, 0, time.UTC)
	r := reverseclock.NewRenderer(reverseclock.WithScheduler(reverseclock.SchedulerFunc(func(time.Duration) {})))
	r.SetSize(300, 300)
	frame := r.RenderAt(tm)

	b := NewBackend()
	if err := frame.Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	img := b.Image()

	// 15 seconds on a reverse dial points to nine o'clock.
	g := r.Geometry()
	x := int(g.CX - g.SecondHand*0.6)
	y := int(g.CY)
	if !isReddish(img.At(x, y)) {
		t.Errorf("pixel (%d, %d) = %v, want second hand red", x, y, img.At(x, y))
	}
	if !isDayBackground(img.At(2, 2)) {
		t.Errorf("corner = %v, want day background", img.At(2, 2))
	}
}

func TestBackendWriteToAndSavePNG(t *testing.T) {
	b := NewBackend()
	if err := b.Begin(32, 16); err != nil {
		t.Fatal(err)
	}
	b.Clear(reverseclock.ClearCommand{Color: gg.Red})
	if err := b.End(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) || n == 0 {
		t.Errorf("WriteTo returned %d, buffer holds %d", n, buf.Len())
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("decoded width = %d, want 32", img.Bounds().Dx())
	}

	path := filepath.Join(t.TempDir(), "clock.png")
	if err := b.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}

func TestFontsFaceCache(t *testing.T) {
	fonts, err := DefaultFonts()
	if err != nil {
		t.Fatalf("DefaultFonts: %v", err)
	}
	a := fonts.Face(reverseclock.FontNumeral, 20.1)
	b := fonts.Face(reverseclock.FontNumeral, 20.0)
	if a != b {
		t.Error("sizes within a quarter pixel should share a face")
	}
	if fonts.Face(reverseclock.FontRole(42), 12) == nil {
		t.Error("unknown role should fall back to the body font")
	}
	if _, err := NewFonts([]byte("not a font"), nil, nil); err == nil {
		t.Error("NewFonts accepted garbage")
	}
}

func isReddish(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xC000 && g < 0x6000 && b < 0x6000
}

func isBluish(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return b > 0xC000 && r < 0x6000 && g < 0x6000
}

func isWhitish(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xF000 && g > 0xF000 && b > 0xF000
}

func isDayBackground(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	// #F5F5F5
	return r > 0xE800 && g > 0xE800 && b > 0xE800
}

func darkPixels(img image.Image) int {
	n := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r < 0x8000 {
				n++
			}
		}
	}
	return n
}
