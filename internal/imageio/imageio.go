// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package imageio decodes the decorative clock image.
//
// PNG, JPEG, GIF and WebP are recognised by content, not by file extension.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/reverseclock"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("imageio: image has no pixels")

// Decode reads an image from r and reports its format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, format, ErrEmptyImage
	}
	return img, format, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, error) {
	img, _, err := Decode(bytes.NewReader(data))
	return img, err
}

// Load decodes the image file at path.
func Load(path string) (image.Image, error) {
	// #nosec G304 -- path comes from configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open: %w", err)
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	b := img.Bounds()
	reverseclock.Logger().Debug("imageio: loaded image", "path", path, "format", format, "width", b.Dx(), "height", b.Dy())
	return img, nil
}
