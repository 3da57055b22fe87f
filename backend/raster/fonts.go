// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gg/text"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/reverseclock"
)

// faceCacheCapacity bounds the number of cached faces.
const faceCacheCapacity = 32

// Fonts maps font roles to loaded font sources and caches faces by size.
//
// Fonts is safe for concurrent use and should be shared: a FontSource is
// heavyweight, a face is cheap.
type Fonts struct {
	sources map[reverseclock.FontRole]*text.FontSource
	faces   *lru.Cache[faceKey, text.Face]
}

type faceKey struct {
	role reverseclock.FontRole
	size float64
}

// NewFonts parses TTF/OTF data for each role.
func NewFonts(numeral, caption, body []byte) (*Fonts, error) {
	data := map[reverseclock.FontRole][]byte{
		reverseclock.FontNumeral: numeral,
		reverseclock.FontCaption: caption,
		reverseclock.FontBody:    body,
	}
	faces, err := lru.New[faceKey, text.Face](faceCacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("raster: face cache: %w", err)
	}
	f := &Fonts{
		sources: make(map[reverseclock.FontRole]*text.FontSource, len(data)),
		faces:   faces,
	}
	for role, ttf := range data {
		src, err := text.NewFontSource(ttf)
		if err != nil {
			return nil, fmt.Errorf("raster: load %s font: %w", role, err)
		}
		f.sources[role] = src
	}
	return f, nil
}

// DefaultFonts returns the Go fonts: Go Mono for numerals, Go Bold for the
// title caption and Go Regular for small print. They are parsed once.
var DefaultFonts = sync.OnceValues(func() (*Fonts, error) {
	return NewFonts(gomono.TTF, gobold.TTF, goregular.TTF)
})

// Face returns a face for role at size pixels. Sizes are rounded to a
// quarter pixel so that neighbouring frame sizes share faces.
func (f *Fonts) Face(role reverseclock.FontRole, size float64) text.Face {
	src, ok := f.sources[role]
	if !ok {
		src = f.sources[reverseclock.FontBody]
	}
	key := faceKey{role: role, size: math.Round(size*4) / 4}
	if face, ok := f.faces.Get(key); ok {
		return face
	}
	face := src.Face(key.size)
	f.faces.Add(key, face)
	return face
}
