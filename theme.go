// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import "github.com/gogpu/gg"

// Theme is the colour scheme of one frame.
type Theme struct {
	Name string

	Background gg.RGBA
	// Foreground colours numerals, ticks, the outer ring, the hour and
	// minute hands and the centre dot.
	Foreground    gg.RGBA
	CaptionAccent gg.RGBA
	CaptionMuted  gg.RGBA
	SecondHand    gg.RGBA
}

var (
	// DayTheme is used from 06:00 to 18:00.
	DayTheme = Theme{
		Name:          "day",
		Background:    gg.Hex("#F5F5F5"),
		Foreground:    gg.Hex("#212121"),
		CaptionAccent: gg.Hex("#90EE90"),
		CaptionMuted:  gg.Hex("#444444"),
		SecondHand:    gg.Red,
	}

	// NightTheme is used from 18:00 to 06:00.
	NightTheme = Theme{
		Name:          "night",
		Background:    gg.Hex("#121212"),
		Foreground:    gg.White,
		CaptionAccent: gg.Hex("#90EE90"),
		CaptionMuted:  gg.Hex("#CCCCCC"),
		SecondHand:    gg.Red,
	}
)

// ThemeFor selects the theme for a time sample.
func ThemeFor(s TimeSample) Theme {
	if s.IsDayTime() {
		return DayTheme
	}
	return NightTheme
}
