// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"math"
	"time"
)

// TimeSample is the wall-clock time of one frame in 12-hour form.
//
// Minutes carries the fractional contribution of Seconds and Hours carries
// the fractional contribution of Minutes, so the hour and minute hands move
// continuously while the second hand ticks.
type TimeSample struct {
	Hours   float64 // [0, 12)
	Minutes float64 // [0, 60)
	Seconds float64 // [0, 60), whole seconds
	PM      bool
}

// SampleTime converts t into a TimeSample. No timezone conversion is done:
// t is read in its own location.
func SampleTime(t time.Time) TimeSample {
	seconds := float64(t.Second())
	minutes := float64(t.Minute()) + seconds/60
	hours := float64(t.Hour()%12) + minutes/60
	return TimeSample{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
		PM:      t.Hour() >= 12,
	}
}

// Hour12 returns the whole hour in 12-hour form, 0 meaning twelve o'clock.
func (s TimeSample) Hour12() int {
	return int(s.Hours)
}

// SecondAngle returns the second hand angle in degrees.
// Angles are negative: the hands sweep counter-clockwise.
func (s TimeSample) SecondAngle() float64 {
	return -s.Seconds * 6
}

// MinuteAngle returns the minute hand angle in degrees.
func (s TimeSample) MinuteAngle() float64 {
	return -s.Minutes * 6
}

// HourAngle returns the hour hand angle in degrees.
//
// In the afternoon the hour hand is moved half a turn: 12 PM points where
// 6 AM would, 1 PM where 7 AM would, and so on.
func (s TimeSample) HourAngle() float64 {
	hours := s.Hours
	if s.PM {
		hours = math.Mod(hours+6, 12)
	}
	return -hours * 30
}

// IsDayTime reports whether the hour belongs to the day theme, given in
// 12-hour form (0 is twelve o'clock) with an AM/PM flag. Day is 06:00 up to,
// but excluding, 18:00.
func IsDayTime(hour12 int, pm bool) bool {
	if pm {
		return hour12 >= 0 && hour12 <= 5
	}
	return hour12 >= 6 && hour12 <= 11
}

// IsDayTime reports whether the sample falls in the day theme.
func (s TimeSample) IsDayTime() bool {
	return IsDayTime(s.Hour12(), s.PM)
}

// direction returns the unit vector for a clock angle in degrees, where 0
// points at twelve o'clock and positive angles turn clockwise on a y-down
// surface.
func direction(deg float64) (dx, dy float64) {
	rad := deg * math.Pi / 180
	return math.Sin(rad), -math.Cos(rad)
}
