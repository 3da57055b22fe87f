// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import "time"

// Clock supplies the wall-clock time of a frame.
type Clock interface {
	// Now reports the current time.
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock uses the host OS time in the local timezone.
var SystemClock Clock = systemClock{}
