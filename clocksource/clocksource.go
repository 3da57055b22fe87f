// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package clocksource provides reverseclock.Clock implementations beyond the
// system clock: fixed instants, timezone conversion and NTP-corrected time.
package clocksource

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/gogpu/reverseclock"
)

// Fixed always reports the same time.
type Fixed time.Time

// Now implements reverseclock.Clock.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

type inLocation struct {
	clock reverseclock.Clock
	loc   *time.Location
}

func (c inLocation) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

// InLocation reports clock's time in loc. The renderer reads hours and
// minutes off the returned time, so this decides which wall clock is shown.
func InLocation(clock reverseclock.Clock, loc *time.Location) reverseclock.Clock {
	if clock == nil {
		clock = reverseclock.SystemClock
	}
	if loc == nil {
		return clock
	}
	return inLocation{clock: clock, loc: loc}
}

// Zone wraps clock in the IANA timezone name. An empty name or "Local"
// keeps the clock unchanged.
func Zone(clock reverseclock.Clock, name string) (reverseclock.Clock, error) {
	if clock == nil {
		clock = reverseclock.SystemClock
	}
	if name == "" || name == "Local" {
		return clock, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("clocksource: load timezone %q: %w", name, err)
	}
	return InLocation(clock, loc), nil
}
