// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package clocksource

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)

func TestFixed(t *testing.T) {
	c := Fixed(epoch)
	if !c.Now().Equal(epoch) || !c.Now().Equal(c.Now()) {
		t.Errorf("Fixed.Now() = %v, want %v", c.Now(), epoch)
	}
}

func TestInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	c := InLocation(Fixed(epoch), loc)

	got := c.Now()
	if !got.Equal(epoch) {
		t.Errorf("instant changed: %v", got)
	}
	if got.Hour() != 1 || got.Minute() != 30 {
		t.Errorf("wall clock = %02d:%02d, want 01:30", got.Hour(), got.Minute())
	}

	if InLocation(Fixed(epoch), nil).Now().Location() != time.UTC {
		t.Error("nil location should keep the clock unchanged")
	}
}

func TestZone(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		wantHour int
		wantErr  bool
	}{
		{"empty", "", 23, false},
		{"utc", "UTC", 23, false},
		{"kigali", "Africa/Kigali", 1, false},
		{"unknown", "Mars/Olympus_Mons", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Zone(Fixed(epoch), tt.zone)
			if tt.wantErr {
				if err == nil {
					t.Error("Zone accepted an unknown timezone")
				}
				return
			}
			if err != nil {
				t.Fatalf("Zone(%q): %v", tt.zone, err)
			}
			if h := c.Now().Hour(); h != tt.wantHour {
				t.Errorf("hour = %d, want %d", h, tt.wantHour)
			}
		})
	}
}

// fakeQuery returns scripted results and counts calls.
type fakeQuery struct {
	mu      sync.Mutex
	calls   int
	offsets []time.Duration
	errs    []error
}

func (f *fakeQuery) query(_ context.Context, _ string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := min(f.calls, len(f.offsets)-1)
	f.calls++
	return f.offsets[i], f.errs[i]
}

func (f *fakeQuery) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNTPAppliesOffset(t *testing.T) {
	q := &fakeQuery{offsets: []time.Duration{90 * time.Second}, errs: []error{nil}}
	c := NewNTP(context.Background(), "ntp.test", WithQueryFunc(q.query), WithBase(Fixed(epoch)))

	if got := c.Now(); !got.Equal(epoch.Add(90 * time.Second)) {
		t.Errorf("Now() = %v, want base + 90s", got)
	}
	h := c.Health()
	if !h.Healthy || h.Offset != 90*time.Second || h.LastSync.IsZero() || h.Server != "ntp.test" {
		t.Errorf("Health() = %+v", h)
	}
	if q.count() != 1 {
		t.Errorf("queries = %d, want 1 (offset still fresh)", q.count())
	}
}

func TestNTPInitialFailure(t *testing.T) {
	boom := errors.New("unreachable")
	q := &fakeQuery{offsets: []time.Duration{0}, errs: []error{boom}}
	c := NewNTP(context.Background(), "ntp.test", WithQueryFunc(q.query), WithBase(Fixed(epoch)))

	if !c.Now().Equal(epoch) {
		t.Error("failed sync should leave a zero offset")
	}
	h := c.Health()
	if h.Healthy || h.LastError == "" {
		t.Errorf("Health() = %+v, want unhealthy with error", h)
	}
	if err := c.Sync(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Sync error = %v, want wrapped %v", err, boom)
	}
}

func TestNTPBackoffDoublesAndCaps(t *testing.T) {
	boom := errors.New("unreachable")
	q := &fakeQuery{offsets: []time.Duration{0}, errs: []error{boom}}
	c := NewNTP(context.Background(), "ntp.test",
		WithQueryFunc(q.query),
		WithBackoff(time.Second, 3*time.Second),
	)

	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for i, w := range want {
		if i > 0 {
			_ = c.Sync(context.Background())
		}
		c.mu.Lock()
		got := c.backoff
		c.mu.Unlock()
		if got != w {
			t.Errorf("after %d failures backoff = %v, want %v", i+1, got, w)
		}
	}
}

func TestNTPBackgroundRefresh(t *testing.T) {
	q := &fakeQuery{
		offsets: []time.Duration{time.Second, 2 * time.Second},
		errs:    []error{nil, nil},
	}
	c := NewNTP(context.Background(), "ntp.test",
		WithQueryFunc(q.query),
		WithBase(Fixed(epoch)),
		WithSyncInterval(time.Millisecond),
	)
	time.Sleep(5 * time.Millisecond)

	// The due refresh runs in the background; this call still sees the
	// old offset.
	if got := c.Now(); !got.Equal(epoch.Add(time.Second)) {
		t.Errorf("Now() = %v, want old offset applied", got)
	}
	c.Wait()
	if got := c.Offset(); got != 2*time.Second {
		t.Errorf("Offset() after refresh = %v, want 2s", got)
	}
	if q.count() != 2 {
		t.Errorf("queries = %d, want 2", q.count())
	}
}

func TestNTPUnhealthyThreshold(t *testing.T) {
	q := &fakeQuery{offsets: []time.Duration{-3 * time.Second}, errs: []error{nil}}
	c := NewNTP(context.Background(), "ntp.test",
		WithQueryFunc(q.query),
		WithUnhealthyThreshold(time.Second),
	)
	if c.Health().Healthy {
		t.Error("offset beyond threshold should be unhealthy")
	}
}
