// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerSchedulerFires(t *testing.T) {
	fired := make(chan struct{}, 1)
	s := NewTimerScheduler(func() { fired <- struct{}{} })
	t.Cleanup(s.Stop)

	s.RequestRedraw(5 * time.Millisecond)
	if !s.Pending() {
		t.Error("Pending = false after RequestRedraw")
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("redraw did not fire")
	}
}

func TestTimerSchedulerNotPendingAfterFire(t *testing.T) {
	fired := make(chan struct{}, 1)
	s := NewTimerScheduler(func() { fired <- struct{}{} })
	t.Cleanup(s.Stop)

	s.RequestRedraw(time.Millisecond)
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("redraw did not fire")
	}
	if s.Pending() {
		t.Error("Pending = true after the redraw fired")
	}

	s.RequestRedraw(time.Hour)
	if !s.Pending() {
		t.Error("Pending = false after a new request")
	}
}

func TestTimerSchedulerSupersedes(t *testing.T) {
	var count atomic.Int32
	s := NewTimerScheduler(func() { count.Add(1) })
	t.Cleanup(s.Stop)

	s.RequestRedraw(time.Hour)
	s.RequestRedraw(time.Hour)
	s.RequestRedraw(10 * time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("redraws = %d, want 1", got)
	}
}

func TestTimerSchedulerStop(t *testing.T) {
	var count atomic.Int32
	s := NewTimerScheduler(func() { count.Add(1) })

	s.RequestRedraw(20 * time.Millisecond)
	s.Stop()
	s.RequestRedraw(time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Errorf("redraws after Stop = %d, want 0", got)
	}
	if s.Pending() {
		t.Error("Pending = true after Stop")
	}
}

func TestTimerSchedulerDrivesRenderer(t *testing.T) {
	var frames atomic.Int32
	var r *Renderer
	var s *TimerScheduler
	s = NewTimerScheduler(func() {
		r.RenderAt(at(10, 0, 0))
		frames.Add(1)
	})
	r = NewRenderer(WithScheduler(s), WithRedrawInterval(5*time.Millisecond))
	r.SetSize(50, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run error = %v, want deadline exceeded", err)
	}
	if got := frames.Load(); got < 3 {
		t.Errorf("frames = %d, want a self-sustaining chain", got)
	}

	// Let a frame that was already in flight finish.
	time.Sleep(20 * time.Millisecond)
	after := frames.Load()
	time.Sleep(50 * time.Millisecond)
	if frames.Load() != after {
		t.Error("frames kept rendering after Run returned")
	}
}
