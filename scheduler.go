// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"context"
	"sync"
	"time"
)

// DefaultRedrawInterval is the delay between two frames.
const DefaultRedrawInterval = time.Second

// Scheduler receives the renderer's request for the next frame.
//
// RequestRedraw must not block: it only asks the host to render again after
// the given delay. A UI host typically maps it to its own invalidate call.
type Scheduler interface {
	RequestRedraw(after time.Duration)
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(after time.Duration)

// RequestRedraw implements Scheduler.
func (f SchedulerFunc) RequestRedraw(after time.Duration) { f(after) }

// TimerScheduler is a Scheduler for hosts without an event loop. Every
// request arms a one-shot timer that calls the redraw callback; a newer
// request supersedes a pending one, so there is at most one frame in flight.
//
// The callback runs on the timer goroutine.
type TimerScheduler struct {
	redraw func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64 // request generation; stale timers do not fire
	stopped bool
}

// NewTimerScheduler returns a scheduler that calls redraw when a requested
// delay elapses. redraw usually renders a frame, which in turn requests the
// next one.
func NewTimerScheduler(redraw func()) *TimerScheduler {
	return &TimerScheduler{redraw: redraw}
}

// RequestRedraw implements Scheduler.
func (s *TimerScheduler) RequestRedraw(after time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(after, func() { s.fire(gen) })
}

func (s *TimerScheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.redraw()
}

// Pending reports whether a redraw is armed and has not fired yet.
func (s *TimerScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && s.timer != nil
}

// Stop cancels any pending redraw. Later requests are ignored.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Run draws the first frame immediately and then lets the redraw chain
// drive itself until ctx is done.
func (s *TimerScheduler) Run(ctx context.Context) error {
	s.redraw()
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}
