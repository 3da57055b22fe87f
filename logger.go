// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"log/slog"
	"sync/atomic"
)

var (
	discardLogger = slog.New(slog.DiscardHandler)

	// current is swapped atomically; frames may render on another goroutine
	// while a host installs its logger.
	current atomic.Pointer[slog.Logger]
)

func init() {
	current.Store(discardLogger)
}

// SetLogger configures the logger for reverseclock and its sub-packages.
// Nothing is logged until a host calls it. Pass nil to silence logging again.
//
// Log levels used:
//   - [slog.LevelDebug]: geometry rebuilds, image rescales, background-only frames
//   - [slog.LevelInfo]: host lifecycle (server start, NTP sync, watch loop)
//   - [slog.LevelWarn]: recoverable problems (NTP query failures)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	current.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
