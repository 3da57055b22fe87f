// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package version carries build information set via -ldflags.
package version

import "runtime"

// Build information. Populated at build-time via ldflags:
//
//	-X github.com/gogpu/reverseclock/internal/version.Version=v1.0.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information keyed by label name.
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
	}
}

// String returns a one-line description for the version command.
func String() string {
	return Version + " (" + GitCommit + ", built " + BuildDate + ", " + runtime.Version() + ")"
}
