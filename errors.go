// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import "errors"

var (
	// ErrUnknownBackend is returned by NewBackend for unregistered names.
	ErrUnknownBackend = errors.New("reverseclock: unknown backend")

	// ErrInvalidSize is returned by ParseSize for malformed or non-positive
	// sizes.
	ErrInvalidSize = errors.New("reverseclock: invalid size")
)
