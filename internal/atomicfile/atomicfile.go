// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package atomicfile replaces files so that readers never see a partially
// written frame.
package atomicfile

import "os"

// WriteFile writes data to filename through a temporary file and a rename
// where the platform supports it.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return writeFile(filename, data, perm)
}
