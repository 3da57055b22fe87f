// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package atomicfile

import "os"

// renameio does not support Windows; fall back to a plain write.
func writeFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}
