// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command reverseclock renders the reverse analog clock to PNG or SVG
// files, keeps a file updated once a second, or serves the clock over HTTP.
//
// Usage:
//
//	reverseclock render --size 1000x1000 --image burundi.png --out clock.png
//	reverseclock watch --out /var/www/clock.png
//	reverseclock serve --config reverseclock.yaml
//	reverseclock version
package main

import (
	"os"

	_ "github.com/gogpu/reverseclock/backend/raster"
	_ "github.com/gogpu/reverseclock/backend/svg"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
