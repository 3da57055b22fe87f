// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Backend turns draw commands into an output format (raster pixels, SVG ...).
//
// Frame.Playback calls Begin, then one drawing method per command with
// coordinates already translated to surface space, then End. Each command
// carries its full style, so a backend keeps no style state between calls.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions:
//
//	func init() {
//	    reverseclock.Register("svg", func() reverseclock.Backend {
//	        return NewBackend()
//	    })
//	}
type Backend interface {
	// Begin prepares a width×height surface. It must be called before any
	// drawing method.
	Begin(width, height int) error

	// End finalizes the output. Output methods are valid only after End.
	End() error

	Clear(cmd ClearCommand)
	FillCircle(cmd FillCircleCommand)
	StrokeCircle(cmd StrokeCircleCommand)
	StrokeLine(cmd StrokeLineCommand)
	DrawImage(cmd DrawImageCommand)
	DrawText(cmd DrawTextCommand)
}

// WriterBackend is a Backend whose output can be streamed to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered output. Call it only after End.
	WriteTo(w io.Writer) (int64, error)
}

// BackendFactory creates a new backend instance.
type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend available by name, following the database/sql
// driver pattern. It panics if factory is nil or the name is taken.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("reverseclock: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("reverseclock: Register called twice for " + name)
	}
	backends[name] = factory
}

// Unregister removes a backend from the registry. Mostly useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewBackend creates a new backend instance by name.
//
//	import _ "github.com/gogpu/reverseclock/backend/raster"
//
//	b, err := reverseclock.NewBackend("raster")
func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownBackend, name)
	}
	return factory(), nil
}

// Backends returns the sorted names of all registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a backend with the given name exists.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}
