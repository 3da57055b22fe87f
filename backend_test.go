// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package reverseclock

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gg"
)

// traceBackend records every call it receives.
type traceBackend struct {
	width, height int
	begun, ended  bool
	calls         []CommandType
	circles       []gg.Point
	lines         [][2]gg.Point
	texts         []gg.Point
	images        []gg.Point
	beginErr      error
}

func (b *traceBackend) Begin(width, height int) error {
	b.width, b.height = width, height
	b.begun = true
	return b.beginErr
}

func (b *traceBackend) End() error {
	b.ended = true
	return nil
}

func (b *traceBackend) Clear(ClearCommand) { b.calls = append(b.calls, CmdClear) }

func (b *traceBackend) FillCircle(c FillCircleCommand) {
	b.calls = append(b.calls, CmdFillCircle)
	b.circles = append(b.circles, c.Center)
}

func (b *traceBackend) StrokeCircle(c StrokeCircleCommand) {
	b.calls = append(b.calls, CmdStrokeCircle)
	b.circles = append(b.circles, c.Center)
}

func (b *traceBackend) StrokeLine(c StrokeLineCommand) {
	b.calls = append(b.calls, CmdStrokeLine)
	b.lines = append(b.lines, [2]gg.Point{c.From, c.To})
}

func (b *traceBackend) DrawImage(c DrawImageCommand) {
	b.calls = append(b.calls, CmdDrawImage)
	b.images = append(b.images, c.Center)
}

func (b *traceBackend) DrawText(c DrawTextCommand) {
	b.calls = append(b.calls, CmdDrawText)
	b.texts = append(b.texts, c.Anchor)
}

func TestPlaybackTranslatesToSurface(t *testing.T) {
	f := Frame{
		Width:  200,
		Height: 100,
		Center: gg.Pt(100, 50),
		Commands: []Command{
			ClearCommand{Color: gg.White},
			FillCircleCommand{Center: gg.Pt(0, 0), Radius: 3},
			StrokeLineCommand{From: gg.Pt(-1, 0), To: gg.Pt(10, -10)},
			DrawImageCommand{Center: gg.Pt(0, 0)},
			DrawTextCommand{Text: "12", Anchor: gg.Pt(0, -40)},
			StrokeCircleCommand{Center: gg.Pt(0, 0), Radius: 45},
		},
	}

	b := &traceBackend{}
	if err := f.Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	if !b.begun || !b.ended {
		t.Error("Begin/End not called")
	}
	if b.width != 200 || b.height != 100 {
		t.Errorf("Begin size = %dx%d, want 200x100", b.width, b.height)
	}

	wantCalls := []CommandType{CmdClear, CmdFillCircle, CmdStrokeLine, CmdDrawImage, CmdDrawText, CmdStrokeCircle}
	if !slices.Equal(b.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", b.calls, wantCalls)
	}
	if b.circles[0] != gg.Pt(100, 50) || b.circles[1] != gg.Pt(100, 50) {
		t.Errorf("circles = %v, want centred at (100, 50)", b.circles)
	}
	if b.lines[0] != [2]gg.Point{gg.Pt(99, 50), gg.Pt(110, 40)} {
		t.Errorf("line = %v", b.lines[0])
	}
	if b.texts[0] != gg.Pt(100, 10) {
		t.Errorf("text anchor = %v, want (100, 10)", b.texts[0])
	}
	if b.images[0] != gg.Pt(100, 50) {
		t.Errorf("image centre = %v, want (100, 50)", b.images[0])
	}

	// The frame itself stays centre-relative.
	if c := f.Commands[4].(DrawTextCommand); c.Anchor != gg.Pt(0, -40) {
		t.Errorf("Playback modified the frame: %v", c.Anchor)
	}
}

func TestPlaybackBeginError(t *testing.T) {
	sentinel := errors.New("no surface")
	b := &traceBackend{beginErr: sentinel}
	f := Frame{Width: 1, Height: 1, Commands: []Command{ClearCommand{}}}

	err := f.Playback(b)
	if !errors.Is(err, sentinel) {
		t.Fatalf("Playback error = %v, want %v", err, sentinel)
	}
	if len(b.calls) != 0 || b.ended {
		t.Error("backend was drawn to after Begin failed")
	}
}

func TestRegistry(t *testing.T) {
	const name = "trace-test"
	Register(name, func() Backend { return &traceBackend{} })
	t.Cleanup(func() { Unregister(name) })

	if !IsRegistered(name) {
		t.Fatal("backend not registered")
	}
	if !slices.Contains(Backends(), name) {
		t.Errorf("Backends() = %v, missing %q", Backends(), name)
	}
	b, err := NewBackend(name)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if _, ok := b.(*traceBackend); !ok {
		t.Errorf("NewBackend returned %T", b)
	}

	if _, err := NewBackend("does-not-exist"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewBackend(unknown) error = %v, want ErrUnknownBackend", err)
	}
}

func TestRegisterPanics(t *testing.T) {
	const name = "dup-test"
	Register(name, func() Backend { return &traceBackend{} })
	t.Cleanup(func() { Unregister(name) })

	tests := []struct {
		name    string
		factory BackendFactory
	}{
		{"duplicate", func() Backend { return &traceBackend{} }},
		{"nil factory", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register did not panic")
				}
			}()
			regName := name
			if tt.factory == nil {
				regName = "nil-test"
			}
			Register(regName, tt.factory)
		})
	}
}

func TestCommandTypeString(t *testing.T) {
	if CmdDrawText.String() != "DrawText" {
		t.Errorf("CmdDrawText.String() = %q", CmdDrawText.String())
	}
	if CommandType(200).String() != "Unknown" {
		t.Errorf("CommandType(200).String() = %q", CommandType(200).String())
	}
	if FontCaption.String() != "caption" || FontRole(9).String() != "unknown" {
		t.Error("FontRole.String mismatch")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"800x600", 800, 600, false},
		{" 500X800 ", 500, 800, false},
		{"800", 0, 0, true},
		{"0x600", 0, 0, true},
		{"ax600", 0, 0, true},
		{"800x-1", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseSize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSize) {
					t.Errorf("ParseSize(%q) error = %v, want ErrInvalidSize", tt.in, err)
				}
				return
			}
			if err != nil || w != tt.w || h != tt.h {
				t.Errorf("ParseSize(%q) = %d, %d, %v", tt.in, w, h, err)
			}
		})
	}
}
