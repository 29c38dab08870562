// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package status

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/frontpanel/debounce"
)

// surface records the drawing calls.
type surface struct {
	ops []string
	err error
}

func (s *surface) Clear(on bool) {
	s.ops = append(s.ops, fmt.Sprintf("clear %t", on))
}

func (s *surface) DrawRect(x, y, w, h int, on bool) {
	s.ops = append(s.ops, fmt.Sprintf("rect %d,%d %dx%d %t", x, y, w, h, on))
}

func (s *surface) DrawString(str string, x, y int) {
	s.ops = append(s.ops, fmt.Sprintf("text %q %d,%d", str, x, y))
}

func (s *surface) Send() error {
	s.ops = append(s.ops, "send")
	return s.err
}

type output struct {
	levels []gpio.Level
}

func (o *output) Out(l gpio.Level) error {
	o.levels = append(o.levels, l)
	return nil
}

func TestShow(t *testing.T) {
	for _, tc := range []struct {
		name   string
		button debounce.Button
		lit    bool
		ops    []string
		green  []gpio.Level
		blue   []gpio.Level
	}{
		{
			name:   "blue on",
			button: debounce.Button{Name: "A", Pin: 5, Channel: debounce.Blue},
			lit:    true,
			ops: []string{
				"clear false",
				"rect 3,3 122x58 true",
				`text "Blue LED" 30,10`,
				`text "toggled" 30,30`,
				`text "On" 20,50`,
				"send",
			},
			blue: []gpio.Level{gpio.High},
		},
		{
			name:   "green off",
			button: debounce.Button{Name: "B", Pin: 6, Channel: debounce.Green},
			lit:    false,
			ops: []string{
				"clear false",
				"rect 3,3 122x58 true",
				`text "Green LED" 30,10`,
				`text "toggled" 30,30`,
				`text "Off" 20,50`,
				"send",
			},
			green: []gpio.Level{gpio.Low},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &surface{}
			r, g, b := &output{}, &output{}, &output{}
			p := New(s, r, g, b)
			if err := p.Show(tc.button, tc.lit); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.ops, s.ops); diff != "" {
				t.Errorf("surface mismatch (-want +got):\n%s", diff)
			}
			if len(r.levels) != 0 {
				t.Errorf("red written: %v", r.levels)
			}
			if diff := cmp.Diff(tc.green, g.levels); diff != "" {
				t.Errorf("green mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.blue, b.levels); diff != "" {
				t.Errorf("blue mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShowPin(t *testing.T) {
	blue := &gpiotest.Pin{N: "GPIO12", Num: 12}
	p := New(&surface{}, nil, nil, blue)
	if err := p.Show(debounce.Button{Name: "A", Channel: debounce.Blue}, true); err != nil {
		t.Fatal(err)
	}
	if blue.Read() != gpio.High {
		t.Fatal("blue channel not lit")
	}
	// A missing channel is not an error.
	if err := p.Show(debounce.Button{Name: "B", Channel: debounce.Green}, true); err != nil {
		t.Fatal(err)
	}
}

func TestShowSendError(t *testing.T) {
	s := &surface{err: errors.New("i2c nack")}
	b := &output{}
	p := New(s, nil, nil, b)
	if err := p.Show(debounce.Button{Name: "A", Channel: debounce.Blue}, true); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff([]gpio.Level{gpio.High}, b.levels); diff != "" {
		t.Fatalf("channel must be driven anyway (-want +got):\n%s", diff)
	}
}

func TestShowInvalidChannel(t *testing.T) {
	s := &surface{}
	if err := New(s, nil, nil, nil).Show(debounce.Button{Channel: debounce.Channel(9)}, true); err == nil {
		t.Fatal("expected error")
	}
	if len(s.ops) != 0 {
		t.Fatalf("drew %v", s.ops)
	}
}

func TestGreet(t *testing.T) {
	s := &surface{}
	if err := New(s, nil, nil, nil).Greet(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"clear false",
		"rect 3,3 122x58 true",
		`text "Use" 35,10`,
		`text "your" 50,30`,
		`text "keyboard" 35,50`,
		"send",
	}
	if diff := cmp.Diff(want, s.ops); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEcho(t *testing.T) {
	s := &surface{}
	p := New(s, nil, nil, nil)
	if err := p.Echo('7', false); err != nil {
		t.Fatal(err)
	}
	if err := p.Echo('x', true); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"clear false",
		"rect 3,3 122x58 true",
		`text "7" 60,30`,
		"send",
		"clear true",
		"rect 3,3 122x58 false",
		`text "x" 60,30`,
		"send",
	}
	if diff := cmp.Diff(want, s.ops); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBlank(t *testing.T) {
	s := &surface{}
	r, g, b := &output{}, &output{}, &output{}
	p := New(s, r, g, b)
	if err := p.Show(debounce.Button{Name: "A", Channel: debounce.Blue}, true); err != nil {
		t.Fatal(err)
	}
	s.ops = nil
	if err := p.Blank(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"clear false", "send"}, s.ops); diff != "" {
		t.Errorf("surface mismatch (-want +got):\n%s", diff)
	}
	for i, o := range []*output{r, g, b} {
		if n := len(o.levels); n == 0 || o.levels[n-1] != gpio.Low {
			t.Errorf("channel %d not turned off: %v", i, o.levels)
		}
	}
}

func TestConcurrentDrawing(t *testing.T) {
	p := New(&lockedSurface{}, nil, nil, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			_ = p.Show(debounce.Button{Name: "A", Channel: debounce.Blue}, true)
		}
	}()
	for range 100 {
		_ = p.Echo('1', false)
	}
	<-done
	if err := p.Blank(); err != nil {
		t.Fatal(err)
	}
}

// lockedSurface fails if two screens are drawn at once.
type lockedSurface struct {
	drawing atomic.Bool
}

func (s *lockedSurface) Clear(on bool) {
	if !s.drawing.CompareAndSwap(false, true) {
		panic("overlapping screens")
	}
}
func (s *lockedSurface) DrawRect(x, y, w, h int, on bool) {}
func (s *lockedSurface) DrawString(str string, x, y int) {}
func (s *lockedSurface) Send() error {
	s.drawing.Store(false)
	return nil
}
