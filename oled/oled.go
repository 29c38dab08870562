// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled draws the front panel text screens on a monochrome display.
//
// Drawing happens on an in-memory canvas which is copied to the display by
// Send, so a screen is shown atomically.
package oled

import (
	"errors"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"periph.io/x/conn/v3/display"
)

// Surface is a text canvas bound to a display.
//
// It is not safe for concurrent use.
type Surface struct {
	d  display.Drawer
	dc *gg.Context
	// fg is the color contrasting with the last Clear.
	fg color.Color
}

// New returns a Surface as large as d.
func New(d display.Drawer) (*Surface, error) {
	if d == nil {
		return nil, errors.New("oled: nil display")
	}
	r := d.Bounds()
	if r.Empty() {
		return nil, errors.New("oled: empty display")
	}
	return newSurface(d, r.Dx(), r.Dy()), nil
}

// NewHeadless returns a w×h Surface without a display. Send is a no-op.
func NewHeadless(w, h int) *Surface {
	return newSurface(nil, w, h)
}

func newSurface(d display.Drawer, w, h int) *Surface {
	dc := gg.NewContext(w, h)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineWidth(1)
	s := &Surface{d: d, dc: dc}
	s.Clear(false)
	return s
}

func (s *Surface) String() string {
	if s.d == nil {
		return "oled{headless}"
	}
	return "oled{" + s.d.String() + "}"
}

// Clear fills the canvas, lit when on is true.
func (s *Surface) Clear(on bool) {
	s.dc.SetColor(level(on))
	s.dc.Clear()
	s.fg = level(!on)
}

// DrawRect draws the one pixel outline of a w×h rectangle at (x, y).
func (s *Surface) DrawRect(x, y, w, h int, on bool) {
	if w <= 0 || h <= 0 {
		return
	}
	// Pixel centers keep the line one pixel wide.
	s.dc.DrawRectangle(float64(x)+0.5, float64(y)+0.5, float64(w-1), float64(h-1))
	s.dc.SetColor(level(on))
	s.dc.Stroke()
}

// DrawString writes str with its top left corner at (x, y).
func (s *Surface) DrawString(str string, x, y int) {
	s.dc.SetColor(s.fg)
	s.dc.DrawStringAnchored(str, float64(x), float64(y), 0, 1)
}

// Send copies the canvas to the display.
func (s *Surface) Send() error {
	if s.d == nil {
		return nil
	}
	return s.d.Draw(s.d.Bounds(), s.dc.Image(), image.Point{})
}

// Image returns the canvas.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// Halt blanks the display.
func (s *Surface) Halt() error {
	s.Clear(false)
	if err := s.Send(); err != nil {
		return err
	}
	if s.d == nil {
		return nil
	}
	return s.d.Halt()
}

func level(on bool) color.Color {
	if on {
		return color.White
	}
	return color.Black
}
