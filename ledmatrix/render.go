// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

import (
	"errors"
	"fmt"
)

// ErrDigit is returned by Render for a value outside 0-9.
var ErrDigit = errors.New("ledmatrix: not a digit")

// Matrix is the LED chain the glyphs are painted on. ws2812.Dev implements
// it.
type Matrix interface {
	// Set changes the buffered color of the LED at the chain index.
	Set(index int, r, g, b uint8) error
	// Flush sends the buffer to the LEDs.
	Flush() error
}

// Renderer paints glyphs on a Matrix.
//
// It is not safe for concurrent use; a glyph is always completely buffered
// before the single Flush that shows it.
type Renderer struct {
	m Matrix
}

// NewRenderer returns a Renderer drawing on m.
func NewRenderer(m Matrix) *Renderer {
	return &Renderer{m: m}
}

// Render shows the glyph of digit.
func (r *Renderer) Render(digit int) error {
	if digit < 0 || digit >= len(Digits) {
		return fmt.Errorf("%w: %d", ErrDigit, digit)
	}
	return r.Draw(&Digits[digit])
}

// Draw shows g. If any LED cannot be set, nothing is flushed.
func (r *Renderer) Draw(g *Glyph) error {
	for row := range Rows {
		for col := range Cols {
			i, err := PhysicalIndex(row, col)
			if err != nil {
				return err
			}
			c := g[row][col]
			if err := r.m.Set(i, c.R, c.G, c.B); err != nil {
				return fmt.Errorf("ledmatrix: %w", err)
			}
		}
	}
	return r.m.Flush()
}
