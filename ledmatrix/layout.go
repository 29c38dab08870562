// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledmatrix paints digits on the 5x5 addressable LED matrix of the
// front panel.
//
// The matrix is a single chain wired in serpentine order. The first LED of
// the chain is the bottom right corner; the last one, index 24, is the top
// left corner, visual position (0, 0). Walking the chain backward from 24,
// even rows run left to right and odd rows run right to left.
package ledmatrix

import (
	"errors"
	"fmt"
)

const (
	// Rows and Cols are the matrix dimensions.
	Rows = 5
	Cols = 5
	// NumLEDs is the chain length.
	NumLEDs = Rows * Cols
)

// ErrOutOfRange is returned for a coordinate or index outside the matrix.
var ErrOutOfRange = errors.New("ledmatrix: out of range")

// PhysicalIndex returns the chain index of the LED at the visual position
// (row, col).
func PhysicalIndex(row, col int) (int, error) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, row, col)
	}
	if row%2 == 1 {
		col = Cols - 1 - col
	}
	return NumLEDs - 1 - (row*Cols + col), nil
}

// Position is the inverse of PhysicalIndex.
func Position(index int) (row, col int, err error) {
	if index < 0 || index >= NumLEDs {
		return 0, 0, fmt.Errorf("%w: index %d", ErrOutOfRange, index)
	}
	n := NumLEDs - 1 - index
	row, col = n/Cols, n%Cols
	if row%2 == 1 {
		col = Cols - 1 - col
	}
	return row, col, nil
}
