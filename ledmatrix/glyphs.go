// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmatrix

// RGB is the color of one LED.
type RGB struct {
	R, G, B uint8
}

// Glyph is a 5x5 picture in visual order, indexed [row][col].
type Glyph [Rows][Cols]RGB

var (
	o = RGB{}
	x = RGB{R: 255}
)

// Digits holds the glyph of each decimal digit.
var Digits = [10]Glyph{
	{
		{o, x, x, x, o},
		{o, x, o, x, o},
		{o, x, o, x, o},
		{o, x, o, x, o},
		{o, x, x, x, o},
	},
	{
		{o, o, x, o, o},
		{o, x, x, o, o},
		{o, o, x, o, o},
		{o, o, x, o, o},
		{o, x, x, x, o},
	},
	{
		{o, x, x, x, o},
		{o, o, o, x, o},
		{o, x, x, x, o},
		{o, x, o, o, o},
		{o, x, x, x, o},
	},
	{
		{o, x, x, x, o},
		{o, o, o, x, o},
		{o, x, x, x, o},
		{o, o, o, x, o},
		{o, x, x, x, o},
	},
	{
		{o, x, o, x, o},
		{o, x, o, x, o},
		{o, x, x, x, o},
		{o, o, o, x, o},
		{o, o, o, x, o},
	},
	{
		{o, x, x, x, o},
		{o, x, o, o, o},
		{o, x, x, x, o},
		{o, o, o, x, o},
		{o, x, x, x, o},
	},
	{
		{o, x, x, x, o},
		{o, x, o, o, o},
		{o, x, x, x, o},
		{o, x, o, x, o},
		{o, x, x, x, o},
	},
	{
		{o, x, x, x, o},
		{o, o, o, x, o},
		{o, o, o, x, o},
		{o, o, o, x, o},
		{o, o, o, x, o},
	},
	{
		{o, x, x, x, o},
		{o, x, o, x, o},
		{o, x, x, x, o},
		{o, x, o, x, o},
		{o, x, x, x, o},
	},
	{
		{o, x, x, x, o},
		{o, x, o, x, o},
		{o, x, x, x, o},
		{o, o, o, x, o},
		{o, o, o, x, o},
	},
}
