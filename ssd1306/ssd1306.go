// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls the 128x64 monochrome OLED of the front panel over
// I²C.
//
// The controller memory is organized in pages, horizontal bands 8 pixels
// high with one byte per column. Draw only transfers the pages that changed
// since the previous frame.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	cmdChargePump      = 0x8D
	cmdComPins         = 0xDA
	cmdComScanDec      = 0xC8
	cmdComScanInc      = 0xC0
	cmdContrast        = 0x81
	cmdDisplayAllOnRes = 0xA4
	cmdDisplayOff      = 0xAE
	cmdDisplayOn       = 0xAF
	cmdDisplayOffset   = 0xD3
	cmdClockDiv        = 0xD5
	cmdInvert          = 0xA7
	cmdMemoryMode      = 0x20
	cmdMultiplex       = 0xA8
	cmdNormal          = 0xA6
	cmdPageStart       = 0xB0
	cmdPrecharge       = 0xD9
	cmdSegRemap        = 0xA0
	cmdSegRemapFlip    = 0xA1
	cmdColLow          = 0x00
	cmdColHigh         = 0x10
	cmdStartLine       = 0x40
	cmdStopScroll      = 0x2E
	cmdVcomDetect      = 0xDB

	// Control bytes prefixing every I²C write.
	i2cCmd  = 0x00
	i2cData = 0x40
)

// DefaultOpts is the display of the front panel.
var DefaultOpts = Opts{
	W:    128,
	H:    64,
	Addr: 0x3C,
}

// Opts defines the options for the device.
type Opts struct {
	W int
	H int
	// Addr is the I²C address, 0x3C or 0x3D depending on the D/C# strap.
	// Zero means DefaultOpts.Addr.
	Addr uint16
	// Sequential selects the sequential COM pin configuration. Try it if every
	// other row is missing, typically on 32 pixel high panels.
	Sequential bool
	// MirrorVertical and MirrorHorizontal flip the scan directions.
	MirrorVertical   bool
	MirrorHorizontal bool
}

// Dev is an open handle to the display controller.
//
// Dev is not safe for concurrent use.
type Dev struct {
	c    conn.Conn
	rect image.Rectangle
	// shown is the content of the controller memory, one byte per column per
	// page.
	shown []byte
	// next is lazy initialized on the first Draw of a foreign image.
	next *image1bit.VerticalLSB
	// stale forces the next frame to be sent in full.
	stale  bool
	halted bool
}

// NewI2C returns a Dev driving the display at opts.Addr on b.
//
// The display is initialized and turned on; its content is undefined until
// the first Draw.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts.W < 8 || opts.W > 128 || opts.W&7 != 0 {
		return nil, fmt.Errorf("ssd1306: invalid width %d", opts.W)
	}
	if opts.H < 8 || opts.H > 64 || opts.H&7 != 0 {
		return nil, fmt.Errorf("ssd1306: invalid height %d", opts.H)
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultOpts.Addr
	}
	d := &Dev{
		c:     &i2c.Dev{Bus: b, Addr: addr},
		rect:  image.Rect(0, 0, opts.W, opts.H),
		shown: make([]byte, opts.W*opts.H/8),
		stale: true,
	}
	if err := d.command(initSequence(opts)...); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%s, %s}", d.c, d.rect.Max)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is always {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// It returns once the changed pages were sent on the bus.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if img, ok := src.(*image1bit.VerticalLSB); ok && r == d.rect && img.Rect == d.rect && sp == (image.Point{}) {
		return d.send(img.Pix)
	}
	if d.next == nil {
		d.next = image1bit.NewVerticalLSB(d.rect)
		copy(d.next.Pix, d.shown)
	}
	draw.Src.Draw(d.next, r, src, sp)
	return d.send(d.next.Pix)
}

// Invert swaps lit and dark pixels in hardware.
func (d *Dev) Invert(on bool) error {
	if on {
		return d.command(cmdInvert)
	}
	return d.command(cmdNormal)
}

// SetContrast changes the panel brightness.
func (d *Dev) SetContrast(level byte) error {
	return d.command(cmdContrast, level)
}

// Halt turns the display off. The next Draw turns it back on.
func (d *Dev) Halt() error {
	if err := d.command(cmdDisplayOff); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// send writes the pages of pix that differ from what is shown.
func (d *Dev) send(pix []byte) error {
	if d.halted {
		if err := d.command(cmdDisplayOn); err != nil {
			return err
		}
		d.halted = false
	}
	w := d.rect.Dx()
	for page := 0; page < len(d.shown)/w; page++ {
		lo, hi := page*w, (page+1)*w
		if !d.stale && bytes.Equal(d.shown[lo:hi], pix[lo:hi]) {
			continue
		}
		if err := d.command(cmdPageStart|byte(page), cmdColLow, cmdColHigh); err != nil {
			return err
		}
		if err := d.c.Tx(append([]byte{i2cData}, pix[lo:hi]...), nil); err != nil {
			return fmt.Errorf("ssd1306: %w", err)
		}
		copy(d.shown[lo:hi], pix[lo:hi])
	}
	d.stale = false
	return nil
}

func (d *Dev) command(c ...byte) error {
	if err := d.c.Tx(append([]byte{i2cCmd}, c...), nil); err != nil {
		return fmt.Errorf("ssd1306: %w", err)
	}
	return nil
}

// initSequence follows the recommended power up flow, page 64 of the
// datasheet, with page addressing so Draw can update single pages.
func initSequence(opts *Opts) []byte {
	comScan := byte(cmdComScanDec)
	if opts.MirrorVertical {
		comScan = cmdComScanInc
	}
	segRemap := byte(cmdSegRemapFlip)
	if opts.MirrorHorizontal {
		segRemap = cmdSegRemap
	}
	comPins := byte(0x02)
	if !opts.Sequential {
		comPins |= 0x10
	}
	return []byte{
		cmdDisplayOff,
		cmdDisplayOffset, 0x00,
		cmdStartLine,
		segRemap,
		comScan,
		cmdComPins, comPins,
		cmdContrast, 0xFF,
		cmdDisplayAllOnRes,
		cmdNormal,
		cmdClockDiv, 0xF0,
		cmdChargePump, 0x14,
		cmdPrecharge, 0xF1,
		cmdVcomDetect, 0x40,
		cmdStopScroll,
		cmdMultiplex, byte(opts.H - 1),
		cmdMemoryMode, 0x02,
		cmdDisplayOn,
	}
}

var _ display.Drawer = &Dev{}
