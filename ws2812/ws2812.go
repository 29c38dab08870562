// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws2812

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	// SymbolRate is the WS2812 bit rate.
	SymbolRate = 800 * physic.KiloHertz
	// Freq is the SPI clock needed to render SymbolRate with 3 bits per
	// symbol.
	Freq = 3 * SymbolRate
)

// ErrIndexRange is returned by Set and At for an index outside the chain.
var ErrIndexRange = errors.New("ws2812: LED index out of range")

// MaxLatch is the longest latch period NewSPI accepts.
const MaxLatch = 10 * time.Millisecond

// DefaultOpts is the 5x5 matrix of the front panel.
var DefaultOpts = Opts{
	NumPixels: 25,
	Latch:     100 * time.Microsecond,
}

// Opts defines the options for the device.
type Opts struct {
	// NumPixels is the number of LEDs in the chain.
	NumPixels int
	// Latch is the idle low period sent after each frame. The WS2812 needs at
	// least 50µs; newer parts need more.
	Latch time.Duration
}

// Dev is a handle to a WS2812 chain.
//
// Dev is not safe for concurrent use. The buffer belongs to the goroutine
// that renders on it.
type Dev struct {
	c conn.Conn
	// rgb holds 3 bytes per LED in physical chain order.
	rgb []byte
	// pad is the number of zero bytes rendering the latch period.
	pad int
}

// NewSPI returns a Dev that drives a WS2812 chain on the MOSI line of p.
//
// The chain is cleared before returning. An error is returned if the port
// cannot be connected at Freq, which happens when another user claimed it.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts.NumPixels <= 0 {
		return nil, fmt.Errorf("ws2812: invalid number of pixels %d", opts.NumPixels)
	}
	if opts.Latch < 0 || opts.Latch > MaxLatch {
		return nil, fmt.Errorf("ws2812: invalid latch %s", opts.Latch)
	}
	c, err := p.Connect(Freq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ws2812: %w", err)
	}
	d := &Dev{
		c:   c,
		rgb: make([]byte, 3*opts.NumPixels),
		pad: latchBytes(opts.Latch),
	}
	if err := d.Flush(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ws2812{%s}", d.c)
}

// NumPixels returns the chain length.
func (d *Dev) NumPixels() int {
	return len(d.rgb) / 3
}

// Set changes the color of the LED at the physical index. It is not sent
// until Flush is called.
func (d *Dev) Set(index int, r, g, b byte) error {
	if index < 0 || index >= d.NumPixels() {
		return fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	d.rgb[3*index] = r
	d.rgb[3*index+1] = g
	d.rgb[3*index+2] = b
	return nil
}

// At returns the buffered color of the LED at the physical index.
func (d *Dev) At(index int) (r, g, b byte, err error) {
	if index < 0 || index >= d.NumPixels() {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	return d.rgb[3*index], d.rgb[3*index+1], d.rgb[3*index+2], nil
}

// ClearAll turns every LED of the buffer off.
func (d *Dev) ClearAll() {
	clear(d.rgb)
}

// Flush sends the whole buffer to the chain, then the latch period.
//
// It blocks until the SPI driver accepted the frame.
func (d *Dev) Flush() error {
	w := make([]byte, 0, EncodedBytes*len(d.rgb)+d.pad)
	w = Encode(w, d.rgb)
	w = append(w, make([]byte, d.pad)...)
	if err := d.c.Tx(w, nil); err != nil {
		return fmt.Errorf("ws2812: %w", err)
	}
	return nil
}

// Halt turns the chain off.
//
// It implements conn.Resource.
func (d *Dev) Halt() error {
	d.ClearAll()
	return d.Flush()
}

// latchBytes returns the number of bytes needed to hold the line low for at
// least t at Freq. t must not exceed MaxLatch.
func latchBytes(t time.Duration) int {
	bits := (int64(t)*int64(Freq/physic.Hertz) + int64(time.Second) - 1) / int64(time.Second)
	return int((bits + 7) / 8)
}

var _ conn.Resource = &Dev{}
