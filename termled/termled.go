// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termled implements a fake SPI port that shows a WS2812 LED chain
// on the terminal using ANSI color codes.
//
// Every frame sent on the port is decoded back to colors and the chain is
// repainted in place as a grid of colored blocks. Useful to run the front
// panel on a machine without the LED matrix attached.
package termled

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/frontpanel/ws2812"
)

// Opts represents the options of the emulated chain.
type Opts struct {
	// Rows and Cols define the grid. The chain holds Rows*Cols LEDs.
	Rows, Cols int
	// Position places a chain index on the grid. Defaults to row-major order.
	Position func(index int) (row, col int, err error)
	// W defaults to a colorable stdout.
	W io.Writer
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
}

// Port is an spi.PortCloser drawing what it receives on a terminal.
//
// It is also the spi.Conn returned by Connect.
type Port struct {
	mu        sync.Mutex
	w         io.Writer
	rows      int
	cols      int
	pos       func(int) (int, int, error)
	palette   ansi256.Palette
	grid      []color.NRGBA
	buf       bytes.Buffer
	frames    int
	connected bool
}

// New returns a Port showing a opts.Rows×opts.Cols grid.
func New(opts *Opts) (*Port, error) {
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil, fmt.Errorf("termled: invalid grid %dx%d", opts.Rows, opts.Cols)
	}
	p := &Port{
		w:       opts.W,
		rows:    opts.Rows,
		cols:    opts.Cols,
		pos:     opts.Position,
		palette: *ansi256.Default,
		grid:    make([]color.NRGBA, opts.Rows*opts.Cols),
	}
	if opts.Palette != nil {
		p.palette = *opts.Palette
	}
	if p.w == nil {
		p.w = colorable.NewColorableStdout()
	}
	if p.pos == nil {
		cols := opts.Cols
		p.pos = func(i int) (int, int, error) {
			return i / cols, i % cols, nil
		}
	}
	return p, nil
}

func (p *Port) String() string {
	return "termled"
}

// Connect implements spi.Port.
//
// The port is single user; only 8 bits words are supported.
func (p *Port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, fmt.Errorf("termled: unsupported word size %d", bits)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected {
		return nil, errors.New("termled: already connected")
	}
	p.connected = true
	return p, nil
}

// LimitSpeed implements spi.Port.
func (p *Port) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Close implements spi.PortCloser.
func (p *Port) Close() error {
	return p.Halt()
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the shell is not corrupted.
func (p *Port) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, "\033[0m")
	return err
}

// Duplex implements conn.Conn.
func (p *Port) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn. w must be a WS2812 frame; r must be empty.
func (p *Port) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("termled: read is not supported")
	}
	raw, err := ws2812.Decode(w)
	if err != nil {
		return fmt.Errorf("termled: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < len(raw)/3 && i < len(p.grid); i++ {
		row, col, err := p.pos(i)
		if err != nil {
			return fmt.Errorf("termled: %w", err)
		}
		if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
			return fmt.Errorf("termled: LED %d placed outside the grid at (%d, %d)", i, row, col)
		}
		p.grid[row*p.cols+col] = color.NRGBA{raw[3*i], raw[3*i+1], raw[3*i+2], 255}
	}
	return p.refresh()
}

// TxPackets implements spi.Conn.
func (p *Port) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if err := p.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// Frames returns the number of frames drawn.
func (p *Port) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// At returns the color shown at (row, col).
func (p *Port) At(row, col int) color.NRGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid[row*p.cols+col]
}

func (p *Port) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	p.buf.Reset()
	if p.frames != 0 {
		// Move back to the top of the previous frame.
		fmt.Fprintf(&p.buf, "\033[%dA", p.rows)
	}
	for row := range p.rows {
		_, _ = p.buf.WriteString("\r\033[0m")
		for col := range p.cols {
			_, _ = io.WriteString(&p.buf, p.palette.Block(p.grid[row*p.cols+col]))
		}
		_, _ = p.buf.WriteString("\033[0m\n")
	}
	p.frames++
	_, err := p.buf.WriteTo(p.w)
	return err
}

var _ spi.PortCloser = &Port{}
var _ spi.Conn = &Port{}
var _ conn.Resource = &Port{}
