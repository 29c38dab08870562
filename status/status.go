// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package status reflects the front panel state on the RGB status LED and the
// text display.
package status

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/frontpanel/debounce"
)

// Surface is a monochrome text display.
//
// Drawing happens in a back buffer that is only shown by Send.
type Surface interface {
	// Clear fills the whole buffer, lit when on is true.
	Clear(on bool)
	// DrawRect draws the outline of a w×h rectangle at (x, y).
	DrawRect(x, y, w, h int, on bool)
	// DrawString writes s with its top left corner at (x, y), in the color
	// contrasting with the last Clear.
	DrawString(s string, x, y int)
	// Send shows the buffer.
	Send() error
}

// Output is one channel of the RGB status LED. gpio.PinOut implements it.
type Output interface {
	Out(l gpio.Level) error
}

// Panel is the status output of the front panel.
//
// It is safe for concurrent use; the button edge context and the console
// loop both draw on the same surface.
type Panel struct {
	mu  sync.Mutex
	s   Surface
	rgb [3]Output
}

// New returns a Panel drawing on s. Any of the channels may be nil, in which
// case it is not driven.
func New(s Surface, red, green, blue Output) *Panel {
	return &Panel{s: s, rgb: [3]Output{red, green, blue}}
}

// Show draws the new state of b and drives its RGB channel. The channel is
// driven even if the display fails.
//
// It implements debounce.Sink.
func (p *Panel) Show(b debounce.Button, lit bool) error {
	if int(b.Channel) < 0 || int(b.Channel) >= len(p.rgb) {
		return fmt.Errorf("status: invalid channel %s", b.Channel)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame(false)
	p.s.DrawString(b.Channel.String()+" LED", 30, 10)
	p.s.DrawString("toggled", 30, 30)
	p.s.DrawString(onOff(lit), 20, 50)
	sendErr := p.s.Send()
	if o := p.rgb[b.Channel]; o != nil {
		if err := o.Out(gpio.Level(lit)); err != nil {
			return fmt.Errorf("status: %s channel: %w", b.Channel, err)
		}
	}
	if sendErr != nil {
		return fmt.Errorf("status: %w", sendErr)
	}
	return nil
}

// Greet draws the start-up screen.
func (p *Panel) Greet() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame(false)
	p.s.DrawString("Use", 35, 10)
	p.s.DrawString("your", 50, 30)
	p.s.DrawString("keyboard", 35, 50)
	if err := p.s.Send(); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return nil
}

// Echo draws the character typed on the console. The console loop flips
// inverted on each iteration.
func (p *Panel) Echo(ch byte, inverted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame(inverted)
	p.s.DrawString(string(rune(ch)), 60, 30)
	if err := p.s.Send(); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return nil
}

// Refresh sends the current buffer again.
func (p *Panel) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.s.Send(); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return nil
}

// Blank clears the display and turns every RGB channel off.
func (p *Panel) Blank() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Clear(false)
	err := p.s.Send()
	for _, o := range p.rgb {
		if o != nil {
			if oerr := o.Out(gpio.Low); oerr != nil && err == nil {
				err = oerr
			}
		}
	}
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return nil
}

// frame clears the buffer and draws the border. When inverted the
// background is lit and the border is dark.
func (p *Panel) frame(inverted bool) {
	p.s.Clear(inverted)
	p.s.DrawRect(3, 3, 122, 58, !inverted)
}

func onOff(lit bool) string {
	if lit {
		return "On"
	}
	return "Off"
}

var _ debounce.Sink = &Panel{}
