// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package debounce turns the noisy falling edges of the front panel push
// buttons into clean on/off toggles.
//
// Every button keeps the time of its last accepted edge. An edge is accepted
// only when strictly more than the debounce window elapsed since then; an
// accepted edge inverts the button's logical LED state and reports it to a
// Sink before HandleEdge returns.
package debounce

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Channel is an output channel of the RGB status LED.
type Channel int

// Channels of the RGB status LED.
const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Button binds a push button input to the status channel it toggles.
type Button struct {
	// Name identifies the button in logs.
	Name string
	// Pin is the input number edges are reported with.
	Pin int
	// Channel is the status LED channel mirroring the button state.
	Channel Channel
}

// Sink receives the new state of a button after each accepted edge.
type Sink interface {
	Show(b Button, lit bool) error
}

// DefaultWindow is the debounce window of the panel buttons.
const DefaultWindow = 300 * time.Millisecond

// Opts defines the options of a Controller.
type Opts struct {
	// Window is the minimum time between two accepted edges of one button.
	// Defaults to DefaultWindow.
	Window time.Duration
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Logger receives one event per accepted edge. Defaults to no logging.
	Logger *zerolog.Logger
}

type state struct {
	Button
	last time.Time
	lit  atomic.Bool
}

// Controller debounces the edges of a fixed set of buttons.
//
// HandleEdge must be called from a single edge context. Lit may be called
// from anywhere.
type Controller struct {
	sink    Sink
	window  time.Duration
	now     func() time.Time
	log     zerolog.Logger
	buttons map[int]*state
}

// New returns a Controller for buttons.
//
// The last accepted edge of every button is set to the creation time, so an
// edge arriving within the window of start-up is discarded.
func New(sink Sink, buttons []Button, opts *Opts) (*Controller, error) {
	if sink == nil {
		return nil, errors.New("debounce: nil sink")
	}
	if len(buttons) == 0 {
		return nil, errors.New("debounce: no button")
	}
	if opts == nil {
		opts = &Opts{}
	}
	c := &Controller{
		sink:    sink,
		window:  opts.Window,
		now:     opts.Now,
		buttons: make(map[int]*state, len(buttons)),
	}
	if c.window == 0 {
		c.window = DefaultWindow
	} else if c.window < 0 {
		return nil, fmt.Errorf("debounce: invalid window %s", c.window)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("module", "debounce").Logger()
	} else {
		c.log = zerolog.Nop()
	}
	start := c.now()
	for _, b := range buttons {
		if _, ok := c.buttons[b.Pin]; ok {
			return nil, fmt.Errorf("debounce: pin %d bound twice", b.Pin)
		}
		c.buttons[b.Pin] = &state{Button: b, last: start}
	}
	return c, nil
}

// HandleEdge processes one falling edge reported by pin.
//
// It returns true when the edge was accepted. Edges of unknown pins and
// edges within the window of the previous accepted one are dropped without
// side effect.
func (c *Controller) HandleEdge(pin int) bool {
	s, ok := c.buttons[pin]
	if !ok {
		return false
	}
	now := c.now()
	if now.Sub(s.last) <= c.window {
		return false
	}
	s.last = now
	lit := !s.lit.Load()
	s.lit.Store(lit)
	if err := c.sink.Show(s.Button, lit); err != nil {
		c.log.Error().Err(err).Str("button", s.Name).Msg("status update failed")
	}
	c.log.Info().Str("button", s.Name).Stringer("channel", s.Channel).Bool("lit", lit).Msg("toggled")
	return true
}

// Lit returns the logical LED state of the button on pin.
func (c *Controller) Lit(pin int) bool {
	s, ok := c.buttons[pin]
	return ok && s.lit.Load()
}
