// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console reads operator input one character at a time and shows
// digits on the LED matrix.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Renderer shows a digit. ledmatrix.Renderer implements it.
type Renderer interface {
	Render(digit int) error
}

// Dispatcher routes input characters to a Renderer.
type Dispatcher struct {
	r Renderer
}

// NewDispatcher returns a Dispatcher rendering on r.
func NewDispatcher(r Renderer) *Dispatcher {
	return &Dispatcher{r: r}
}

// Dispatch renders ch if it is an ASCII digit. Any other character is
// ignored.
func (d *Dispatcher) Dispatch(ch byte) error {
	if ch < '0' || ch > '9' {
		return nil
	}
	return d.r.Render(int(ch - '0'))
}

// Display echoes the typed characters. status.Panel implements it.
type Display interface {
	// Refresh shows the current screen again.
	Refresh() error
	// Echo shows ch with the given polarity.
	Echo(ch byte, inverted bool) error
}

// DefaultPace is the pause before each prompt.
const DefaultPace = 500 * time.Millisecond

// Prompt is written before each read.
const Prompt = "Type a character: "

// Loop is the foreground loop of the front panel.
type Loop struct {
	// In is the operator input.
	In io.ByteReader
	// Out receives the prompts and echoes. Defaults to io.Discard.
	Out io.Writer
	// Dispatcher handles each accepted character.
	Dispatcher *Dispatcher
	// Display is optional.
	Display Display
	// Pace defaults to DefaultPace.
	Pace time.Duration
	// Logger defaults to no logging.
	Logger *zerolog.Logger
}

// Run processes input until it is exhausted or ctx is done.
//
// Each iteration flips the display polarity, waits Pace, prompts, reads the
// next non-whitespace character, dispatches it and echoes it. Render and
// display errors are logged and do not stop the loop. Exhausted input ends
// the loop without error.
//
// Run returns as soon as ctx is done, even while waiting for input. The
// Dispatcher and Display are no longer used once it returned; a pending read
// of In may still complete in the background.
func (l *Loop) Run(ctx context.Context) error {
	if l.In == nil || l.Dispatcher == nil {
		return errors.New("console: loop needs an input and a dispatcher")
	}
	out := l.Out
	if out == nil {
		out = io.Discard
	}
	pace := l.Pace
	if pace <= 0 {
		pace = DefaultPace
	}
	log := zerolog.Nop()
	if l.Logger != nil {
		log = l.Logger.With().Str("module", "console").Logger()
	}
	done := make(chan struct{})
	defer close(done)
	input := readBytes(l.In, done)
	inverted := false
	for {
		inverted = !inverted
		if l.Display != nil {
			if err := l.Display.Refresh(); err != nil {
				log.Warn().Err(err).Msg("display refresh failed")
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(pace):
		}
		if _, err := io.WriteString(out, Prompt); err != nil {
			return fmt.Errorf("console: %w", err)
		}
		ch, err := nextNonSpace(ctx, input)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("console: %w", err)
		}
		if err := l.Dispatcher.Dispatch(ch); err != nil {
			log.Error().Err(err).Str("input", string(rune(ch))).Msg("render failed")
		}
		log.Debug().Str("input", string(rune(ch))).Msg("read")
		if _, err := fmt.Fprintf(out, "%c\n", ch); err != nil {
			return fmt.Errorf("console: %w", err)
		}
		if l.Display != nil {
			if err := l.Display.Echo(ch, inverted); err != nil {
				log.Warn().Err(err).Msg("display echo failed")
			}
		}
	}
}

type readResult struct {
	b   byte
	err error
}

// readBytes reads r from its own goroutine, since a blocking read cannot be
// interrupted. The goroutine stops after the first error or once done is
// closed.
func readBytes(r io.ByteReader, done <-chan struct{}) <-chan readResult {
	c := make(chan readResult)
	go func() {
		for {
			b, err := r.ReadByte()
			select {
			case c <- readResult{b, err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return c
}

func nextNonSpace(ctx context.Context, input <-chan readResult) (byte, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case res := <-input:
			if res.err != nil {
				return 0, res.err
			}
			switch res.b {
			case ' ', '\t', '\n', '\v', '\f', '\r':
			default:
				return res.b, nil
			}
		}
	}
}
