// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package debounce

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio"
)

// pollTimeout bounds each WaitForEdge call so cancellation is noticed.
const pollTimeout = 100 * time.Millisecond

// Watch configures pins as pulled-up inputs with falling edge detection and
// feeds their edges to c until ctx is done.
//
// Each pin is waited on by its own goroutine but every edge is handled by a
// single dispatcher goroutine, so c sees one edge context. Pins are
// identified by gpio.PinIn.Number.
func Watch(ctx context.Context, c *Controller, pins ...gpio.PinIn) error {
	for _, p := range pins {
		if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return fmt.Errorf("debounce: %s: %w", p, err)
		}
	}
	edges := make(chan int)
	eg, ctx := errgroup.WithContext(ctx)
	for _, p := range pins {
		eg.Go(func() error {
			for ctx.Err() == nil {
				if !p.WaitForEdge(pollTimeout) {
					continue
				}
				select {
				case edges <- p.Number():
				case <-ctx.Done():
				}
			}
			return nil
		})
	}
	eg.Go(func() error {
		for {
			select {
			case n := <-edges:
				c.HandleEdge(n)
			case <-ctx.Done():
				return nil
			}
		}
	})
	return eg.Wait()
}
