// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package debounce

import (
	"context"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// WatchChip requests offsets on the GPIO character device chip, for example
// "gpiochip0", as pulled-up inputs with falling edge detection and feeds their
// edges to c until ctx is done.
//
// The kernel delivers the events of all lines through one handler goroutine,
// so c sees one edge context. Buttons are identified by line offset.
func WatchChip(ctx context.Context, c *Controller, chip string, offsets ...int) error {
	l, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithConsumer("frontpanel"),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			c.HandleEdge(evt.Offset)
		}))
	if err != nil {
		return fmt.Errorf("debounce: %s: %w", chip, err)
	}
	<-ctx.Done()
	if err := l.Close(); err != nil {
		return fmt.Errorf("debounce: %s: %w", chip, err)
	}
	return nil
}
