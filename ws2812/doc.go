// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ws2812 drives a chain of WS2812 addressable LEDs through an SPI
// port.
//
// The one-wire protocol runs at 800 kHz. Each protocol symbol is rendered as
// three SPI bits at 2.4 MHz: 110 for a one, 100 for a zero. A frame is every
// LED of the chain back to back, three bytes per LED in red, green, blue
// order, most significant bit first, followed by an idle low period that
// latches the colors.
//
// Only the MOSI line is used; connect it to DIN of the first LED, through a
// level shifter if the chain runs at 5V.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/WS2812.pdf
package ws2812
