// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws2812

import (
	"errors"
	"fmt"
)

const (
	// symbolOne and symbolZero are the 3-bit SPI patterns of a protocol bit.
	symbolOne  = 0x6 // 110
	symbolZero = 0x4 // 100

	// EncodedBytes is the number of SPI bytes used for one data byte.
	EncodedBytes = 3
)

// ErrSymbol is returned by Decode when the stream holds a pattern that is
// neither a one nor a zero symbol.
var ErrSymbol = errors.New("ws2812: invalid symbol")

// lut maps a data byte to its 24 bit SPI expansion.
var lut [256][EncodedBytes]byte

func init() {
	for v := range 256 {
		out := uint32(0)
		for i := 7; i >= 0; i-- {
			sym := uint32(symbolZero)
			if (v>>i)&1 == 1 {
				sym = symbolOne
			}
			out = out<<3 | sym
		}
		lut[v] = [EncodedBytes]byte{byte(out >> 16), byte(out >> 8), byte(out)}
	}
}

// Encode appends the SPI expansion of raw to dst and returns it.
//
// The output is three times the length of raw.
func Encode(dst, raw []byte) []byte {
	for _, b := range raw {
		e := lut[b]
		dst = append(dst, e[0], e[1], e[2])
	}
	return dst
}

// Decode converts an SPI stream produced by Encode back to raw bytes.
//
// Trailing zero bytes, the latch period, are ignored. An encoded byte never
// contains 0x00 so this is unambiguous.
func Decode(stream []byte) ([]byte, error) {
	end := len(stream)
	for end > 0 && stream[end-1] == 0 {
		end--
	}
	if end%EncodedBytes != 0 {
		return nil, fmt.Errorf("ws2812: stream length %d is not a multiple of %d", end, EncodedBytes)
	}
	out := make([]byte, 0, end/EncodedBytes)
	for i := 0; i < end; i += EncodedBytes {
		v := uint32(stream[i])<<16 | uint32(stream[i+1])<<8 | uint32(stream[i+2])
		var b byte
		for bit := 7; bit >= 0; bit-- {
			switch (v >> (3 * bit)) & 7 {
			case symbolOne:
				b |= 1 << bit
			case symbolZero:
			default:
				return nil, fmt.Errorf("%w at byte %d", ErrSymbol, i/EncodedBytes)
			}
		}
		out = append(out, b)
	}
	return out, nil
}
