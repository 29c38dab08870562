// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the board wiring of the front panel.
//
// Default returns the stock board. A YAML file only needs to list the values
// that differ from it.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/frontpanel/ws2812"
)

// Edge sources of the push buttons.
const (
	BackendPeriph = "periph"
	BackendCdev   = "cdev"
)

// Buttons binds the two push buttons.
type Buttons struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
	// Backend is "periph" (GPIOn pins through periph) or "cdev" (line
	// offsets on the GPIO character device Chip).
	Backend  string        `yaml:"backend"`
	Chip     string        `yaml:"chip"`
	Debounce time.Duration `yaml:"debounce"`
}

// Matrix binds the WS2812 LED matrix.
type Matrix struct {
	// SPI is the periph SPI port name, "" for the first one.
	SPI   string        `yaml:"spi"`
	Pin   int           `yaml:"pin"` // MOSI of SPI
	Latch time.Duration `yaml:"latch"`
}

// RGB binds the channels of the RGB status LED.
type RGB struct {
	Red   int `yaml:"red"`
	Green int `yaml:"green"`
	Blue  int `yaml:"blue"`
}

// Display binds the SSD1306 OLED.
type Display struct {
	// Bus is the periph I²C bus name, "" for the first one.
	Bus    string `yaml:"bus"`
	SDA    int    `yaml:"sda"`
	SCL    int    `yaml:"scl"`
	Addr   uint16 `yaml:"addr"`
	FreqHz int64  `yaml:"freq_hz"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Console selects the operator input.
type Console struct {
	// Serial is the serial device to read from, "" for stdin.
	Serial string `yaml:"serial"`
	Baud   int    `yaml:"baud"`
}

// Config is the whole board wiring.
type Config struct {
	Buttons Buttons `yaml:"buttons"`
	Matrix  Matrix  `yaml:"matrix"`
	RGB     RGB     `yaml:"rgb"`
	Display Display `yaml:"display"`
	Console Console `yaml:"console"`
}

// Default returns the wiring of the stock board.
func Default() *Config {
	return &Config{
		Buttons: Buttons{
			A:        5,
			B:        6,
			Backend:  BackendPeriph,
			Chip:     "gpiochip0",
			Debounce: 300 * time.Millisecond,
		},
		Matrix: Matrix{
			Pin:   7,
			Latch: 100 * time.Microsecond,
		},
		RGB: RGB{
			Red:   13,
			Green: 11,
			Blue:  12,
		},
		Display: Display{
			SDA:    14,
			SCL:    15,
			Addr:   0x3C,
			FreqHz: 400000,
			Width:  128,
			Height: 64,
		},
		Console: Console{
			Baud: 115200,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}

// Save writes c to path.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "config: encode")
	}
	return errors.Wrap(os.WriteFile(path, b, 0o644), "config: write")
}

// Validate checks that every pin is bound once and the timings are usable.
func (c *Config) Validate() error {
	switch c.Buttons.Backend {
	case BackendPeriph, BackendCdev:
	default:
		return errors.Errorf("config: unknown button backend %q", c.Buttons.Backend)
	}
	if c.Buttons.Backend == BackendCdev && c.Buttons.Chip == "" {
		return errors.New("config: cdev backend needs a chip")
	}
	if c.Buttons.Debounce <= 0 {
		return errors.Errorf("config: invalid debounce window %s", c.Buttons.Debounce)
	}
	if c.Matrix.Latch < 0 || c.Matrix.Latch > ws2812.MaxLatch {
		return errors.Errorf("config: invalid latch %s", c.Matrix.Latch)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return errors.Errorf("config: invalid display size %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.FreqHz <= 0 {
		return errors.Errorf("config: invalid display bus speed %d", c.Display.FreqHz)
	}
	if c.Console.Baud <= 0 {
		return errors.Errorf("config: invalid baud rate %d", c.Console.Baud)
	}
	pins := []struct {
		name string
		n    int
	}{
		{"buttons.a", c.Buttons.A},
		{"buttons.b", c.Buttons.B},
		{"matrix.pin", c.Matrix.Pin},
		{"rgb.red", c.RGB.Red},
		{"rgb.green", c.RGB.Green},
		{"rgb.blue", c.RGB.Blue},
		{"display.sda", c.Display.SDA},
		{"display.scl", c.Display.SCL},
	}
	seen := map[int]string{}
	for _, p := range pins {
		if p.n < 0 {
			return errors.Errorf("config: %s: invalid pin %d", p.name, p.n)
		}
		if prev, ok := seen[p.n]; ok {
			return errors.Errorf("config: pin %d bound to both %s and %s", p.n, prev, p.name)
		}
		seen[p.n] = p.name
	}
	return nil
}
