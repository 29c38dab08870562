// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// frontpanel runs the front panel: two debounced push buttons toggling the
// RGB status LED and a 5x5 LED matrix showing the digits typed on the
// console.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/frontpanel/config"
	"github.com/GermanBionicSystems/frontpanel/console"
	"github.com/GermanBionicSystems/frontpanel/debounce"
	"github.com/GermanBionicSystems/frontpanel/ledmatrix"
	"github.com/GermanBionicSystems/frontpanel/oled"
	"github.com/GermanBionicSystems/frontpanel/ssd1306"
	"github.com/GermanBionicSystems/frontpanel/status"
	"github.com/GermanBionicSystems/frontpanel/termled"
	"github.com/GermanBionicSystems/frontpanel/ws2812"
)

var (
	configPath = ""
	verbose    = false
	preview    = false
	serialName = ""
	baud       = 0
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "board configuration file (YAML)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.BoolVarP(&preview, "preview", "p", preview, "draw the LED matrix on the terminal instead of the hardware")
	pflag.StringVar(&serialName, "serial", serialName, "read the console from this serial port instead of stdin")
	pflag.IntVar(&baud, "baud", baud, "serial port baud rate")
}

func main() {
	pflag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if err := run(&log); err != nil {
		log.Error().Err(err).Msg("frontpanel failed")
		os.Exit(1)
	}
}

func run(log *zerolog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !preview {
		if _, err := host.Init(); err != nil {
			return errors.Wrap(err, "host")
		}
	}

	port, err := openMatrixPort(cfg)
	if err != nil {
		return errors.Wrap(err, "matrix")
	}
	defer port.Close()
	leds, err := ws2812.NewSPI(port, &ws2812.Opts{NumPixels: ledmatrix.NumLEDs, Latch: cfg.Matrix.Latch})
	if err != nil {
		return errors.Wrap(err, "matrix")
	}
	log.Info().Stringer("matrix", leds).Msg("LED matrix ready")

	surface, closeDisplay, err := openDisplay(cfg)
	if err != nil {
		return errors.Wrap(err, "display")
	}
	defer closeDisplay()
	log.Info().Stringer("display", surface).Msg("display ready")

	red, green, blue, err := openRGB(cfg)
	if err != nil {
		return errors.Wrap(err, "rgb")
	}
	panel := status.New(surface, red, green, blue)
	if err := panel.Greet(); err != nil {
		log.Warn().Err(err).Msg("greeting not shown")
	}

	in, out, closeInput, err := openConsole(cfg)
	if err != nil {
		return errors.Wrap(err, "console")
	}
	defer closeInput()

	var watch func(context.Context) error
	if preview {
		log.Info().Msg("preview mode, buttons disabled")
	} else if watch, err = buttons(cfg, panel, log); err != nil {
		return errors.Wrap(err, "buttons")
	}

	loop := &console.Loop{
		In:         in,
		Out:        out,
		Dispatcher: console.NewDispatcher(ledmatrix.NewRenderer(leds)),
		Display:    panel,
		Logger:     log,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = serve(ctx, watch, loop, log)
	log.Info().Msg("shutting down")
	if herr := leds.Halt(); herr != nil {
		log.Warn().Err(herr).Msg("matrix not cleared")
	}
	if berr := panel.Blank(); berr != nil {
		log.Warn().Err(berr).Msg("panel not cleared")
	}
	return err
}

// serve runs the button watcher, if any, and the console loop until one of
// them fails or ctx is done. A closed console leaves the buttons running.
//
// Both have returned when serve does, so the caller owns the matrix and the
// panel again.
func serve(ctx context.Context, watch func(context.Context) error, loop *console.Loop, log *zerolog.Logger) error {
	eg, gctx := errgroup.WithContext(ctx)
	if watch != nil {
		eg.Go(func() error {
			return errors.Wrap(watch(gctx), "buttons")
		})
	}
	eg.Go(func() error {
		if err := loop.Run(gctx); err != nil {
			return errors.Wrap(err, "console")
		}
		log.Info().Msg("console closed")
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	if pflag.CommandLine.Changed("serial") {
		cfg.Console.Serial = serialName
	}
	if pflag.CommandLine.Changed("baud") {
		cfg.Console.Baud = baud
	}
	return cfg, errors.WithStack(cfg.Validate())
}

func openMatrixPort(cfg *config.Config) (spi.PortCloser, error) {
	if preview {
		return termled.New(&termled.Opts{
			Rows:     ledmatrix.Rows,
			Cols:     ledmatrix.Cols,
			Position: ledmatrix.Position,
		})
	}
	p, err := spireg.Open(cfg.Matrix.SPI)
	if err != nil {
		return nil, err
	}
	if pin, ok := p.(spi.Pins); ok {
		if mosi := pin.MOSI(); mosi != nil && mosi.Number() != cfg.Matrix.Pin {
			_ = p.Close()
			return nil, errors.Errorf("%s drives %s, not GPIO%d", p, mosi, cfg.Matrix.Pin)
		}
	}
	return p, nil
}

func openDisplay(cfg *config.Config) (*oled.Surface, func(), error) {
	if preview {
		return oled.NewHeadless(cfg.Display.Width, cfg.Display.Height), func() {}, nil
	}
	bus, err := i2creg.Open(cfg.Display.Bus)
	if err != nil {
		return nil, nil, err
	}
	if err := bus.SetSpeed(physic.Frequency(cfg.Display.FreqHz) * physic.Hertz); err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	opts := ssd1306.DefaultOpts
	opts.W = cfg.Display.Width
	opts.H = cfg.Display.Height
	opts.Addr = cfg.Display.Addr
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	s, err := oled.New(dev)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	return s, func() {
		_ = dev.Halt()
		_ = bus.Close()
	}, nil
}

func openRGB(cfg *config.Config) (red, green, blue status.Output, err error) {
	if preview {
		return nil, nil, nil, nil
	}
	var out [3]status.Output
	for i, n := range []int{cfg.RGB.Red, cfg.RGB.Green, cfg.RGB.Blue} {
		p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
		if p == nil {
			return nil, nil, nil, errors.Errorf("GPIO%d not found", n)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, nil, nil, errors.Wrapf(err, "GPIO%d", n)
		}
		out[i] = p
	}
	return out[0], out[1], out[2], nil
}

func openConsole(cfg *config.Config) (io.ByteReader, io.Writer, func(), error) {
	if cfg.Console.Serial == "" {
		return bufio.NewReader(os.Stdin), os.Stdout, func() {}, nil
	}
	p, err := serial.Open(cfg.Console.Serial, &serial.Mode{BaudRate: cfg.Console.Baud})
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, cfg.Console.Serial)
	}
	return bufio.NewReader(p), p, func() { _ = p.Close() }, nil
}

// buttons returns the edge source of the configured backend, bound to a
// Controller driving panel.
func buttons(cfg *config.Config, panel *status.Panel, log *zerolog.Logger) (func(ctx context.Context) error, error) {
	opts := &debounce.Opts{Window: cfg.Buttons.Debounce, Logger: log}
	switch cfg.Buttons.Backend {
	case config.BackendCdev:
		c, err := debounce.New(panel, []debounce.Button{
			{Name: "A", Pin: cfg.Buttons.A, Channel: debounce.Blue},
			{Name: "B", Pin: cfg.Buttons.B, Channel: debounce.Green},
		}, opts)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			return debounce.WatchChip(ctx, c, cfg.Buttons.Chip, cfg.Buttons.A, cfg.Buttons.B)
		}, nil
	default:
		a := gpioreg.ByName(fmt.Sprintf("GPIO%d", cfg.Buttons.A))
		b := gpioreg.ByName(fmt.Sprintf("GPIO%d", cfg.Buttons.B))
		if a == nil || b == nil {
			return nil, errors.Errorf("GPIO%d or GPIO%d not found", cfg.Buttons.A, cfg.Buttons.B)
		}
		c, err := debounce.New(panel, []debounce.Button{
			{Name: "A", Pin: a.Number(), Channel: debounce.Blue},
			{Name: "B", Pin: b.Number(), Channel: debounce.Green},
		}, opts)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			return debounce.Watch(ctx, c, a, b)
		}, nil
	}
}
