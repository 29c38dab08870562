// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package debounce

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

var (
	buttonA = Button{Name: "A", Pin: 5, Channel: Blue}
	buttonB = Button{Name: "B", Pin: 6, Channel: Green}
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type shown struct {
	Button Button
	Lit    bool
}

type sink struct {
	mu    sync.Mutex
	calls []shown
	err   error
	ch    chan shown
}

func (s *sink) Show(b Button, lit bool) error {
	s.mu.Lock()
	s.calls = append(s.calls, shown{b, lit})
	s.mu.Unlock()
	if s.ch != nil {
		s.ch <- shown{b, lit}
	}
	return s.err
}

func newController(t *testing.T, s Sink, clk *clock) *Controller {
	c, err := New(s, []Button{buttonA, buttonB}, &Opts{Now: clk.Now})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestHandleEdge(t *testing.T) {
	type edge struct {
		after time.Duration
		pin   int
	}
	for _, tc := range []struct {
		name  string
		edges []edge
		want  []shown
	}{
		{
			name:  "single",
			edges: []edge{{time.Second, 5}},
			want:  []shown{{buttonA, true}},
		},
		{
			name:  "bounce",
			edges: []edge{{time.Second, 5}, {5 * time.Millisecond, 5}, {100 * time.Millisecond, 5}},
			want:  []shown{{buttonA, true}},
		},
		{
			name:  "two presses",
			edges: []edge{{time.Second, 5}, {350 * time.Millisecond, 5}},
			want:  []shown{{buttonA, true}, {buttonA, false}},
		},
		{
			name:  "exactly the window",
			edges: []edge{{time.Second, 6}, {300 * time.Millisecond, 6}},
			want:  []shown{{buttonB, true}},
		},
		{
			name:  "independent buttons",
			edges: []edge{{time.Second, 5}, {10 * time.Millisecond, 6}},
			want:  []shown{{buttonA, true}, {buttonB, true}},
		},
		{
			name:  "within the window of start-up",
			edges: []edge{{200 * time.Millisecond, 5}},
		},
		{
			name:  "unknown pin",
			edges: []edge{{time.Second, 7}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clk := newClock()
			s := &sink{}
			c := newController(t, s, clk)
			for _, e := range tc.edges {
				clk.Advance(e.after)
				c.HandleEdge(e.pin)
			}
			if diff := cmp.Diff(tc.want, s.calls); diff != "" {
				t.Fatalf("Show calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleEdgeResult(t *testing.T) {
	clk := newClock()
	c := newController(t, &sink{}, clk)
	clk.Advance(time.Second)
	if !c.HandleEdge(5) {
		t.Fatal("first edge dropped")
	}
	if !c.Lit(5) {
		t.Fatal("button A should be lit")
	}
	if c.Lit(6) {
		t.Fatal("button B should not be lit")
	}
	if c.HandleEdge(5) {
		t.Fatal("bounce accepted")
	}
	if c.Lit(9) {
		t.Fatal("unknown pin lit")
	}
}

func TestHandleEdgeSinkError(t *testing.T) {
	buf := bytes.Buffer{}
	l := zerolog.New(&buf)
	clk := newClock()
	s := &sink{err: errors.New("display unplugged")}
	c, err := New(s, []Button{buttonA}, &Opts{Now: clk.Now, Logger: &l})
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)
	if !c.HandleEdge(5) {
		t.Fatal("edge dropped")
	}
	if !c.Lit(5) {
		t.Fatal("state must flip even if the sink fails")
	}
	if !strings.Contains(buf.String(), "display unplugged") {
		t.Fatalf("sink error not logged: %s", buf.String())
	}
}

func TestNewInvalid(t *testing.T) {
	s := &sink{}
	if _, err := New(nil, []Button{buttonA}, nil); err == nil {
		t.Error("nil sink accepted")
	}
	if _, err := New(s, nil, nil); err == nil {
		t.Error("no button accepted")
	}
	if _, err := New(s, []Button{buttonA, {Name: "C", Pin: 5}}, nil); err == nil {
		t.Error("duplicate pin accepted")
	}
	if _, err := New(s, []Button{buttonA}, &Opts{Window: -time.Second}); err == nil {
		t.Error("negative window accepted")
	}
}

func TestChannelString(t *testing.T) {
	for c, want := range map[Channel]string{Red: "Red", Green: "Green", Blue: "Blue", Channel(7): "Channel(7)"} {
		if got := c.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(c), got, want)
		}
	}
}

func TestWatch(t *testing.T) {
	clk := newClock()
	s := &sink{ch: make(chan shown)}
	c := newController(t, s, clk)
	pa := &gpiotest.Pin{N: "GPIO5", Num: 5, EdgesChan: make(chan gpio.Level)}
	pb := &gpiotest.Pin{N: "GPIO6", Num: 6, EdgesChan: make(chan gpio.Level)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- Watch(ctx, c, pa, pb)
	}()

	clk.Advance(time.Second)
	pa.EdgesChan <- gpio.Low
	if got := <-s.ch; got != (shown{buttonA, true}) {
		t.Fatalf("got %+v", got)
	}
	clk.Advance(time.Second)
	pb.EdgesChan <- gpio.Low
	if got := <-s.ch; got != (shown{buttonB, true}) {
		t.Fatalf("got %+v", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if pa.Pull() != gpio.PullUp || pb.Pull() != gpio.PullUp {
		t.Fatal("buttons must be pulled up")
	}
}

func TestWatchInError(t *testing.T) {
	clk := newClock()
	c := newController(t, &sink{}, clk)
	if err := Watch(context.Background(), c, &failingPin{}); err == nil {
		t.Fatal("expected error")
	}
}

type failingPin struct {
	gpiotest.Pin
}

func (p *failingPin) In(pull gpio.Pull, edge gpio.Edge) error {
	return errors.New("busy")
}
