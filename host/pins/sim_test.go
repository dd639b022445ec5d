package pins

import (
	"context"
	"errors"
	"strings"
	"testing"

	"buttonled/config"
	"buttonled/core"
)

func TestSimWatchButtonOnePressPerLine(t *testing.T) {
	sim := NewSim(strings.NewReader("\n\nx\n"))

	presses := 0
	err := sim.WatchButton(context.Background(), 0, config.EdgeFalling, func() { presses++ })
	if err != nil {
		t.Fatalf("WatchButton failed: %v", err)
	}
	if presses != 3 {
		t.Errorf("expected 3 presses, got %d", presses)
	}
}

func TestSimWatchButtonCancel(t *testing.T) {
	sim := NewSim(blockingReader{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sim.WatchButton(ctx, 0, config.EdgeFalling, func() {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimDrivesLoop(t *testing.T) {
	sim := NewSim(strings.NewReader("press\npress\npress\n"))
	var changes []bool
	sim.OnSet = func(pin core.GPIOPin, level bool) {
		if pin == core.DefaultLEDPin {
			changes = append(changes, level)
		}
	}

	cfg := config.Default()
	cfg.Policy = "count"
	lc, err := cfg.LoopConfig(sim)
	if err != nil {
		t.Fatalf("LoopConfig failed: %v", err)
	}
	loop, err := core.NewEventLoop(lc)
	if err != nil {
		t.Fatalf("NewEventLoop failed: %v", err)
	}
	if err := loop.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if level, _ := sim.GetPin(core.DefaultButtonPin); !level {
		t.Error("pulled-up button should idle high")
	}

	if err := sim.WatchButton(context.Background(), core.DefaultButtonPin, cfg.Edge, loop.ISR()); err != nil {
		t.Fatalf("WatchButton failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := loop.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	// Init write, then one write per press
	want := []bool{false, true, false, true}
	if len(changes) != len(want) {
		t.Fatalf("expected LED writes %v, got %v", want, changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("write %d: expected %v, got %v", i, want[i], changes[i])
		}
	}
	if level, _ := sim.GetPin(core.DefaultLEDPin); !level {
		t.Error("three presses should leave the LED on")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "sysfs"
	if _, err := Open(cfg, strings.NewReader("")); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpenSim(t *testing.T) {
	b, err := Open(config.Default(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer b.Close()
	if _, ok := b.(*SimBoard); !ok {
		t.Errorf("expected *SimBoard, got %T", b)
	}
}

// blockingReader never returns
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
