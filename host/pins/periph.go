package pins

import (
	"context"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"buttonled/config"
	"buttonled/core"
)

// edgePollInterval bounds how long WaitForEdge blocks before ctx is rechecked
const edgePollInterval = 100 * time.Millisecond

// PeriphBoard drives Raspberry Pi GPIO through periph.io. Pins are addressed
// by their BCM numbers.
type PeriphBoard struct {
	mu    sync.Mutex
	pins  map[core.GPIOPin]gpio.PinIO
	pulls map[core.GPIOPin]gpio.Pull
}

// OpenPeriph initialises the periph host drivers
func OpenPeriph() (*PeriphBoard, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	return &PeriphBoard{
		pins:  make(map[core.GPIOPin]gpio.PinIO),
		pulls: make(map[core.GPIOPin]gpio.Pull),
	}, nil
}

// lookup resolves and caches a BCM pin
func (b *PeriphBoard) lookup(pin core.GPIOPin) (gpio.PinIO, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.pins[pin]; ok {
		return p, nil
	}
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, fmt.Errorf("GPIO%d: %w", pin, ErrNoSuchPin)
	}
	b.pins[pin] = p
	return p, nil
}

// ConfigureOutput drives pin low as an output
func (b *PeriphBoard) ConfigureOutput(pin core.GPIOPin) error {
	p, err := b.lookup(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.Low)
}

// ConfigureInput makes pin an input with the given bias and no edge detection
func (b *PeriphBoard) ConfigureInput(pin core.GPIOPin, pull core.Pull) error {
	p, err := b.lookup(pin)
	if err != nil {
		return err
	}
	pp := periphPull(pull)
	b.mu.Lock()
	b.pulls[pin] = pp
	b.mu.Unlock()
	return p.In(pp, gpio.NoEdge)
}

// SetPin sets the pin to high (true) or low (false)
func (b *PeriphBoard) SetPin(pin core.GPIOPin, value bool) error {
	p, err := b.lookup(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.Level(value))
}

// GetPin reads the current pin level
func (b *PeriphBoard) GetPin(pin core.GPIOPin) (bool, error) {
	p, err := b.lookup(pin)
	if err != nil {
		return false, err
	}
	return p.Read() == gpio.High, nil
}

// WatchButton enables edge detection on pin and calls isr for every edge
func (b *PeriphBoard) WatchButton(ctx context.Context, pin core.GPIOPin, edge string, isr func()) error {
	p, err := b.lookup(pin)
	if err != nil {
		return err
	}
	b.mu.Lock()
	pull, ok := b.pulls[pin]
	b.mu.Unlock()
	if !ok {
		pull = gpio.PullNoChange
	}
	if err := p.In(pull, periphEdge(edge)); err != nil {
		return fmt.Errorf("GPIO%d edge detection: %w", pin, err)
	}

	for ctx.Err() == nil {
		if p.WaitForEdge(edgePollInterval) {
			isr()
		}
	}
	return ctx.Err()
}

// Close halts every pin the board touched
func (b *PeriphBoard) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for pin, p := range b.pins {
		if err := p.Halt(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("halt GPIO%d: %w", pin, err)
		}
	}
	return firstErr
}

func periphPull(pull core.Pull) gpio.Pull {
	switch pull {
	case core.PullUp:
		return gpio.PullUp
	case core.PullDown:
		return gpio.PullDown
	default:
		return gpio.Float
	}
}

func periphEdge(edge string) gpio.Edge {
	switch edge {
	case config.EdgeRising:
		return gpio.RisingEdge
	case config.EdgeBoth:
		return gpio.BothEdges
	default:
		return gpio.FallingEdge
	}
}
