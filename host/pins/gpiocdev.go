//go:build linux

package pins

import (
	"context"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"buttonled/config"
	"buttonled/core"
)

// CdevBoard drives lines of one chip through the Linux GPIO character device
type CdevBoard struct {
	chip string

	mu    sync.Mutex
	lines map[core.GPIOPin]*gpiocdev.Line
	pulls map[core.GPIOPin]core.Pull
}

// OpenCdev opens the named chip, e.g. "gpiochip0"
func OpenCdev(chip string) (*CdevBoard, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", chip, err)
	}
	// Lines are requested by chip name; the handle only proves it exists.
	c.Close()

	return &CdevBoard{
		chip:  chip,
		lines: make(map[core.GPIOPin]*gpiocdev.Line),
		pulls: make(map[core.GPIOPin]core.Pull),
	}, nil
}

// request replaces any existing request for pin. Caller holds b.mu.
func (b *CdevBoard) request(pin core.GPIOPin, options ...gpiocdev.LineReqOption) (*gpiocdev.Line, error) {
	if l, ok := b.lines[pin]; ok {
		l.Close()
		delete(b.lines, pin)
	}
	l, err := gpiocdev.RequestLine(b.chip, int(pin), options...)
	if err != nil {
		return nil, fmt.Errorf("request %s:%d: %w", b.chip, pin, err)
	}
	b.lines[pin] = l
	return l, nil
}

// ConfigureOutput requests pin as an output driven inactive
func (b *CdevBoard) ConfigureOutput(pin core.GPIOPin) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.request(pin, gpiocdev.AsOutput(0))
	return err
}

// ConfigureInput requests pin as a biased input
func (b *CdevBoard) ConfigureInput(pin core.GPIOPin, pull core.Pull) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pulls[pin] = pull
	_, err := b.request(pin, gpiocdev.AsInput, cdevBias(pull))
	return err
}

// SetPin sets the pin to high (true) or low (false)
func (b *CdevBoard) SetPin(pin core.GPIOPin, value bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.lines[pin]
	if !ok {
		var err error
		if l, err = b.request(pin, gpiocdev.AsOutput(0)); err != nil {
			return err
		}
	}
	v := 0
	if value {
		v = 1
	}
	return l.SetValue(v)
}

// GetPin reads the current pin level
func (b *CdevBoard) GetPin(pin core.GPIOPin) (bool, error) {
	b.mu.Lock()
	l, ok := b.lines[pin]
	b.mu.Unlock()
	if !ok {
		return false, fmt.Errorf("%s:%d not requested", b.chip, pin)
	}
	v, err := l.Value()
	return v != 0, err
}

// WatchButton re-requests pin with edge detection. The kernel delivers each
// edge to the event handler goroutine, which calls isr.
func (b *CdevBoard) WatchButton(ctx context.Context, pin core.GPIOPin, edge string, isr func()) error {
	b.mu.Lock()
	pull := b.pulls[pin]
	_, err := b.request(pin,
		gpiocdev.AsInput,
		cdevBias(pull),
		cdevEdge(edge),
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { isr() }),
	)
	b.mu.Unlock()
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

// Close reverts outputs to inputs and releases every line
func (b *CdevBoard) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for pin, l := range b.lines {
		l.Reconfigure(gpiocdev.AsInput)
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s:%d: %w", b.chip, pin, err)
		}
		delete(b.lines, pin)
	}
	return firstErr
}

func cdevBias(pull core.Pull) gpiocdev.LineReqOption {
	switch pull {
	case core.PullUp:
		return gpiocdev.WithPullUp
	case core.PullDown:
		return gpiocdev.WithPullDown
	default:
		return gpiocdev.WithBiasDisabled
	}
}

func cdevEdge(edge string) gpiocdev.LineReqOption {
	switch edge {
	case config.EdgeRising:
		return gpiocdev.WithRisingEdge
	case config.EdgeBoth:
		return gpiocdev.WithBothEdges
	default:
		return gpiocdev.WithFallingEdge
	}
}
