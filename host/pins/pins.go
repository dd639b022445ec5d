// Package pins provides the host-side GPIO backends for the button/LED loop.
//
// Each backend is a core.GPIODriver for the LED plus an edge source that
// calls the loop's ISR when the button fires. On Linux the button edge
// arrives on a driver goroutine, which stands in for the interrupt context.
package pins

import (
	"context"
	"errors"
	"fmt"
	"io"

	"buttonled/config"
	"buttonled/core"
)

var (
	// ErrUnknownBackend is returned by Open for an unrecognised backend name
	ErrUnknownBackend = errors.New("unknown GPIO backend")

	// ErrNoSuchPin is returned when the host has no GPIO with that number
	ErrNoSuchPin = errors.New("no such GPIO pin")

	// ErrUnsupported is returned by backends not available on this platform
	ErrUnsupported = errors.New("GPIO backend not supported on this platform")
)

// Board is a host GPIO backend
type Board interface {
	core.GPIODriver

	// WatchButton calls isr on every configured edge of pin until ctx is
	// done or the edge source ends. Call ConfigureInput first.
	WatchButton(ctx context.Context, pin core.GPIOPin, edge string, isr func()) error

	// Close releases every requested pin
	Close() error
}

// Open returns the backend named by cfg.Backend. presses feeds the sim
// backend: every line read from it is one button press.
func Open(cfg *config.Config, presses io.Reader) (Board, error) {
	switch cfg.Backend {
	case config.BackendSim:
		return NewSim(presses), nil
	case config.BackendPeriph:
		b, err := OpenPeriph()
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendGPIOCdev:
		b, err := OpenCdev(cfg.Chip)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
