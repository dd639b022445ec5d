package pins

import (
	"bufio"
	"context"
	"io"
	"sync"

	"buttonled/core"
)

// SimBoard is an in-memory GPIO chip. Button presses are lines of text read
// from an io.Reader, so the loop can be driven from a terminal.
type SimBoard struct {
	presses io.Reader

	mu      sync.Mutex
	outputs map[core.GPIOPin]bool
	pulls   map[core.GPIOPin]core.Pull
	levels  map[core.GPIOPin]bool

	// OnSet, if set, is called after every SetPin
	OnSet func(pin core.GPIOPin, level bool)
}

// NewSim creates a simulated board reading presses from r
func NewSim(r io.Reader) *SimBoard {
	return &SimBoard{
		presses: r,
		outputs: make(map[core.GPIOPin]bool),
		pulls:   make(map[core.GPIOPin]core.Pull),
		levels:  make(map[core.GPIOPin]bool),
	}
}

// ConfigureOutput marks pin as an output driven low
func (s *SimBoard) ConfigureOutput(pin core.GPIOPin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[pin] = true
	s.levels[pin] = false
	return nil
}

// ConfigureInput marks pin as an input. A pull-up input idles high.
func (s *SimBoard) ConfigureInput(pin core.GPIOPin, pull core.Pull) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outputs, pin)
	s.pulls[pin] = pull
	s.levels[pin] = pull == core.PullUp
	return nil
}

// SetPin drives pin, configuring it as an output if needed
func (s *SimBoard) SetPin(pin core.GPIOPin, value bool) error {
	s.mu.Lock()
	s.outputs[pin] = true
	s.levels[pin] = value
	onSet := s.OnSet
	s.mu.Unlock()

	if onSet != nil {
		onSet(pin, value)
	}
	return nil
}

// GetPin returns the simulated level of pin
func (s *SimBoard) GetPin(pin core.GPIOPin) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[pin], nil
}

// WatchButton calls isr once per line read from the press source. It
// returns nil when the source reaches EOF.
func (s *SimBoard) WatchButton(ctx context.Context, pin core.GPIOPin, edge string, isr func()) error {
	lines := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.presses)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case <-lines:
			isr()
		}
	}
}

// Close is a no-op for the simulated board
func (s *SimBoard) Close() error {
	return nil
}
