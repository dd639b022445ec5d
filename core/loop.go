package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// Default pin assignment
const (
	DefaultButtonPin GPIOPin = 0
	DefaultLEDPin    GPIOPin = 1
)

var (
	// ErrPinRange is returned for a pin the register word has no bit for
	ErrPinRange = errors.New("pin out of register range")

	// ErrSamePin is returned when the button and the LED share a pin
	ErrSamePin = errors.New("button and LED share a pin")
)

// LoopConfig holds the event loop wiring
type LoopConfig struct {
	Registers  *Registers // Register block; nil allocates a zeroed one
	Signal     *Signal    // Button signal; nil allocates one using Policy
	Policy     Policy     // Pending policy for an allocated signal
	Driver     GPIODriver // Hardware mirror; nil falls back to SetGPIODriver's
	ButtonPin  GPIOPin
	LEDPin     GPIOPin
	ButtonPull Pull
	Idle       func() // Called on iterations with nothing to do; nil busy-polls
}

// EventLoop toggles the LED once per observed button signal
type EventLoop struct {
	regs   *Registers
	signal *Signal
	driver GPIODriver
	button GPIOPin
	led    GPIOPin
	pull   Pull
	idle   func()

	seq       uint32 // loop iterations, loop-owned
	toggles   uint32 // atomic
	coalesced uint32 // last reported coalesced total, loop-owned
}

// ValidatePins checks that both pins fit the register word and differ
func ValidatePins(button, led GPIOPin) error {
	if button >= RegisterWidth {
		return fmt.Errorf("button pin %d: %w", button, ErrPinRange)
	}
	if led >= RegisterWidth {
		return fmt.Errorf("LED pin %d: %w", led, ErrPinRange)
	}
	if button == led {
		return fmt.Errorf("pin %d: %w", led, ErrSamePin)
	}
	return nil
}

// NewEventLoop creates an event loop. Call Init before Step or Run.
func NewEventLoop(cfg LoopConfig) (*EventLoop, error) {
	if err := ValidatePins(cfg.ButtonPin, cfg.LEDPin); err != nil {
		return nil, err
	}

	l := &EventLoop{
		regs:   cfg.Registers,
		signal: cfg.Signal,
		driver: cfg.Driver,
		button: cfg.ButtonPin,
		led:    cfg.LEDPin,
		pull:   cfg.ButtonPull,
		idle:   cfg.Idle,
	}
	if l.regs == nil {
		l.regs = &Registers{}
	}
	if l.signal == nil {
		l.signal = NewSignal(cfg.Policy)
	}
	if l.driver == nil {
		l.driver = currentGPIO()
	}
	return l, nil
}

// Registers returns the register block the loop drives
func (l *EventLoop) Registers() *Registers {
	return l.regs
}

// Signal returns the button signal the loop polls
func (l *EventLoop) Signal() *Signal {
	return l.signal
}

// LEDPin returns the pin the loop toggles
func (l *EventLoop) LEDPin() GPIOPin {
	return l.led
}

// ISR returns the interrupt entry point for wiring into an edge source
func (l *EventLoop) ISR() func() {
	return l.signal.Raise
}

// Toggles returns the number of toggles applied so far
func (l *EventLoop) Toggles() uint32 {
	return atomic.LoadUint32(&l.toggles)
}

// Init configures pin directions: LED as output, button as input.
// Only those two direction bits change.
func (l *EventLoop) Init() error {
	l.regs.SetOutput(l.led)
	l.regs.SetInput(l.button)
	RecordEvent(EvtInit, uint8(l.led), l.seq, l.regs.Dir.Load(), l.regs.Out.Load())

	if l.driver == nil {
		return nil
	}
	if err := l.driver.ConfigureOutput(l.led); err != nil {
		return fmt.Errorf("configure LED pin %d: %w", l.led, err)
	}
	if err := l.driver.SetPin(l.led, l.regs.Level(l.led)); err != nil {
		return fmt.Errorf("drive LED pin %d: %w", l.led, err)
	}
	if err := l.driver.ConfigureInput(l.button, l.pull); err != nil {
		return fmt.Errorf("configure button pin %d: %w", l.button, err)
	}
	return nil
}

// Step runs one loop iteration and reports whether the LED was toggled.
// With no pending signal the output register is left untouched.
func (l *EventLoop) Step() (bool, error) {
	l.seq++
	if !l.signal.Take() {
		return false, nil
	}

	level := l.regs.ToggleOutput(l.led)
	n := atomic.AddUint32(&l.toggles, 1)
	RecordEvent(EvtToggle, uint8(l.led), l.seq, l.regs.Out.Load(), n)

	if l.signal.Policy() == PolicyCoalesce {
		if c := l.signal.Stats().Coalesced; c != l.coalesced {
			l.coalesced = c
			RecordEvent(EvtCoalesced, uint8(l.button), l.seq, c, n)
		}
	}

	if level {
		DebugAsync("[LED] on toggles=" + utoa(n))
	} else {
		DebugAsync("[LED] off toggles=" + utoa(n))
	}

	if l.driver != nil {
		if err := l.driver.SetPin(l.led, level); err != nil {
			var v uint32
			if level {
				v = 1
			}
			RecordEvent(EvtDriverErr, uint8(l.led), l.seq, v, n)
			return true, fmt.Errorf("drive LED pin %d: %w", l.led, err)
		}
	}
	return true, nil
}

// Shutdown returns the LED to its default (off) state, in the register and
// on the driver. Host builds call it after Run returns.
func (l *EventLoop) Shutdown() error {
	l.regs.Drive(l.led, false)
	RecordEvent(EvtShutdown, uint8(l.led), l.seq, l.regs.Out.Load(), l.Toggles())

	if l.driver == nil {
		return nil
	}
	if err := l.driver.SetPin(l.led, false); err != nil {
		return fmt.Errorf("drive LED pin %d: %w", l.led, err)
	}
	return nil
}

// Run polls until ctx is done or the driver fails. The firmware passes a
// context that is never cancelled.
func (l *EventLoop) Run(ctx context.Context) error {
	done := ctx.Done()
	for {
		select {
		case <-done:
			return ctx.Err()
		default:
		}

		toggled, err := l.Step()
		if err != nil {
			return err
		}
		if !toggled && l.idle != nil {
			l.idle()
		}
	}
}
