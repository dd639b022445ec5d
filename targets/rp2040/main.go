//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"time"

	"buttonled/core"
)

// idleInterval is the sleep between loop iterations with nothing pending
const idleInterval = 1 * time.Millisecond

var (
	// Recovered panics in the main loop
	loopErrors uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	core.SetDebugWriter(consoleWrite)
	core.SetDebugEnabled(true)

	gpioDriver := NewRPGPIODriver()
	core.SetGPIODriver(gpioDriver)

	loop, err := core.NewEventLoop(core.LoopConfig{
		Policy:     pendingPolicy,
		ButtonPin:  core.GPIOPin(buttonPin),
		LEDPin:     core.GPIOPin(ledPin),
		ButtonPull: buttonPull,
		Idle:       idle,
	})
	if err != nil {
		consoleWrite("[BOOT] " + err.Error())
		return
	}
	if err := loop.Init(); err != nil {
		consoleWrite("[BOOT] " + err.Error())
		return
	}
	statsLoop = loop

	// Take the method value once so the interrupt path never allocates.
	isr := loop.ISR()
	err = buttonPin.SetInterrupt(buttonPinChange, func(machine.Pin) {
		isr()
	})
	if err != nil {
		consoleWrite("[BOOT] button interrupt: " + err.Error())
		return
	}

	consoleWrite("[BOOT] buttonled ready")

	// Main loop: Run never returns on its own here, so anything coming
	// back is a driver error or a recovered panic. Log it and keep going.
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
				}
			}()

			if err := loop.Run(context.Background()); err != nil {
				consoleWrite("[LOOP] " + err.Error())
				core.DumpTraceRing()
			}
		}()
	}
}

// statsLoop is the loop the console commands report on
var statsLoop *core.EventLoop

// idle services console commands and sleeps:
// 'd' dumps the trace ring, 's' prints signal counters
func idle() {
	switch consoleCommand() {
	case 'd':
		core.DumpTraceRing()
	case 's':
		printStats()
	}
	time.Sleep(idleInterval)
}

func printStats() {
	if statsLoop == nil {
		return
	}
	st := statsLoop.Signal().Stats()
	consoleWrite("[STATS] presses=" + utoa(st.Raised) +
		" toggles=" + utoa(statsLoop.Toggles()) +
		" coalesced=" + utoa(st.Coalesced) +
		" errors=" + utoa(loopErrors))
}

// utoa converts an unsigned integer to a string without fmt
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
