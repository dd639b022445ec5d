//go:build rp2040 || rp2350

package main

import (
	"machine"

	"buttonled/core"
)

const (
	buttonPin       = machine.GPIO0 // GP0 on Pico
	buttonPull      = core.PullUp
	buttonPinChange = machine.PinFalling
	ledPin          = machine.LED // GP25 on Pico
	pendingPolicy   = core.PolicyCoalesce
)
