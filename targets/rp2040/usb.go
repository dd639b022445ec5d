//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
// On RP2040, machine.Serial is USB CDC, not UART
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// consoleWrite writes one console line to USB
func consoleWrite(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}

// consoleCommand returns a pending console byte, or 0 if none
func consoleCommand() byte {
	if machine.Serial.Buffered() == 0 {
		return 0
	}
	b, err := machine.Serial.ReadByte()
	if err != nil {
		return 0
	}
	return b
}
