//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks the pin interrupt (and everything else) so the loop
// can read signal counters and the trace ring without the ISR interleaving
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state saved by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
