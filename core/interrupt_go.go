//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// On regular Go the "interrupt" is another goroutine, so loop-side critical
// sections serialize on a mutex instead. Signal.Raise never takes it.
var criticalSection sync.Mutex

// disableInterrupts enters the loop-side critical section. Not reentrant.
func disableInterrupts() State {
	criticalSection.Lock()
	return 0
}

// restoreInterrupts leaves the loop-side critical section
func restoreInterrupts(state State) {
	criticalSection.Unlock()
}
