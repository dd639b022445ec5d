package core

import "sync/atomic"

// Policy decides what happens to raises that arrive before the loop has
// consumed the previous one
type Policy uint8

const (
	// PolicyCoalesce keeps a single pending flag: several raises between two
	// takes produce one toggle
	PolicyCoalesce Policy = iota

	// PolicyCount queues every raise: each take consumes one
	PolicyCount
)

// String returns the config spelling of the policy
func (p Policy) String() string {
	switch p {
	case PolicyCoalesce:
		return "coalesce"
	case PolicyCount:
		return "count"
	default:
		return "unknown"
	}
}

// SignalStats is a snapshot of the signal counters
type SignalStats struct {
	Raised    uint32 // Raise calls
	Observed  uint32 // successful Take calls
	Coalesced uint32 // raises merged into an already-pending flag
	Pending   uint32 // raises not yet taken
}

// Signal is the flag shared between the button interrupt and the loop.
// Raise is the only method safe to call from interrupt context.
type Signal struct {
	policy   Policy
	pending  uint32
	raised   uint32
	observed uint32
}

// NewSignal creates a signal with the given pending policy
func NewSignal(policy Policy) *Signal {
	return &Signal{policy: policy}
}

// Policy returns the pending policy
func (s *Signal) Policy() Policy {
	return s.policy
}

// Raise marks a button press. It does not allocate, lock or block.
func (s *Signal) Raise() {
	atomic.AddUint32(&s.raised, 1)
	if s.policy == PolicyCount {
		atomic.AddUint32(&s.pending, 1)
		return
	}
	atomic.StoreUint32(&s.pending, 1)
}

// Pending reports whether a raise is waiting to be taken
func (s *Signal) Pending() bool {
	return atomic.LoadUint32(&s.pending) != 0
}

// Take consumes one pending raise and reports whether there was one.
// Only the event loop calls Take.
func (s *Signal) Take() bool {
	if s.policy == PolicyCount {
		for {
			n := atomic.LoadUint32(&s.pending)
			if n == 0 {
				return false
			}
			if atomic.CompareAndSwapUint32(&s.pending, n, n-1) {
				atomic.AddUint32(&s.observed, 1)
				return true
			}
		}
	}

	// Test and clear in one step: a raise landing between a separate load
	// and store would otherwise be wiped out.
	if atomic.SwapUint32(&s.pending, 0) == 0 {
		return false
	}
	atomic.AddUint32(&s.observed, 1)
	return true
}

// Stats returns a consistent snapshot of the counters
func (s *Signal) Stats() SignalStats {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	st := SignalStats{
		Raised:   atomic.LoadUint32(&s.raised),
		Observed: atomic.LoadUint32(&s.observed),
		Pending:  atomic.LoadUint32(&s.pending),
	}
	if s.policy == PolicyCoalesce && st.Raised > st.Observed+st.Pending {
		st.Coalesced = st.Raised - st.Observed - st.Pending
	}
	return st
}
