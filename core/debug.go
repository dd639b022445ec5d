package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures a loop event for post-mortem analysis
type TraceEvent struct {
	EventType uint8  // Event type code
	Pin       uint8  // Pin the event refers to
	Seq       uint32 // Loop iteration at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtInit      = 1 // Direction configured (v1=dir, v2=out)
	EvtToggle    = 2 // LED toggled (v1=out, v2=toggle count)
	EvtCoalesced = 3 // Raises merged since last toggle (v1=coalesced total)
	EvtDriverErr = 4 // Driver write failed (v1=level)
	EvtShutdown  = 5 // LED returned to default (v1=out, v2=toggle count)
)

const (
	TraceRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Trace ring buffer (non-blocking, for post-mortem)
	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8        // Next write position
	traceEnabled  bool  = true // Always capture trace events

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, stdout, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Falls back to DebugPrintln when InitAsyncDebug was never called.
// Drops the message if the channel is full.
func DebugAsync(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan == nil {
		DebugPrintln(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
		// Channel full, drop message (non-blocking)
	}
}

// RecordEvent captures a trace event in the ring buffer
func RecordEvent(eventType, pin uint8, seq, value1, value2 uint32) {
	if !traceEnabled {
		return
	}
	state := disableInterrupts()
	idx := traceRingHead
	traceRing[idx] = TraceEvent{
		EventType: eventType,
		Pin:       pin,
		Seq:       seq,
		Value1:    value1,
		Value2:    value2,
	}
	traceRingHead = (idx + 1) % TraceRingSize
	restoreInterrupts(state)
}

// TraceEvents returns the recorded events, oldest first
func TraceEvents() []TraceEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	events := make([]TraceEvent, 0, TraceRingSize)
	start := traceRingHead
	for i := uint8(0); i < TraceRingSize; i++ {
		evt := traceRing[(start+i)%TraceRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// eventName returns the dump label for an event type
func eventName(eventType uint8) string {
	switch eventType {
	case EvtInit:
		return "INIT"
	case EvtToggle:
		return "TOGGLE"
	case EvtCoalesced:
		return "COALESCED"
	case EvtDriverErr:
		return "DRIVER_ERR!"
	case EvtShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// FormatEvent renders a trace event as a single "[TRACE]" line
func FormatEvent(evt TraceEvent) string {
	return "[TRACE] " + eventName(evt.EventType) +
		" pin=" + itoa(int(evt.Pin)) +
		" seq=" + utoa(evt.Seq) +
		" v1=" + hex32(evt.Value1) +
		" v2=" + utoa(evt.Value2)
}

// DumpTraceRing outputs the trace ring buffer (call on shutdown/error)
func DumpTraceRing() {
	if debugPrintln == nil {
		return
	}

	events := TraceEvents()
	debugPrintln("[TRACE] === Trace Ring Dump ===")
	for _, evt := range events {
		debugPrintln(FormatEvent(evt))
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearTraceRing clears the trace buffer
func ClearTraceRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
}
