package core

import (
	"strings"
	"testing"
)

func TestTraceRingWraps(t *testing.T) {
	ClearTraceRing()
	defer ClearTraceRing()

	for i := uint32(1); i <= TraceRingSize+5; i++ {
		RecordEvent(EvtToggle, 1, i, 0, i)
	}

	events := TraceEvents()
	if len(events) != TraceRingSize {
		t.Fatalf("expected %d events, got %d", TraceRingSize, len(events))
	}
	if events[0].Seq != 6 {
		t.Errorf("oldest event should be seq 6, got %d", events[0].Seq)
	}
	if events[len(events)-1].Seq != TraceRingSize+5 {
		t.Errorf("newest event should be seq %d, got %d", TraceRingSize+5, events[len(events)-1].Seq)
	}
}

func TestFormatEvent(t *testing.T) {
	line := FormatEvent(TraceEvent{EventType: EvtToggle, Pin: 1, Seq: 12, Value1: 2, Value2: 7})
	want := "[TRACE] TOGGLE pin=1 seq=12 v1=0x00000002 v2=7"
	if line != want {
		t.Errorf("FormatEvent = %q, want %q", line, want)
	}
}

func TestDumpTraceRing(t *testing.T) {
	ClearTraceRing()
	defer ClearTraceRing()

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	RecordEvent(EvtInit, 1, 0, 2, 0)
	RecordEvent(EvtDriverErr, 1, 3, 1, 1)
	DumpTraceRing()

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[1], "INIT") || !strings.Contains(lines[2], "DRIVER_ERR!") {
		t.Errorf("unexpected dump: %v", lines)
	}
}

func TestDebugPrintlnRespectsEnable(t *testing.T) {
	var got []string
	SetDebugWriter(func(s string) { got = append(got, s) })
	defer SetDebugWriter(func(string) {})

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	DebugAsync("hidden too")

	SetDebugEnabled(true)
	defer SetDebugEnabled(false)
	DebugPrintln("shown")

	if len(got) != 1 || got[0] != "shown" {
		t.Errorf("expected only the enabled message, got %v", got)
	}
}

func TestNumberFormatting(t *testing.T) {
	if got := itoa(-42); got != "-42" {
		t.Errorf("itoa(-42) = %q", got)
	}
	if got := utoa(0); got != "0" {
		t.Errorf("utoa(0) = %q", got)
	}
	if got := hex32(0xdeadbeef); got != "0xdeadbeef" {
		t.Errorf("hex32 = %q", got)
	}
}
