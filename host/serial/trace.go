package serial

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrNotTrace is returned by ParseLine for console output that is not a
// trace or LED line
var ErrNotTrace = errors.New("not a trace line")

// Line is one parsed line of firmware console output
type Line struct {
	Kind    string // TOGGLE, INIT, COALESCED, DRIVER_ERR!, or LED
	Pin     uint32
	Seq     uint32
	Value1  uint32 // register word for TOGGLE/INIT
	Value2  uint32
	LEDOn   bool   // LED lines only
	Toggles uint32 // LED lines only
	Raw     string
}

// ParseLine parses a "[TRACE] ..." or "[LED] ..." console line
func ParseLine(s string) (Line, error) {
	s = strings.TrimSpace(s)
	line := Line{Raw: s}

	switch {
	case strings.HasPrefix(s, "[TRACE] "):
		fields := strings.Fields(strings.TrimPrefix(s, "[TRACE] "))
		if len(fields) == 0 || strings.HasPrefix(fields[0], "===") {
			return line, ErrNotTrace
		}
		line.Kind = fields[0]
		for _, f := range fields[1:] {
			key, value, ok := strings.Cut(f, "=")
			if !ok {
				return line, ErrNotTrace
			}
			n, err := strconv.ParseUint(value, 0, 32)
			if err != nil {
				return line, err
			}
			switch key {
			case "pin":
				line.Pin = uint32(n)
			case "seq":
				line.Seq = uint32(n)
			case "v1":
				line.Value1 = uint32(n)
			case "v2":
				line.Value2 = uint32(n)
			}
		}
		return line, nil

	case strings.HasPrefix(s, "[LED] "):
		fields := strings.Fields(strings.TrimPrefix(s, "[LED] "))
		if len(fields) != 2 || (fields[0] != "on" && fields[0] != "off") {
			return line, ErrNotTrace
		}
		line.Kind = "LED"
		line.LEDOn = fields[0] == "on"
		n, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "toggles="), 10, 32)
		if err != nil {
			return line, err
		}
		line.Toggles = uint32(n)
		return line, nil
	}
	return line, ErrNotTrace
}

// ReadLines scans r and calls fn for every console line. Lines that are not
// trace output are passed through with an ErrNotTrace error so callers can
// still echo them.
func ReadLines(r io.Reader, fn func(Line, error)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fn(ParseLine(scanner.Text()))
	}
	return scanner.Err()
}
