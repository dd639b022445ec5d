package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"buttonled/host/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	raw    = flag.Bool("raw", false, "Echo console lines that are not trace output")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: flush failed: %v\n", err)
	}

	fmt.Printf("Monitoring %s...\n", *device)

	var last uint32
	err = serial.ReadLines(port, func(l serial.Line, err error) {
		switch {
		case errors.Is(err, serial.ErrNotTrace):
			if *raw {
				fmt.Println(l.Raw)
			}
		case err != nil:
			fmt.Fprintf(os.Stderr, "Malformed line %q: %v\n", l.Raw, err)
		case l.Kind == "TOGGLE":
			fmt.Printf("toggle #%d  seq=%d  out=%#08x\n", l.Value2, l.Seq, l.Value1)
			if l.Value2 != last+1 && last != 0 {
				fmt.Printf("  (missed %d trace lines)\n", l.Value2-last-1)
			}
			last = l.Value2
		case l.Kind == "COALESCED":
			fmt.Printf("coalesced presses so far: %d\n", l.Value1)
		case l.Kind == "LED":
			state := "off"
			if l.LEDOn {
				state = "on"
			}
			fmt.Printf("LED %s (toggles=%d)\n", state, l.Toggles)
		default:
			fmt.Println(l.Raw)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *device, err)
		os.Exit(1)
	}
}
