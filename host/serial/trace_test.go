package serial

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		in      string
		want    Line
		wantErr bool
	}{
		{
			in:   "[TRACE] TOGGLE pin=1 seq=12 v1=0x00000002 v2=7",
			want: Line{Kind: "TOGGLE", Pin: 1, Seq: 12, Value1: 2, Value2: 7},
		},
		{
			in:   "[TRACE] COALESCED pin=0 seq=3 v1=0x00000004 v2=1\r",
			want: Line{Kind: "COALESCED", Pin: 0, Seq: 3, Value1: 4, Value2: 1},
		},
		{
			in:   "[LED] on toggles=5",
			want: Line{Kind: "LED", LEDOn: true, Toggles: 5},
		},
		{in: "[TRACE] === Trace Ring Dump ===", wantErr: true},
		{in: "[LED] dim toggles=1", wantErr: true},
		{in: "[TRACE] TOGGLE pin=x", wantErr: true},
		{in: "booting", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLine(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLine(%q): expected an error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLine(%q) failed: %v", tt.in, err)
			continue
		}
		got.Raw = ""
		if got != tt.want {
			t.Errorf("ParseLine(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestReadLines(t *testing.T) {
	console := "boot\n[LED] on toggles=1\n[TRACE] TOGGLE pin=1 seq=4 v1=0x00000002 v2=1\n"

	var kinds []string
	other := 0
	err := ReadLines(strings.NewReader(console), func(l Line, err error) {
		if errors.Is(err, ErrNotTrace) {
			other++
			return
		}
		kinds = append(kinds, l.Kind)
	})
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}
	if other != 1 || len(kinds) != 2 || kinds[0] != "LED" || kinds[1] != "TOGGLE" {
		t.Errorf("unexpected result: other=%d kinds=%v", other, kinds)
	}
}
