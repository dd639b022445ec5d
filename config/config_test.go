package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"buttonled/core"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ButtonPin != 0 || cfg.LEDPin != 1 {
		t.Errorf("expected button 0 / LED 1, got %d / %d", cfg.ButtonPin, cfg.LEDPin)
	}
	if cfg.Policy != "coalesce" || cfg.Backend != BackendSim || cfg.Pull != PullUp {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	data := []byte(`{
		"button_pin": 17,
		"led_pin": 0,
		"pull": "",
		"edge": "both",
		"policy": "count",
		"idle_us": 0,
		"backend": "gpiocdev",
		"chip": "gpiochip4"
	}`)
	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ButtonPin != 17 || cfg.LEDPin != 0 {
		t.Errorf("pins not applied: %+v", cfg)
	}
	if cfg.Pull != PullUp {
		t.Errorf("empty pull should fall back to %q, got %q", PullUp, cfg.Pull)
	}
	if cfg.Chip != "gpiochip4" || cfg.Edge != EdgeBoth {
		t.Errorf("unexpected config: %+v", cfg)
	}

	lc, err := cfg.LoopConfig(nil)
	if err != nil {
		t.Fatalf("LoopConfig failed: %v", err)
	}
	if lc.Policy != core.PolicyCount {
		t.Errorf("expected count policy, got %v", lc.Policy)
	}
	if lc.Idle != nil {
		t.Error("idle_us 0 should busy-poll")
	}
	if lc.ButtonPin != 17 || lc.LEDPin != 0 || lc.ButtonPull != core.PullUp {
		t.Errorf("unexpected loop config: %+v", lc)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"same pins", `{"button_pin": 3, "led_pin": 3}`},
		{"pin out of range", `{"led_pin": 32}`},
		{"bad pull", `{"pull": "sideways"}`},
		{"bad edge", `{"edge": "level"}`},
		{"bad policy", `{"policy": "queue"}`},
		{"bad backend", `{"backend": "sysfs"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.json))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadConfigSyntaxError(t *testing.T) {
	if _, err := LoadConfig([]byte(`{"led_pin":`)); err == nil {
		t.Error("expected a JSON syntax error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buttonled.json")
	if err := os.WriteFile(path, []byte(`{"led_pin": 25, "idle_us": 500}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.LEDPin != 25 {
		t.Errorf("expected LED pin 25, got %d", cfg.LEDPin)
	}
	if cfg.IdleInterval().Microseconds() != 500 {
		t.Errorf("expected 500us idle, got %v", cfg.IdleInterval())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
