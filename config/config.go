package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"buttonled/core"
)

// Accepted values for the string-typed settings
const (
	PullUp   = "up"
	PullDown = "down"
	PullNone = "none"

	EdgeRising  = "rising"
	EdgeFalling = "falling"
	EdgeBoth    = "both"

	BackendSim      = "sim"
	BackendPeriph   = "periph"
	BackendGPIOCdev = "gpiocdev"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config describes the button/LED wiring and how the loop runs
type Config struct {
	ButtonPin  uint32 `json:"button_pin"` // GPIO number of the button
	LEDPin     uint32 `json:"led_pin"`    // GPIO number of the LED
	Pull       string `json:"pull"`       // bias on the button input: up, down, none
	Edge       string `json:"edge"`       // button edge that raises the signal: rising, falling, both
	Policy     string `json:"policy"`     // pending policy: coalesce, count
	IdleMicros uint32 `json:"idle_us"`    // sleep between idle iterations; 0 busy-polls
	Backend    string `json:"backend"`    // host GPIO backend: sim, periph, gpiocdev
	Chip       string `json:"chip"`       // gpiocdev chip name
	Debug      bool   `json:"debug"`      // print LED transitions
}

// Default returns the stock wiring: button on GPIO0, LED on GPIO1
func Default() *Config {
	return &Config{
		ButtonPin:  uint32(core.DefaultButtonPin),
		LEDPin:     uint32(core.DefaultLEDPin),
		Pull:       PullUp,
		Edge:       EdgeFalling,
		Policy:     core.PolicyCoalesce.String(),
		IdleMicros: 1000,
		Backend:    BackendSim,
		Chip:       "gpiochip0",
	}
}

// LoadConfig parses a JSON configuration on top of Default
func LoadConfig(jsonData []byte) (*Config, error) {
	config := Default()

	if err := json.Unmarshal(jsonData, config); err != nil {
		return nil, err
	}

	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile reads and parses a JSON configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	config, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// applyDefaults fills in settings given explicitly as empty strings
func applyDefaults(config *Config) {
	d := Default()
	if config.Pull == "" {
		config.Pull = d.Pull
	}
	if config.Edge == "" {
		config.Edge = d.Edge
	}
	if config.Policy == "" {
		config.Policy = d.Policy
	}
	if config.Backend == "" {
		config.Backend = d.Backend
	}
	if config.Chip == "" {
		config.Chip = d.Chip
	}
}

// Validate checks pins and enumerated settings
func (c *Config) Validate() error {
	if err := core.ValidatePins(core.GPIOPin(c.ButtonPin), core.GPIOPin(c.LEDPin)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.PullValue(); err != nil {
		return err
	}
	if _, err := c.PolicyValue(); err != nil {
		return err
	}
	switch c.Edge {
	case EdgeRising, EdgeFalling, EdgeBoth:
	default:
		return fmt.Errorf("%w: edge %q", ErrInvalid, c.Edge)
	}
	switch c.Backend {
	case BackendSim, BackendPeriph, BackendGPIOCdev:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	return nil
}

// PullValue maps the pull setting to the HAL bias
func (c *Config) PullValue() (core.Pull, error) {
	switch c.Pull {
	case PullUp:
		return core.PullUp, nil
	case PullDown:
		return core.PullDown, nil
	case PullNone:
		return core.PullNone, nil
	default:
		return core.PullNone, fmt.Errorf("%w: pull %q", ErrInvalid, c.Pull)
	}
}

// PolicyValue maps the policy setting to the signal policy
func (c *Config) PolicyValue() (core.Policy, error) {
	switch c.Policy {
	case core.PolicyCoalesce.String():
		return core.PolicyCoalesce, nil
	case core.PolicyCount.String():
		return core.PolicyCount, nil
	default:
		return core.PolicyCoalesce, fmt.Errorf("%w: policy %q", ErrInvalid, c.Policy)
	}
}

// IdleInterval returns the idle sleep as a duration
func (c *Config) IdleInterval() time.Duration {
	return time.Duration(c.IdleMicros) * time.Microsecond
}

// LoopConfig builds the event loop wiring for driver. The idle hook sleeps
// for IdleInterval, or is left nil when that is zero.
func (c *Config) LoopConfig(driver core.GPIODriver) (core.LoopConfig, error) {
	if err := c.Validate(); err != nil {
		return core.LoopConfig{}, err
	}
	pull, _ := c.PullValue()
	policy, _ := c.PolicyValue()

	lc := core.LoopConfig{
		Policy:     policy,
		Driver:     driver,
		ButtonPin:  core.GPIOPin(c.ButtonPin),
		LEDPin:     core.GPIOPin(c.LEDPin),
		ButtonPull: pull,
	}
	if idle := c.IdleInterval(); idle > 0 {
		lc.Idle = func() { time.Sleep(idle) }
	}
	return lc, nil
}
