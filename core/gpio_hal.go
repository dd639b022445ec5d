package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// Pull selects the bias applied to an input pin
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInput configures a pin as a digital input with the given bias
	ConfigureInput(pin GPIOPin, pull Pull) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)
}

// Global singleton used when a loop is built without an explicit driver.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// currentGPIO returns the registered driver, or nil when running on the
// register model alone.
func currentGPIO() GPIODriver {
	return gpioDriver
}
