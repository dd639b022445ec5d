// GPIO register model
// A direction word and an output word, one bit per pin, accessed through
// named per-pin helpers instead of hand-written shifts.
package core

import "sync/atomic"

// RegisterWidth is the number of pins a single register word covers
const RegisterWidth = 32

// Register is a word-sized bit-mapped GPIO register.
// Every access is a single atomic word operation so the output word can be
// observed from another goroutine (monitor, tests) while the loop drives it.
type Register struct {
	word uint32
}

// mask returns the bit for pin. Callers validate pin < RegisterWidth up front.
func mask(pin GPIOPin) uint32 {
	return 1 << (pin & (RegisterWidth - 1))
}

// Load returns the whole register word
func (r *Register) Load() uint32 {
	return atomic.LoadUint32(&r.word)
}

// Store overwrites the whole register word
func (r *Register) Store(v uint32) {
	atomic.StoreUint32(&r.word, v)
}

// Bit reports whether the bit for pin is set
func (r *Register) Bit(pin GPIOPin) bool {
	return r.Load()&mask(pin) != 0
}

// Set sets the bit for pin, leaving all other bits unchanged
func (r *Register) Set(pin GPIOPin) {
	r.update(func(v uint32) uint32 { return v | mask(pin) })
}

// Clear clears the bit for pin, leaving all other bits unchanged
func (r *Register) Clear(pin GPIOPin) {
	r.update(func(v uint32) uint32 { return v &^ mask(pin) })
}

// Toggle inverts the bit for pin and returns its new value
func (r *Register) Toggle(pin GPIOPin) bool {
	v := r.update(func(v uint32) uint32 { return v ^ mask(pin) })
	return v&mask(pin) != 0
}

// update applies fn as a read-modify-write and returns the stored value
func (r *Register) update(fn func(uint32) uint32) uint32 {
	for {
		old := atomic.LoadUint32(&r.word)
		v := fn(old)
		if atomic.CompareAndSwapUint32(&r.word, old, v) {
			return v
		}
	}
}

// Registers is the GPIO block: pin direction and driven output level
type Registers struct {
	Dir Register // 1 = output, 0 = input
	Out Register // driven level of output pins
}

// SetOutput configures pin as an output
func (g *Registers) SetOutput(pin GPIOPin) {
	g.Dir.Set(pin)
}

// SetInput configures pin as an input
func (g *Registers) SetInput(pin GPIOPin) {
	g.Dir.Clear(pin)
}

// IsOutput reports whether pin is configured as an output
func (g *Registers) IsOutput(pin GPIOPin) bool {
	return g.Dir.Bit(pin)
}

// Level returns the driven level of pin
func (g *Registers) Level(pin GPIOPin) bool {
	return g.Out.Bit(pin)
}

// Drive sets the driven level of pin
func (g *Registers) Drive(pin GPIOPin, level bool) {
	if level {
		g.Out.Set(pin)
	} else {
		g.Out.Clear(pin)
	}
}

// ToggleOutput inverts the driven level of pin and returns the new level
func (g *Registers) ToggleOutput(pin GPIOPin) bool {
	return g.Out.Toggle(pin)
}
