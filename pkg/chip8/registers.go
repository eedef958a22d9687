package chip8

import (
	"errors"
	"fmt"
)

const (
	// NumRegisters is the number of general purpose registers.
	NumRegisters = 16
	// VF is the flags register, written by arithmetic, shift and draw
	// instructions.
	VF = 0xF
)

var ErrRegisterRange = errors.New("register id out of range")

// Registers is the register file: 16 general 8-bit registers, the 16-bit
// address register I and the two countdown timers.
type Registers struct {
	v     [NumRegisters]byte
	i     uint16
	delay byte
	sound byte
}

// Get returns the value of general register id. The decoder only produces
// nibble-sized ids, so an out-of-range id is a caller bug; it is reported as
// an error rather than corrupting state.
func (r *Registers) Get(id byte) (byte, error) {
	if id >= NumRegisters {
		return 0, fmt.Errorf("register %d: %w", id, ErrRegisterRange)
	}
	return r.v[id], nil
}

// Set writes the value of general register id.
func (r *Registers) Set(id, value byte) error {
	if id >= NumRegisters {
		return fmt.Errorf("register %d: %w", id, ErrRegisterRange)
	}
	r.v[id] = value
	return nil
}

// Address returns the value of the I register.
func (r *Registers) Address() uint16 {
	return r.i
}

// SetAddress sets the I register.
func (r *Registers) SetAddress(value uint16) {
	r.i = value
}

// Delay returns the delay timer value.
func (r *Registers) Delay() byte {
	return r.delay
}

// SetDelay sets the delay timer.
func (r *Registers) SetDelay(value byte) {
	r.delay = value
}

// Sound returns the sound timer value.
func (r *Registers) Sound() byte {
	return r.sound
}

// SetSound sets the sound timer.
func (r *Registers) SetSound(value byte) {
	r.sound = value
}

// Tick decrements both timers, each floored at zero. The host calls it on a
// steady cadence (conventionally 60 Hz) independent of instruction stepping.
func (r *Registers) Tick() {
	if r.delay > 0 {
		r.delay--
	}
	if r.sound > 0 {
		r.sound--
	}
}
