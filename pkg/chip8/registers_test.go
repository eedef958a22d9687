package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRegistersGetSet(t *testing.T) {
	r := &Registers{}

	assert.NoError(t, r.Set(0, 0x12))
	assert.NoError(t, r.Set(VF, 0x34))
	v, err := r.Get(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x12), v)
	v, err = r.Get(VF)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x34), v)

	_, err = r.Get(16)
	assert.True(t, errors.Is(err, ErrRegisterRange))
	err = r.Set(16, 0)
	assert.True(t, errors.Is(err, ErrRegisterRange))
}

func TestRegistersAddress(t *testing.T) {
	r := &Registers{}
	r.SetAddress(0x0FFF)
	assert.Equal(t, uint16(0x0FFF), r.Address())
}

func TestRegistersTick(t *testing.T) {
	r := &Registers{}
	r.SetDelay(2)
	r.SetSound(1)

	r.Tick()
	assert.Equal(t, byte(1), r.Delay())
	assert.Equal(t, byte(0), r.Sound())

	r.Tick()
	assert.Equal(t, byte(0), r.Delay())

	// Ticking timers already at zero leaves them at zero.
	for i := 0; i < 10; i++ {
		r.Tick()
	}
	assert.Equal(t, byte(0), r.Delay())
	assert.Equal(t, byte(0), r.Sound())
}
