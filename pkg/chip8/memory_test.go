package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestMemoryFontPreload(t *testing.T) {
	m := NewMemory()

	// Glyph 0 starts at 0x000, glyph F at 0x4B; each is 5 bytes.
	zero, err := m.Slice(0, GlyphSize)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}, zero)

	f, err := m.Slice(0xF*GlyphSize, 0xF*GlyphSize+GlyphSize)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x80, 0xF0, 0x80, 0x80}, f)
}

func TestMemoryLoadStore(t *testing.T) {
	m := NewMemory()

	assert.NoError(t, m.Store(0x200, 0xAB))
	v, err := m.Load(0x200)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAB), v)

	_, err = m.Load(0x1000)
	assert.True(t, errors.Is(err, ErrAddressRange))
}

// Writes below 0x200 or at/after 0x1000 must fail without mutating state.
func TestMemoryStoreProtected(t *testing.T) {
	m := NewMemory()

	err := m.Store(0x000, 0xFF)
	assert.True(t, errors.Is(err, ErrProtectedWrite))
	err = m.Store(0x1FF, 0xFF)
	assert.True(t, errors.Is(err, ErrProtectedWrite))
	err = m.Store(0x1000, 0xFF)
	assert.True(t, errors.Is(err, ErrAddressRange))

	// The font byte at 0x000 must be untouched.
	v, err := m.Load(0x000)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xF0), v)
}

func TestMemoryStackRoundTrip(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, 0, m.StackDepth())

	assert.NoError(t, m.Push(0x234))
	assert.NoError(t, m.Push(0xFFE))
	assert.Equal(t, 2, m.StackDepth())

	addr, err := m.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFFE), addr)
	addr, err = m.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x234), addr)
	assert.Equal(t, 0, m.StackDepth())
}

func TestMemoryStackInvalidAddress(t *testing.T) {
	m := NewMemory()

	err := m.Push(0x1FF)
	assert.True(t, errors.Is(err, ErrInvalidReturn))
	err = m.Push(0x1000)
	assert.True(t, errors.Is(err, ErrInvalidReturn))
	assert.Equal(t, 0, m.StackDepth())
}

// Filling the stack up to the protected boundary fails cleanly and leaves
// the earlier entries intact.
func TestMemoryStackOverflow(t *testing.T) {
	m := NewMemory()

	// The pointer may never reach the program region, so the slot ending
	// exactly at the boundary is unusable.
	const capacity = (stackLimit-stackBase)/2 - 1 // 215 frames
	for i := 0; i < capacity; i++ {
		if err := m.Push(0x200 + uint16(i)); err != nil {
			t.Fatalf("push %d failed: %v", i, err)
		}
	}
	err := m.Push(0x200)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, capacity, m.StackDepth())

	// The most recent valid entry survived the failed push.
	addr, err := m.Pop()
	assert.NoError(t, err)
	assert.Equal(t, 0x200+uint16(capacity-1), addr)
}

func TestMemoryPopEmpty(t *testing.T) {
	m := NewMemory()
	_, err := m.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	// Popping past empty after a round trip fails the same way.
	assert.NoError(t, m.Push(0x300))
	_, err = m.Pop()
	assert.NoError(t, err)
	_, err = m.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestMemoryLoadProgram(t *testing.T) {
	m := NewMemory()

	assert.NoError(t, m.LoadProgram([]byte{0x6A, 0x05, 0x7A, 0x03}))
	v, err := m.Load(0x203)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x03), v)

	// A maximum-size program fits exactly.
	assert.NoError(t, m.LoadProgram(make([]byte, MemorySize-ProgramStart)))
	err = m.LoadProgram(make([]byte, MemorySize-ProgramStart+1))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
}

func TestMemorySliceBounds(t *testing.T) {
	m := NewMemory()

	_, err := m.Slice(0xFFE, 0x1000)
	assert.NoError(t, err)
	_, err = m.Slice(0xFFF, 0x1001)
	assert.True(t, errors.Is(err, ErrAddressRange))
	_, err = m.Slice(0x300, 0x200)
	assert.True(t, errors.Is(err, ErrAddressRange))
}
