package chip8

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// MemorySize is the full address space: [0x000, 0x1000).
	MemorySize = 0x1000
	// ProgramStart is the first address of the writable program region.
	ProgramStart = 0x200
	// GlyphSize is the number of bytes per built-in font glyph.
	GlyphSize = 5

	// The call stack occupies the gap between the font data and the
	// program region. The pointer starts at stackBase and grows upward;
	// a push that would reach stackLimit fails. Capacity: 215 frames.
	stackBase  = 0x050
	stackLimit = ProgramStart
)

var (
	ErrAddressRange    = errors.New("address out of range")
	ErrProtectedWrite  = errors.New("write to protected memory")
	ErrStackOverflow   = errors.New("call stack overflow")
	ErrStackUnderflow  = errors.New("call stack empty")
	ErrInvalidReturn   = errors.New("return address outside program region")
	ErrProgramTooLarge = errors.New("program does not fit in memory")
)

// fontSprites holds the glyphs for the hexadecimal digits 0-F. Each glyph is
// 5 rows of 8 pixels; only the high nibble of each row is used.
var fontSprites = [16][GlyphSize]byte{
	{0xF0, 0x90, 0x90, 0x90, 0xF0}, // 0
	{0x20, 0x60, 0x20, 0x20, 0x70}, // 1
	{0xF0, 0x10, 0xF0, 0x80, 0xF0}, // 2
	{0xF0, 0x10, 0xF0, 0x10, 0xF0}, // 3
	{0x90, 0x90, 0xF0, 0x10, 0x10}, // 4
	{0xF0, 0x80, 0xF0, 0x10, 0xF0}, // 5
	{0xF0, 0x80, 0xF0, 0x90, 0xF0}, // 6
	{0xF0, 0x10, 0x20, 0x40, 0x40}, // 7
	{0xF0, 0x90, 0xF0, 0x90, 0xF0}, // 8
	{0xF0, 0x90, 0xF0, 0x10, 0xF0}, // 9
	{0xF0, 0x90, 0xF0, 0x90, 0x90}, // A
	{0xE0, 0x90, 0xE0, 0x90, 0xE0}, // B
	{0xF0, 0x80, 0x80, 0x80, 0xF0}, // C
	{0xE0, 0x90, 0x90, 0x90, 0xE0}, // D
	{0xF0, 0x80, 0xF0, 0x80, 0xF0}, // E
	{0xF0, 0x80, 0xF0, 0x80, 0x80}, // F
}

// Memory is the 4096-byte address space: font data in [0x000, 0x050), the
// call stack in [0x050, 0x200) and the program region in [0x200, 0x1000).
// Writes below ProgramStart go through Push only, so the stack can never
// alias font or program bytes.
type Memory struct {
	data [MemorySize]byte
	sp   uint16
}

// NewMemory returns a memory with the font preloaded, the program region
// zeroed and the stack pointer at its base.
func NewMemory() *Memory {
	m := &Memory{sp: stackBase}
	for i, sprite := range fontSprites {
		copy(m.data[i*GlyphSize:], sprite[:])
	}
	return m
}

// Load reads one byte from addr.
func (m *Memory) Load(addr uint16) (byte, error) {
	if addr >= MemorySize {
		return 0, fmt.Errorf("load %#04x: %w", addr, ErrAddressRange)
	}
	return m.data[addr], nil
}

// Store writes one byte to addr. Writes to the protected low region or past
// the end of the address space fail without mutating anything.
func (m *Memory) Store(addr uint16, value byte) error {
	if addr >= MemorySize {
		return fmt.Errorf("store %#04x: %w", addr, ErrAddressRange)
	}
	if addr < ProgramStart {
		return fmt.Errorf("store %#04x: %w", addr, ErrProtectedWrite)
	}
	m.data[addr] = value
	return nil
}

// Push saves a return address on the call stack. Only addresses inside the
// program region are valid return targets.
func (m *Memory) Push(addr uint16) error {
	if addr < ProgramStart || addr >= MemorySize {
		return fmt.Errorf("push %#04x: %w", addr, ErrInvalidReturn)
	}
	if m.sp+2 >= stackLimit {
		return fmt.Errorf("push %#04x: %w", addr, ErrStackOverflow)
	}
	binary.BigEndian.PutUint16(m.data[m.sp:], addr)
	m.sp += 2
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (m *Memory) Pop() (uint16, error) {
	if m.sp == stackBase {
		return 0, ErrStackUnderflow
	}
	m.sp -= 2
	return binary.BigEndian.Uint16(m.data[m.sp:]), nil
}

// StackDepth reports the number of return addresses currently on the stack.
func (m *Memory) StackDepth() int {
	return int(m.sp-stackBase) / 2
}

// Slice returns a read-only view of [start, end). Reads may cover the whole
// address space, so sprite fetches can reach the font glyphs.
func (m *Memory) Slice(start, end uint16) ([]byte, error) {
	if start > end || end > MemorySize {
		return nil, fmt.Errorf("slice [%#04x, %#04x): %w", start, end, ErrAddressRange)
	}
	return m.data[start:end], nil
}

// LoadProgram copies program bytes into the program region starting at
// ProgramStart.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MemorySize-ProgramStart {
		return fmt.Errorf("%d bytes: %w", len(program), ErrProgramTooLarge)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}
