package chip8

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/retroenv/retrogolib/log"
)

const (
	// ScreenWidth and ScreenHeight are the dimensions of the host display
	// surface in pixels.
	ScreenWidth  = 64
	ScreenHeight = 32
)

// ErrProgramEnd is returned by Step when the program counter has run past
// the last fetchable address. It is recoverable; the host decides whether to
// stop the run.
var ErrProgramEnd = errors.New("program counter ran past end of memory")

// Display is the host-owned pixel surface. The core emits one 8-pixel row
// per call; the host XORs it onto its buffer and reports whether any set
// pixel was cleared. Coordinates are already wrapped to the screen size.
type Display interface {
	DrawRow(x, y int, bits byte) bool
	Clear()
}

// Keypad reports the state of the 16-key hexadecimal keypad.
type Keypad interface {
	// Pressed reports whether the given 4-bit key is currently held.
	Pressed(key byte) bool
	// Any returns a currently held key, if there is one.
	Any() (byte, bool)
}

// VM drives fetch, decode, execute and advance over its own memory and
// register file. Step and Tick are the two independent clocks: the host
// calls Step as fast as it likes and Tick at a steady 60 Hz.
//
// Display, Keypad, Rand and Log are host hooks; all are optional. A nil
// Display turns draw instructions into no-ops, a nil Keypad reports no keys
// held, a nil Rand falls back to math/rand.
type VM struct {
	Display Display
	Keypad  Keypad
	Rand    func() byte
	Log     *log.Logger

	mem     *Memory
	regs    *Registers
	pc      uint16
	waitReg int // register awaiting a key press, -1 when none
}

// New returns a VM with the font preloaded, an empty stack and the program
// counter at ProgramStart.
func New() *VM {
	return &VM{
		mem:     NewMemory(),
		regs:    &Registers{},
		pc:      ProgramStart,
		waitReg: -1,
	}
}

// Memory returns the VM's memory.
func (vm *VM) Memory() *Memory {
	return vm.mem
}

// Registers returns the VM's register file.
func (vm *VM) Registers() *Registers {
	return vm.regs
}

// PC returns the current program counter.
func (vm *VM) PC() uint16 {
	return vm.pc
}

// Waiting reports whether the VM is suspended on a key-wait instruction.
func (vm *VM) Waiting() bool {
	return vm.waitReg >= 0
}

// LoadProgram copies program bytes into the program region. The host calls
// it once before the first Step.
func (vm *VM) LoadProgram(program []byte) error {
	return vm.mem.LoadProgram(program)
}

// Tick decrements both timers, floored at zero.
func (vm *VM) Tick() {
	vm.regs.Tick()
}

// Step executes one instruction: fetch at the program counter, decode,
// execute, advance. While suspended on a key wait it polls the keypad and
// consumes no cycle until a key is down.
//
// Errors are values, never panics: a fetch past the end of memory returns
// ErrProgramEnd, and a memory or stack failure mid-instruction aborts that
// instruction's side effect, leaves the program counter on the failed
// instruction and returns the failure. The rest of the state stays intact
// and later Step calls remain valid.
func (vm *VM) Step() error {
	if vm.waitReg >= 0 {
		key, ok := vm.keyDown()
		if !ok {
			return nil
		}
		vm.regs.v[vm.waitReg] = key
		vm.waitReg = -1
		return nil
	}

	if vm.pc >= MemorySize-1 {
		return fmt.Errorf("fetch at %#04x: %w", vm.pc, ErrProgramEnd)
	}
	word, err := vm.mem.Slice(vm.pc, vm.pc+2)
	if err != nil {
		return fmt.Errorf("fetch at %#04x: %w", vm.pc, err)
	}
	in := Decode(binary.BigEndian.Uint16(word))

	// Straight-line and skip instructions fall through to the generic +2
	// advance; jump, call and return set next directly.
	next := vm.pc + 2

	switch in.Op {
	case OpSysCall:
		if vm.Log != nil {
			vm.Log.Debug("ignored system call", log.Uint16("addr", in.Addr))
		}

	case OpNoop:

	case OpClearScreen:
		if vm.Display != nil {
			vm.Display.Clear()
		}

	case OpReturn:
		addr, err := vm.mem.Pop()
		if err != nil {
			return fmt.Errorf("return at %#04x: %w", vm.pc, err)
		}
		next = addr

	case OpJump:
		next = in.Addr

	case OpCall:
		if err := vm.mem.Push(vm.pc + 2); err != nil {
			return fmt.Errorf("call at %#04x: %w", vm.pc, err)
		}
		next = in.Addr

	case OpSkipEqualByte:
		if vm.regs.v[in.X] == in.Byte {
			next += 2
		}

	case OpSkipNotEqualByte:
		if vm.regs.v[in.X] != in.Byte {
			next += 2
		}

	case OpSkipEqual:
		if vm.regs.v[in.X] == vm.regs.v[in.Y] {
			next += 2
		}

	case OpLoadByte:
		vm.regs.v[in.X] = in.Byte

	case OpAddByte:
		vm.regs.v[in.X] += in.Byte

	case OpLoad:
		vm.regs.v[in.X] = vm.regs.v[in.Y]

	case OpOr:
		vm.regs.v[in.X] |= vm.regs.v[in.Y]

	case OpAnd:
		vm.regs.v[in.X] &= vm.regs.v[in.Y]

	case OpXor:
		vm.regs.v[in.X] ^= vm.regs.v[in.Y]

	case OpAdd:
		sum := uint16(vm.regs.v[in.X]) + uint16(vm.regs.v[in.Y])
		vm.regs.v[in.X] = byte(sum)
		vm.regs.v[VF] = flag(sum > 0xFF)

	case OpSub:
		x, y := vm.regs.v[in.X], vm.regs.v[in.Y]
		vm.regs.v[in.X] = x - y
		vm.regs.v[VF] = flag(x >= y) // 1 when no borrow occurred

	case OpSubInverted:
		x, y := vm.regs.v[in.X], vm.regs.v[in.Y]
		vm.regs.v[in.X] = y - x
		vm.regs.v[VF] = flag(y >= x)

	case OpShiftRight:
		bit := vm.regs.v[in.X] & 0x01
		vm.regs.v[in.X] >>= 1
		vm.regs.v[VF] = bit

	case OpShiftLeft:
		bit := vm.regs.v[in.X] >> 7
		vm.regs.v[in.X] <<= 1
		vm.regs.v[VF] = bit

	case OpSkipNotEqual:
		if vm.regs.v[in.X] != vm.regs.v[in.Y] {
			next += 2
		}

	case OpLoadAddress:
		vm.regs.i = in.Addr

	case OpJumpOffset:
		next = in.Addr + uint16(vm.regs.v[0])

	case OpRandom:
		vm.regs.v[in.X] = vm.randByte() & in.Byte

	case OpDraw:
		if err := vm.draw(in); err != nil {
			return err
		}

	case OpSkipPressed:
		if vm.keyPressed(vm.regs.v[in.X]) {
			next += 2
		}

	case OpSkipNotPressed:
		if !vm.keyPressed(vm.regs.v[in.X]) {
			next += 2
		}

	case OpLoadFromDelay:
		vm.regs.v[in.X] = vm.regs.delay

	case OpWaitKey:
		vm.waitReg = int(in.X)

	case OpLoadDelay:
		vm.regs.delay = vm.regs.v[in.X]

	case OpLoadSound:
		vm.regs.sound = vm.regs.v[in.X]

	case OpAddAddress:
		vm.regs.i += uint16(vm.regs.v[in.X])

	case OpSpriteAddress:
		vm.regs.i = uint16(vm.regs.v[in.X]&0xF) * GlyphSize
	}

	vm.pc = next
	return nil
}

// draw renders an 8×N sprite read from memory at the I register. The origin
// is wrapped to the screen size at draw time, each row wraps independently,
// and VF reports whether any previously set pixel was cleared by the XOR.
func (vm *VM) draw(in Instruction) error {
	rows, err := vm.mem.Slice(vm.regs.i, vm.regs.i+uint16(in.N))
	if err != nil {
		return fmt.Errorf("draw sprite at I=%#04x: %w", vm.regs.i, err)
	}
	x := int(vm.regs.v[in.X]) % ScreenWidth
	y := int(vm.regs.v[in.Y]) % ScreenHeight

	collision := false
	if vm.Display != nil {
		for i, bits := range rows {
			if vm.Display.DrawRow(x, (y+i)%ScreenHeight, bits) {
				collision = true
			}
		}
	}
	vm.regs.v[VF] = flag(collision)
	return nil
}

func (vm *VM) keyPressed(key byte) bool {
	return vm.Keypad != nil && vm.Keypad.Pressed(key&0xF)
}

func (vm *VM) keyDown() (byte, bool) {
	if vm.Keypad == nil {
		return 0, false
	}
	return vm.Keypad.Any()
}

func (vm *VM) randByte() byte {
	if vm.Rand != nil {
		return vm.Rand()
	}
	return byte(rand.Uint64())
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}
