package chip8

// Op identifies one decoded instruction variant.
type Op uint8

const (
	// OpSysCall is the legacy 0nnn machine-code call. Modern interpreters
	// ignore it; the engine treats it as a no-op.
	OpSysCall Op = iota
	// OpNoop is any bit pattern outside the defined opcode space, e.g. an
	// 8xy_ sub-opcode with an undefined low nibble. Decoding is total, so
	// malformed words resolve here instead of failing.
	OpNoop
	OpClearScreen      // 00E0
	OpReturn           // 00EE
	OpJump             // 1nnn
	OpCall             // 2nnn
	OpSkipEqualByte    // 3xkk
	OpSkipNotEqualByte // 4xkk
	OpSkipEqual        // 5xy0
	OpLoadByte         // 6xkk
	OpAddByte          // 7xkk, wrapping, no flag
	OpLoad             // 8xy0
	OpOr               // 8xy1
	OpAnd              // 8xy2
	OpXor              // 8xy3
	OpAdd              // 8xy4, carry into VF
	OpSub              // 8xy5, VF=1 when no borrow
	OpShiftRight       // 8xy6, pre-shift bit 0 into VF
	OpSubInverted      // 8xy7, Vx = Vy - Vx
	OpShiftLeft        // 8xyE, pre-shift bit 7 into VF
	OpSkipNotEqual     // 9xy0
	OpLoadAddress      // Annn
	OpJumpOffset       // Bnnn, target + V0
	OpRandom           // Cxkk
	OpDraw             // Dxyn
	OpSkipPressed      // Ex9E
	OpSkipNotPressed   // ExA1
	OpLoadFromDelay    // Fx07
	OpWaitKey          // Fx0A
	OpLoadDelay        // Fx15
	OpLoadSound        // Fx18
	OpAddAddress       // Fx1E
	OpSpriteAddress    // Fx29
)

// Instruction is one decoded opcode word. Only the fields relevant to the
// variant are populated; the rest stay zero.
type Instruction struct {
	Op   Op
	X    byte   // first register operand (second nibble of the word)
	Y    byte   // second register operand (third nibble)
	Byte byte   // immediate byte operand (low byte)
	Addr uint16 // 12-bit address operand
	N    byte   // sprite height (low nibble of Dxyn)
}

// Decode maps a 16-bit opcode word to exactly one instruction variant.
// It is total: every possible word decodes, undefined patterns resolve to
// OpSysCall (the 0nnn family) or OpNoop, never to an error.
func Decode(opcode uint16) Instruction {
	x := byte(opcode>>8) & 0xF
	y := byte(opcode>>4) & 0xF
	kk := byte(opcode)
	nnn := opcode & 0x0FFF

	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return Instruction{Op: OpClearScreen}
		case 0x00EE:
			return Instruction{Op: OpReturn}
		}
		return Instruction{Op: OpSysCall, Addr: nnn}
	case 0x1:
		return Instruction{Op: OpJump, Addr: nnn}
	case 0x2:
		return Instruction{Op: OpCall, Addr: nnn}
	case 0x3:
		return Instruction{Op: OpSkipEqualByte, X: x, Byte: kk}
	case 0x4:
		return Instruction{Op: OpSkipNotEqualByte, X: x, Byte: kk}
	case 0x5:
		if opcode&0xF == 0 {
			return Instruction{Op: OpSkipEqual, X: x, Y: y}
		}
	case 0x6:
		return Instruction{Op: OpLoadByte, X: x, Byte: kk}
	case 0x7:
		return Instruction{Op: OpAddByte, X: x, Byte: kk}
	case 0x8:
		switch opcode & 0xF {
		case 0x0:
			return Instruction{Op: OpLoad, X: x, Y: y}
		case 0x1:
			return Instruction{Op: OpOr, X: x, Y: y}
		case 0x2:
			return Instruction{Op: OpAnd, X: x, Y: y}
		case 0x3:
			return Instruction{Op: OpXor, X: x, Y: y}
		case 0x4:
			return Instruction{Op: OpAdd, X: x, Y: y}
		case 0x5:
			return Instruction{Op: OpSub, X: x, Y: y}
		case 0x6:
			return Instruction{Op: OpShiftRight, X: x, Y: y}
		case 0x7:
			return Instruction{Op: OpSubInverted, X: x, Y: y}
		case 0xE:
			return Instruction{Op: OpShiftLeft, X: x, Y: y}
		}
	case 0x9:
		if opcode&0xF == 0 {
			return Instruction{Op: OpSkipNotEqual, X: x, Y: y}
		}
	case 0xA:
		return Instruction{Op: OpLoadAddress, Addr: nnn}
	case 0xB:
		return Instruction{Op: OpJumpOffset, Addr: nnn}
	case 0xC:
		return Instruction{Op: OpRandom, X: x, Byte: kk}
	case 0xD:
		return Instruction{Op: OpDraw, X: x, Y: y, N: byte(opcode) & 0xF}
	case 0xE:
		switch kk {
		case 0x9E:
			return Instruction{Op: OpSkipPressed, X: x}
		case 0xA1:
			return Instruction{Op: OpSkipNotPressed, X: x}
		}
	case 0xF:
		switch kk {
		case 0x07:
			return Instruction{Op: OpLoadFromDelay, X: x}
		case 0x0A:
			return Instruction{Op: OpWaitKey, X: x}
		case 0x15:
			return Instruction{Op: OpLoadDelay, X: x}
		case 0x18:
			return Instruction{Op: OpLoadSound, X: x}
		case 0x1E:
			return Instruction{Op: OpAddAddress, X: x}
		case 0x29:
			return Instruction{Op: OpSpriteAddress, X: x}
		}
	}
	return Instruction{Op: OpNoop}
}
