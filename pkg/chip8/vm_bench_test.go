package chip8

import "testing"

// newLoopVM builds a VM running a tight add-and-jump loop, which exercises
// fetch, decode, ALU execute and both advance paths.
func newLoopVM() *VM {
	vm := New()
	_ = vm.LoadProgram([]byte{
		0x70, 0x01, // 0x200: V0 += 1
		0x12, 0x00, // 0x202: jump 0x200
	})
	return vm
}

// BenchmarkStep measures raw fetch/decode/execute dispatch throughput.
func BenchmarkStep(b *testing.B) {
	vm := newLoopVM()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vm.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecode measures the decoder alone across the opcode families.
func BenchmarkDecode(b *testing.B) {
	opcodes := []uint16{0x00E0, 0x1234, 0x2ABC, 0x6A05, 0x8014, 0xA123, 0xD015, 0xF129}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(opcodes[i%len(opcodes)])
	}
}
