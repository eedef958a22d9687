// Package display provides the reference 64×32 single-bit framebuffer that
// hosts hand to the VM core as its display sink.
package display

// Width and Height match the core's screen dimensions.
const (
	Width  = 64
	Height = 32
)

// Buffer is a 64×32 grid of single-bit pixels. Sprites are combined with the
// existing pixels by XOR and wrap around both screen edges.
type Buffer struct {
	pix [Height][Width]bool
}

// New returns a cleared buffer.
func New() *Buffer {
	return &Buffer{}
}

// DrawRow XORs one 8-pixel sprite row onto the buffer, MSB first, starting
// at (x, y) and wrapping horizontally. It reports whether any previously set
// pixel was cleared.
func (b *Buffer) DrawRow(x, y int, bits byte) bool {
	y = ((y % Height) + Height) % Height
	collision := false
	for col := 0; col < 8; col++ {
		if bits&(0x80>>col) == 0 {
			continue
		}
		px := ((x+col)%Width + Width) % Width
		if b.pix[y][px] {
			collision = true
		}
		b.pix[y][px] = !b.pix[y][px]
	}
	return collision
}

// Clear turns every pixel off.
func (b *Buffer) Clear() {
	b.pix = [Height][Width]bool{}
}

// At reports whether the pixel at (x, y) is set.
func (b *Buffer) At(x, y int) bool {
	return b.pix[y][x]
}

// RGBA renders the buffer as a Width×Height RGBA8888 byte slice, white on
// black, ready for a host to upload as a texture.
func (b *Buffer) RGBA() []byte {
	pixels := make([]byte, Width*Height*4)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			idx := (y*Width + x) * 4
			var v byte
			if b.pix[y][x] {
				v = 0xFF
			}
			pixels[idx+0] = v
			pixels[idx+1] = v
			pixels[idx+2] = v
			pixels[idx+3] = 0xFF
		}
	}
	return pixels
}
