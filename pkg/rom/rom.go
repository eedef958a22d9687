// Package rom loads CHIP-8 ROM images for the hosts.
package rom

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"gochip8/pkg/chip8"
)

// MaxSize is the largest ROM that fits the program region.
const MaxSize = chip8.MemorySize - chip8.ProgramStart

var (
	ErrEmpty    = errors.New("rom image is empty")
	ErrTooLarge = errors.New("rom image does not fit the program region")
)

// Load reads a ROM image from the given filesystem and validates that it
// fits the program region. The core does not parse program content beyond
// per-instruction decode, so no further validation happens here.
func Load(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read rom: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%s: %d bytes: %w", path, len(data), ErrTooLarge)
	}
	return data, nil
}
