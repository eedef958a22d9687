// Console host: renders the VM's framebuffer in a terminal with tcell.
// Terminals deliver no key-up events, so a key counts as held for a short
// window after its press and is released by time.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"

	"gochip8/pkg/chip8"
	"gochip8/pkg/display"
	"gochip8/pkg/rom"
)

// keyHold is how long a terminal key press counts as held.
const keyHold = 100 * time.Millisecond

// runeToHex maps the conventional keyboard layout to the 16 CHIP-8 keys.
var runeToHex = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// keypad tracks the press time of each key; a key is held while its press is
// younger than keyHold.
type keypad struct {
	mu      sync.Mutex
	pressed [16]time.Time
}

func (k *keypad) press(key byte) {
	k.mu.Lock()
	k.pressed[key&0xF] = time.Now()
	k.mu.Unlock()
}

func (k *keypad) Pressed(key byte) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return time.Since(k.pressed[key&0xF]) < keyHold
}

func (k *keypad) Any() (byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key, at := range k.pressed {
		if !at.IsZero() && time.Since(at) < keyHold {
			return byte(key), true
		}
	}
	return 0, false
}

func main() {
	cycles := flag.Int("cycles", 10, "instruction steps per 60 Hz frame")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := newLogger(*debug)
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] rom.ch8\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, flag.Arg(0), *cycles, *debug); err != nil {
		logger.Fatal("run failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, romPath string, cycles int, debug bool) error {
	program, err := rom.Load(afero.NewOsFs(), romPath)
	if err != nil {
		return err
	}

	buf := display.New()
	keys := &keypad{}
	vm := chip8.New()
	vm.Display = buf
	vm.Keypad = keys
	if debug {
		vm.Log = logger
	}
	if err := vm.LoadProgram(program); err != nil {
		return err
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()
	screen.Clear()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Key events arrive on their own goroutine; Escape quits.
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					cancel()
					return
				}
				if ev.Key() == tcell.KeyRune {
					if key, ok := runeToHex[ev.Rune()]; ok {
						keys.press(key)
					}
				}
			case *tcell.EventResize:
				screen.Sync()
			case nil:
				return
			}
		}
	}()

	frame := time.NewTicker(time.Second / 60)
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frame.C:
		}

		for i := 0; i < cycles; i++ {
			if err := vm.Step(); err != nil {
				if errors.Is(err, chip8.ErrProgramEnd) {
					logger.Info("program ended", log.Uint16("pc", vm.PC()))
					return nil
				}
				logger.Error("step failed", err)
			}
			if vm.Waiting() {
				break
			}
		}
		vm.Tick()
		render(screen, buf)
	}
}

func render(screen tcell.Screen, buf *display.Buffer) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			ch := ' '
			if buf.At(x, y) {
				ch = '█'
			}
			screen.SetContent(x, y, ch, nil, style)
		}
	}
	screen.Show()
}

func newLogger(debug bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}
