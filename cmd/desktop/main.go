// Desktop host: an ebiten window driving the VM core. The frame loop runs a
// configurable number of instruction steps per 60 Hz frame and one timer
// tick, keeping the two clocks independent as the core requires.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/afero"
	"golang.org/x/image/font/basicfont"

	"gochip8/pkg/beeper"
	"gochip8/pkg/chip8"
	"gochip8/pkg/display"
	"gochip8/pkg/rom"
)

// hexToKey maps the 16 CHIP-8 keys to the conventional keyboard layout:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
var hexToKey = [16]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

// keypad reads key state straight from ebiten.
type keypad struct{}

func (keypad) Pressed(key byte) bool {
	return ebiten.IsKeyPressed(hexToKey[key&0xF])
}

func (keypad) Any() (byte, bool) {
	for k, key := range hexToKey {
		if ebiten.IsKeyPressed(key) {
			return byte(k), true
		}
	}
	return 0, false
}

type Game struct {
	vm     *chip8.VM
	screen *display.Buffer
	beep   *beeper.Beeper
	logger *log.Logger

	frame  *ebiten.Image // reused 64×32 texture
	cycles int
	scale  int
	paused bool
	halted bool
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused || g.halted {
		if g.beep != nil {
			g.beep.SetActive(false)
		}
		return nil
	}

	for i := 0; i < g.cycles; i++ {
		if err := g.vm.Step(); err != nil {
			if errors.Is(err, chip8.ErrProgramEnd) {
				g.logger.Info("program ended", log.Uint16("pc", g.vm.PC()))
				g.halted = true
				break
			}
			// Memory and stack faults are recoverable per call; report
			// them and keep stepping.
			g.logger.Error("step failed", err)
		}
		if g.vm.Waiting() {
			break
		}
	}

	// Timer tick rides the fixed 60 Hz update cadence.
	g.vm.Tick()

	if g.beep != nil {
		g.beep.SetActive(g.vm.Registers().Sound() > 0)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(display.Width, display.Height)
	}
	g.frame.WritePixels(g.screen.RGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.frame, op)

	if g.paused {
		text.Draw(screen, "PAUSED", basicfont.Face7x13, 4, 14, color.White)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.Width * g.scale, display.Height * g.scale
}

func main() {
	cycles := flag.Int("cycles", 10, "instruction steps per 60 Hz frame")
	scale := flag.Int("scale", 10, "window scale factor")
	mute := flag.Bool("mute", false, "disable the sound timer beep")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := newLogger(*debug)
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] rom.ch8\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	romPath := flag.Arg(0)

	program, err := rom.Load(afero.NewOsFs(), romPath)
	if err != nil {
		logger.Fatal("loading rom failed", log.Err(err))
	}

	buf := display.New()
	vm := chip8.New()
	vm.Display = buf
	vm.Keypad = keypad{}
	if *debug {
		vm.Log = logger
	}
	if err := vm.LoadProgram(program); err != nil {
		logger.Fatal("loading program failed", log.Err(err))
	}

	game := &Game{
		vm:     vm,
		screen: buf,
		logger: logger,
		cycles: *cycles,
		scale:  *scale,
	}
	if !*mute {
		beep, err := beeper.New(44100)
		if err != nil {
			logger.Error("audio unavailable, continuing muted", err)
		} else {
			game.beep = beep
			defer beep.Close()
		}
	}

	logger.Info("starting",
		log.String("rom", romPath),
		log.Int("bytes", len(program)),
		log.Int("cycles", *cycles))

	ebiten.SetWindowSize(display.Width**scale, display.Height**scale)
	ebiten.SetWindowTitle("CHIP-8")
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run failed", log.Err(err))
	}
}

func newLogger(debug bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}
