// Package beeper plays the single square-wave tone the sound timer asks for.
package beeper

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const toneHz = 440

// Beeper produces a square wave while active and silence otherwise. The oto
// player pulls samples from Read on its own goroutine, so the host only
// flips the gate from its frame loop.
type Beeper struct {
	player     *oto.Player
	sampleRate int
	active     atomic.Bool
	phase      int
}

// New opens the audio device and starts a player that reads from the beeper.
func New(sampleRate int) (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &Beeper{sampleRate: sampleRate}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b, nil
}

// SetActive opens or closes the tone gate. Hosts call it once per frame with
// "sound timer > 0".
func (b *Beeper) SetActive(on bool) {
	b.active.Store(on)
}

// Read fills p with float32 LE samples. Called by the oto player goroutine.
func (b *Beeper) Read(p []byte) (int, error) {
	halfPeriod := b.sampleRate / (toneHz * 2)
	on := b.active.Load()
	n := len(p) / 4
	for i := 0; i < n; i++ {
		var s float32
		if on {
			if (b.phase/halfPeriod)%2 == 0 {
				s = 0.25
			} else {
				s = -0.25
			}
		}
		b.phase++
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}

// Close stops playback.
func (b *Beeper) Close() error {
	return b.player.Close()
}
