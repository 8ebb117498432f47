// Package audio plays the score chime on the local speaker.
//
// Audio is optional: when the speaker cannot be opened the Chime stays
// silent and the client runs without sound.
package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	speakerBuffer = 100 * time.Millisecond
	DefaultVolume = 0.5
)

// ErrNotInitialized is returned by Play before a successful Init
var ErrNotInitialized = errors.New("audio not initialized")

// Chime owns the speaker and a mixer that finished tones drain from
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
}

func NewChime(volume float64) *Chime {
	return &Chime{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the speaker; callers treat failure as "no sound"
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(speakerBuffer)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Play queues one chime
func (c *Chime) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.muted {
		return nil
	}
	tone, err := CoinTone(sampleRate, c.volume)
	if err != nil {
		return err
	}
	speaker.Lock()
	c.mixer.Add(tone)
	speaker.Unlock()
	return nil
}

// SetMuted toggles output without releasing the speaker
func (c *Chime) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()
}

func (c *Chime) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Close drops queued tones; the speaker stays open for the process lifetime
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}
