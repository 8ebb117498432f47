package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Two rising notes, B5 then E6
const (
	noteLowFreq   = 987.77
	noteHighFreq  = 1318.51
	noteLowLen    = 60 * time.Millisecond
	noteHighLen   = 140 * time.Millisecond
	noteAttack    = 5 * time.Millisecond
	noteLowFade   = 30 * time.Millisecond
	noteHighFade  = 100 * time.Millisecond
	chimeDuration = noteLowLen + noteHighLen
)

// fade shapes a finite stream with a linear attack and release
type fade struct {
	streamer beep.Streamer
	pos      int
	attack   int
	release  int
	total    int
}

func newFade(s beep.Streamer, total, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{
		streamer: beep.Take(rate.N(total), s),
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(total),
	}
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.streamer.Stream(samples)
	releaseStart := f.total - f.release
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.attack > 0 && f.pos < f.attack {
			vol = float64(f.pos) / float64(f.attack)
		}
		if f.release > 0 && f.pos >= releaseStart {
			vol = float64(f.total-f.pos) / float64(f.release)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// withVolume scales linearly; zero or less is silent since log2(0) is -Inf
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func note(freq float64, length, release time.Duration, rate beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return newFade(sine, length, noteAttack, release, rate), nil
}

// CoinTone builds the score chime at the given linear volume
func CoinTone(rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	low, err := note(noteLowFreq, noteLowLen, noteLowFade, rate)
	if err != nil {
		return nil, err
	}
	high, err := note(noteHighFreq, noteHighLen, noteHighFade, rate)
	if err != nil {
		return nil, err
	}
	return withVolume(beep.Seq(low, high), volume), nil
}
