package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
}

func TestCoinToneLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone, err := CoinTone(rate, 1)
	if err != nil {
		t.Fatal(err)
	}
	samples := drain(t, tone)
	want := rate.N(noteLowLen) + rate.N(noteHighLen)
	if len(samples) != want {
		t.Errorf("samples = %d, want %d", len(samples), want)
	}
	for i, s := range samples {
		if math.Abs(s[0]) > 1 || math.Abs(s[1]) > 1 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
	// Attack starts from silence
	if samples[0][0] != 0 {
		t.Errorf("first sample = %v", samples[0][0])
	}
}

func TestCoinToneSilentAtZeroVolume(t *testing.T) {
	tone, err := CoinTone(beep.SampleRate(22050), 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range drain(t, tone) {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("sample %d not silent: %v", i, s)
		}
	}
}

func TestFadeEnvelope(t *testing.T) {
	rate := beep.SampleRate(1000)
	ones := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	// 100 samples: 10 attack, 20 release
	s := drain(t, newFade(ones, 100e6, 10e6, 20e6, rate))
	if len(s) != 100 {
		t.Fatalf("len = %d", len(s))
	}
	if s[5][0] != 0.5 || s[50][0] != 1 || s[90][0] != 0.5 {
		t.Errorf("envelope = %v %v %v", s[5][0], s[50][0], s[90][0])
	}
}

func TestPlayBeforeInit(t *testing.T) {
	c := NewChime(DefaultVolume)
	if err := c.Play(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Play = %v", err)
	}
	c.SetMuted(true)
	if !c.Muted() {
		t.Error("mute not stored")
	}
	c.Close()
}
