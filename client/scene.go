// Package client holds the player's view of a match: entities interpolated
// between server state lines, the receive path that feeds them, and the
// connection that carries commands back.
package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/coin-collector/network"
	"github.com/lixenwraith/coin-collector/parameter"
)

// Frame is a render-ready copy of the scene at one instant
type Frame struct {
	Self, Other, Coin     Vec
	SelfScore, OtherScore int
	// Ready is false until the first state line arrives
	Ready  bool
	Notice string
	Over   bool
}

// Scene is shared between the receive goroutine and the render loop
type Scene struct {
	window time.Duration

	mu         sync.Mutex
	self       Entity
	other      Entity
	coin       Entity
	selfScore  int
	otherScore int
	ready      bool
	notice     string
	updates    uint64

	over     atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

// NewScene returns an empty scene; a non-positive window uses the default
func NewScene(window time.Duration) *Scene {
	if window <= 0 {
		window = parameter.InterpolationWindow
	}
	return &Scene{
		window: window,
		done:   make(chan struct{}),
	}
}

// ApplyState snaps on the first state and retargets on every later one
func (s *Scene) ApplyState(st network.StateLine, now time.Time) {
	self := VecOf(st.SelfRow, st.SelfCol)
	other := VecOf(st.OtherRow, st.OtherCol)
	coin := VecOf(st.CoinRow, st.CoinCol)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		s.self.Snap(self, now)
		s.other.Snap(other, now)
		s.coin.Snap(coin, now)
		s.ready = true
		s.notice = ""
	} else {
		s.self.Retarget(self, now)
		s.other.Retarget(other, now)
		s.coin.Retarget(coin, now)
	}
	s.selfScore = st.SelfScore
	s.otherScore = st.OtherScore
	s.updates++
}

// Rearm makes the next state snap instead of retarget; a new match starts from its corners
func (s *Scene) Rearm() {
	s.mu.Lock()
	s.ready = false
	s.mu.Unlock()
}

// SetNotice replaces the status text
func (s *Scene) SetNotice(text string) {
	s.mu.Lock()
	s.notice = text
	s.mu.Unlock()
}

// Updates returns the number of state lines applied
func (s *Scene) Updates() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Frame interpolates every entity at now
func (s *Scene) Frame(now time.Time) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := Frame{
		SelfScore:  s.selfScore,
		OtherScore: s.otherScore,
		Ready:      s.ready,
		Notice:     s.notice,
		Over:       s.over.Load(),
	}
	if s.ready {
		f.Self = s.self.Interpolate(now, s.window)
		f.Other = s.other.Interpolate(now, s.window)
		f.Coin = s.coin.Interpolate(now, s.window)
	}
	return f
}

// End marks the game over; safe to call from either loop, more than once
func (s *Scene) End() {
	s.over.Store(true)
	s.doneOnce.Do(func() { close(s.done) })
}

// Over reports whether End has been called
func (s *Scene) Over() bool {
	return s.over.Load()
}

// Done is closed by End
func (s *Scene) Done() <-chan struct{} {
	return s.done
}
