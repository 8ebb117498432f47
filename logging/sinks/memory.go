package sinks

import (
	"context"
	"sync"

	"github.com/lixenwraith/coin-collector/logging"
)

// Memory keeps events in memory for tests
type Memory struct {
	mu     sync.RWMutex
	events []logging.Event
}

func NewMemory() *Memory {
	return &Memory{}
}

// Write implements logging.Sink
func (s *Memory) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event.Clone())
	return nil
}

// Events returns a copy of everything written so far
func (s *Memory) Events() []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]logging.Event, len(s.events))
	copy(out, s.events)
	return out
}

// OfType returns written events matching t
func (s *Memory) OfType(t logging.EventType) []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []logging.Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (s *Memory) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}

// Publish lets a Memory sink stand in directly for a Publisher
func (s *Memory) Publish(_ context.Context, event logging.Event) {
	_ = s.Write(event)
}

// Close implements logging.Sink
func (s *Memory) Close(context.Context) error {
	return nil
}
