package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/lixenwraith/coin-collector/logging"
)

// JSON emits newline-delimited events
type JSON struct {
	mu      sync.Mutex
	writer  *bufio.Writer
	encoder *json.Encoder
	closer  io.Closer
}

// NewJSON writes to w; if w is also an io.Closer it is closed with the sink
func NewJSON(w io.Writer) *JSON {
	if w == nil {
		w = io.Discard
	}
	buf := bufio.NewWriter(w)
	s := &JSON{writer: buf, encoder: json.NewEncoder(buf)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

type jsonRecord struct {
	Type     logging.EventType `json:"type"`
	Tick     uint64            `json:"tick"`
	Time     string            `json:"time"`
	MatchID  string            `json:"matchId,omitempty"`
	Actor    string            `json:"actor,omitempty"`
	Severity string            `json:"severity"`
	Payload  any               `json:"payload,omitempty"`
	Extra    map[string]any    `json:"extra,omitempty"`
}

// Write implements logging.Sink; every record is flushed so the file tails cleanly
func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := jsonRecord{
		Type:     event.Type,
		Tick:     event.Tick,
		Time:     event.Time.Format(time.RFC3339Nano),
		MatchID:  event.MatchID,
		Actor:    event.Actor,
		Severity: event.Severity.String(),
		Payload:  event.Payload,
		Extra:    event.Extra,
	}
	if err := s.encoder.Encode(rec); err != nil {
		return err
	}
	return s.writer.Flush()
}

// Close flushes and closes the underlying writer
func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
