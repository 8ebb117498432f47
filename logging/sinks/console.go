package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/lixenwraith/coin-collector/logging"
)

// Console writes one human-readable line per event
type Console struct {
	logger *log.Logger
}

// NewConsole writes to w with standard log timestamps
func NewConsole(w io.Writer) *Console {
	return &Console{logger: log.New(w, "", log.LstdFlags)}
}

// Write implements logging.Sink
func (s *Console) Write(event logging.Event) error {
	match := ""
	if event.MatchID != "" {
		match = " match=" + event.MatchID
	}
	actor := ""
	if event.Actor != "" {
		actor = " actor=" + event.Actor
	}
	s.logger.Printf("[%s] %s tick=%d%s%s%s", event.Type, event.Severity, event.Tick, match, actor, formatPayload(event.Payload))
	return nil
}

// Close implements logging.Sink
func (s *Console) Close(context.Context) error {
	return nil
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return fmt.Sprintf(" payload=%s", data)
}
