package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/coin-collector/logging"
	"github.com/lixenwraith/coin-collector/logging/sinks"
)

func fixedClock() logging.Clock {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return logging.ClockFunc(func() time.Time { return at })
}

func TestRouterFiltersAndStamps(t *testing.T) {
	mem := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"server": "test"}
	router := logging.NewRouter(fixedClock(), cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})

	ctx := context.Background()
	router.Publish(ctx, logging.Event{Type: "match.move", Severity: logging.SeverityDebug})
	router.Publish(ctx, logging.Event{Type: "match.started", Severity: logging.SeverityInfo})
	router.Publish(ctx, logging.Event{Severity: logging.SeverityError}) // untyped, dropped

	if err := router.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	ev := events[0]
	if ev.Type != "match.started" {
		t.Errorf("type = %s", ev.Type)
	}
	if ev.Time.IsZero() {
		t.Error("time not stamped")
	}
	if ev.Extra["server"] != "test" {
		t.Errorf("default field missing: %v", ev.Extra)
	}
	if stats := router.Stats(); stats.EventsTotal != 1 {
		t.Errorf("EventsTotal = %d", stats.EventsTotal)
	}
	if router.Sink("memory") != mem {
		t.Error("Sink lookup failed")
	}
}

func TestRouterIgnoresPublishAfterClose(t *testing.T) {
	mem := sinks.NewMemory()
	router := logging.NewRouter(nil, logging.DefaultConfig(), []logging.NamedSink{{Name: "memory", Sink: mem}})
	router.Close(context.Background())
	router.Publish(context.Background(), logging.Event{Type: "late", Severity: logging.SeverityError})
	if n := len(mem.Events()); n != 0 {
		t.Errorf("got %d events after close", n)
	}
}

func TestWithFieldsKeepsExistingKeys(t *testing.T) {
	mem := sinks.NewMemory()
	pub := logging.WithFields(mem, map[string]any{"a": 1, "b": 2})
	pub.Publish(context.Background(), logging.Event{Type: "x", Extra: map[string]any{"a": "mine"}})

	ev := mem.Events()[0]
	if ev.Extra["a"] != "mine" || ev.Extra["b"] != 2 {
		t.Errorf("extra = %v", ev.Extra)
	}
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	sink := sinks.NewJSON(&buf)
	err := sink.Write(logging.Event{
		Type:     "match.coin_collected",
		Tick:     7,
		Time:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		MatchID:  "m1",
		Actor:    "one",
		Severity: logging.SeverityInfo,
		Payload:  map[string]int{"score": 10},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if rec["type"] != "match.coin_collected" || rec["severity"] != "info" || rec["matchId"] != "m1" {
		t.Errorf("record = %v", rec)
	}
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := sinks.NewConsole(&buf)
	sink.Write(logging.Event{Type: "match.player_left", Severity: logging.SeverityInfo, Actor: "two", Tick: 3})
	out := buf.String()
	if !strings.Contains(out, "[match.player_left] info tick=3 actor=two") {
		t.Errorf("console line = %q", out)
	}
}

func TestLoggerFunc(t *testing.T) {
	var lines []string
	logger := logging.LoggerFunc(func(format string, args ...any) {
		lines = append(lines, format)
	})
	logger.Printf("hello %d", 1)
	logging.Discard.Printf("ignored")
	if len(lines) != 1 || lines[0] != "hello %d" {
		t.Errorf("lines = %v", lines)
	}
}
