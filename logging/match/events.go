// Package match defines the structured events published over a match lifetime.
package match

import (
	"context"

	"github.com/lixenwraith/coin-collector/logging"
)

const (
	EventPlayerJoined   logging.EventType = "match.player_joined"
	EventPlayerRejected logging.EventType = "match.player_rejected"
	EventStarted        logging.EventType = "match.started"
	EventMove           logging.EventType = "match.move"
	EventCoinCollected  logging.EventType = "match.coin_collected"
	EventPlayerLeft     logging.EventType = "match.player_left"
	EventEnded          logging.EventType = "match.ended"
)

// Cell is a grid position in event payloads
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type JoinedPayload struct {
	Slot string `json:"slot"`
	Addr string `json:"addr"`
}

type RejectedPayload struct {
	Addr   string `json:"addr"`
	Reason string `json:"reason"`
}

type StartedPayload struct {
	Coin Cell `json:"coin"`
}

type MovePayload struct {
	Direction string `json:"direction"`
	Accepted  bool   `json:"accepted"`
	Reason    string `json:"reason,omitempty"`
	From      Cell   `json:"from"`
	To        Cell   `json:"to"`
}

type CoinPayload struct {
	Score   int  `json:"score"`
	NewCoin Cell `json:"newCoin"`
}

type LeftPayload struct {
	Reason string `json:"reason"`
}

type EndedPayload struct {
	Reason string `json:"reason"`
	Scores [2]int `json:"scores"`
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}

// PlayerJoined publishes a slot assignment
func PlayerJoined(ctx context.Context, pub logging.Publisher, matchID string, payload JoinedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventPlayerJoined,
		MatchID:  matchID,
		Actor:    payload.Slot,
		Severity: logging.SeverityInfo,
		Payload:  payload,
	})
}

// PlayerRejected publishes a capacity rejection
func PlayerRejected(ctx context.Context, pub logging.Publisher, matchID string, payload RejectedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventPlayerRejected,
		MatchID:  matchID,
		Severity: logging.SeverityWarn,
		Payload:  payload,
	})
}

// Started publishes the transition to in-progress
func Started(ctx context.Context, pub logging.Publisher, matchID string, payload StartedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventStarted,
		MatchID:  matchID,
		Severity: logging.SeverityInfo,
		Payload:  payload,
	})
}

// Move publishes one processed movement command at debug level
func Move(ctx context.Context, pub logging.Publisher, matchID string, tick uint64, slot string, payload MovePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventMove,
		Tick:     tick,
		MatchID:  matchID,
		Actor:    slot,
		Severity: logging.SeverityDebug,
		Payload:  payload,
	})
}

// CoinCollected publishes a scoring move
func CoinCollected(ctx context.Context, pub logging.Publisher, matchID string, tick uint64, slot string, payload CoinPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventCoinCollected,
		Tick:     tick,
		MatchID:  matchID,
		Actor:    slot,
		Severity: logging.SeverityInfo,
		Payload:  payload,
	})
}

// PlayerLeft publishes a slot release
func PlayerLeft(ctx context.Context, pub logging.Publisher, matchID string, tick uint64, slot string, payload LeftPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventPlayerLeft,
		Tick:     tick,
		MatchID:  matchID,
		Actor:    slot,
		Severity: logging.SeverityInfo,
		Payload:  payload,
	})
}

// Ended publishes the end of a match
func Ended(ctx context.Context, pub logging.Publisher, matchID string, tick uint64, payload EndedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventEnded,
		Tick:     tick,
		MatchID:  matchID,
		Severity: logging.SeverityInfo,
		Payload:  payload,
	})
}
