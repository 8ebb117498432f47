package server

import (
	"sync/atomic"

	"github.com/lixenwraith/coin-collector/status"
)

// Metric keys registered in status.Registry
const (
	MetricConnAccepted  = "conn.accepted"
	MetricConnRejected  = "conn.rejected"
	MetricConnDropped   = "conn.dropped"
	MetricMatchStarted  = "match.started"
	MetricMatchTicks    = "match.ticks"
	MetricMovesRejected = "moves.rejected"
	MetricCoins         = "coins.collected"
	MetricSendErrors    = "send.errors"
	MetricBestScore     = "score.best"
	MetricOpenConns     = "conn.open"
	MetricInProgress    = "match.in_progress"
	MetricMatchID       = "match.id"
	MetricPhase         = "server.phase"
)

// metrics caches registry pointers so the loop never takes the map lock
type metrics struct {
	accepted      *atomic.Int64
	rejected      *atomic.Int64
	dropped       *atomic.Int64
	started       *atomic.Int64
	ticks         *atomic.Int64
	movesRejected *atomic.Int64
	coins         *atomic.Int64
	sendErrors    *atomic.Int64
	bestScore     *status.AtomicFloat
	openConns     *status.AtomicFloat
	inProgress    *atomic.Bool
	matchID       *status.AtomicString
	phase         *status.AtomicString
}

func newMetrics(reg *status.Registry) *metrics {
	return &metrics{
		accepted:      reg.Counts.Get(MetricConnAccepted),
		rejected:      reg.Counts.Get(MetricConnRejected),
		dropped:       reg.Counts.Get(MetricConnDropped),
		started:       reg.Counts.Get(MetricMatchStarted),
		ticks:         reg.Counts.Get(MetricMatchTicks),
		movesRejected: reg.Counts.Get(MetricMovesRejected),
		coins:         reg.Counts.Get(MetricCoins),
		sendErrors:    reg.Counts.Get(MetricSendErrors),
		bestScore:     reg.Gauges.Get(MetricBestScore),
		openConns:     reg.Gauges.Get(MetricOpenConns),
		inProgress:    reg.Flags.Get(MetricInProgress),
		matchID:       reg.Labels.Get(MetricMatchID),
		phase:         reg.Labels.Get(MetricPhase),
	}
}
