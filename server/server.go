// Package server runs the authoritative match loop.
//
// One goroutine owns the match and the slot registry. Transport goroutines
// deliver connect, command and disconnect events on a single channel; the
// loop applies them in arrival order and broadcasts the resulting state.
package server

import (
	"context"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/coin-collector/game"
	"github.com/lixenwraith/coin-collector/logging"
	matchlog "github.com/lixenwraith/coin-collector/logging/match"
	"github.com/lixenwraith/coin-collector/network"
	"github.com/lixenwraith/coin-collector/parameter"
	"github.com/lixenwraith/coin-collector/session"
	"github.com/lixenwraith/coin-collector/spectate"
	"github.com/lixenwraith/coin-collector/status"
)

// FramePublisher receives absolute match state after every change
type FramePublisher interface {
	Publish(spectate.Frame) error
}

// Config wires the server's collaborators; zero fields get defaults
type Config struct {
	Network *network.Config

	// ExitOnQuit ends the process on E/e; otherwise the match resets and waits for players
	ExitOnQuit bool

	// Seed drives coin placement; zero seeds from the clock
	Seed int64

	Logger     logging.Logger
	Events     logging.Publisher
	Metrics    *status.Registry
	Spectators FramePublisher
}

// Server is the match state machine bound to a TCP transport
type Server struct {
	cfg       Config
	transport *network.Transport
	registry  *session.Registry
	logger    logging.Logger
	events    logging.Publisher
	metrics   *metrics
	rng       *rand.Rand

	match   *game.Match
	matchID string
	tick    uint64
	phase   atomic.Uint32

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New builds a server; Listen or Run binds the socket
func New(cfg Config) *Server {
	if cfg.Network == nil {
		cfg.Network = network.ServerConfig(parameter.DefaultServerAddress)
	}
	cfg.Network.Role = network.RoleServer
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard
	}
	if cfg.Events == nil {
		cfg.Events = logging.NopPublisher()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = status.NewRegistry()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Server{
		cfg:       cfg,
		transport: network.NewTransport(cfg.Network),
		registry:  session.NewRegistry(),
		logger:    cfg.Logger,
		events:    cfg.Events,
		metrics:   newMetrics(cfg.Metrics),
		rng:       rand.New(rand.NewSource(seed)),
		stopCh:    make(chan struct{}),
	}
	s.setPhase(PhaseWaiting)
	return s
}

// Listen binds the configured address; Run calls it when needed
func (s *Server) Listen() error {
	if s.transport.IsRunning() {
		return nil
	}
	if err := s.transport.Start(); err != nil {
		return err
	}
	s.logger.Printf("server: listening on %s", s.transport.Addr())
	return nil
}

// Addr returns the bound address, nil before Listen
func (s *Server) Addr() net.Addr {
	return s.transport.Addr()
}

// Phase returns the current loop state; safe from any goroutine
func (s *Server) Phase() Phase {
	return Phase(s.phase.Load())
}

// Run processes transport events until the match ends, ctx is cancelled or Stop is called
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	defer s.shutdown()

	events := s.transport.Events()
	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("server: %v, shutting down", context.Cause(ctx))
			return nil
		case <-s.stopCh:
			s.logger.Printf("server: stop requested")
			return nil
		case ev := <-events:
			s.handle(ctx, ev)
			if s.Phase() == PhaseEnded {
				return nil
			}
		}
	}
}

// Stop asks Run to return; safe to call more than once
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Server) handle(ctx context.Context, ev network.Event) {
	s.metrics.openConns.Set(float64(s.transport.PeerCount()))
	switch ev.Kind {
	case network.EventConnect:
		s.handleConnect(ctx, ev.Peer)
	case network.EventCommand:
		s.handleCommand(ctx, ev.Peer, ev.Command)
	case network.EventDisconnect:
		s.handleDisconnect(ctx, ev.Peer, ev.Err)
	}
}

func (s *Server) handleConnect(ctx context.Context, peer *network.Peer) {
	slot, err := s.registry.Admit(peer)
	if err != nil {
		s.metrics.rejected.Add(1)
		s.logger.Printf("server: rejecting %s: %v", peer.Addr, err)
		matchlog.PlayerRejected(ctx, s.events, s.matchID, matchlog.RejectedPayload{
			Addr:   peer.Addr,
			Reason: err.Error(),
		})
		s.send(peer, network.NoticeServerFull)
		peer.Close()
		return
	}

	s.metrics.accepted.Add(1)
	s.logger.Printf("server: %s joined as player %s", peer.Addr, slot)
	matchlog.PlayerJoined(ctx, s.events, s.matchID, matchlog.JoinedPayload{
		Slot: slot.String(),
		Addr: peer.Addr,
	})
	s.send(peer, network.NoticeWaiting)

	if s.registry.Ready() {
		s.startMatch(ctx)
	}
}

// startMatch builds a fresh match for the occupied slots and sends the opening lines
func (s *Server) startMatch(ctx context.Context) {
	s.match = game.NewMatch(s.rng)
	s.match.Start()
	s.matchID = uuid.NewString()
	s.tick = 0
	s.setPhase(PhaseInProgress)

	s.metrics.started.Add(1)
	s.metrics.inProgress.Store(true)
	s.metrics.matchID.Store(s.matchID)

	coin := s.match.Coin()
	s.logger.Printf("server: match %s started, coin at %s", s.matchID, coin)
	matchlog.Started(ctx, s.events, s.matchID, matchlog.StartedPayload{Coin: cell(coin)})

	s.registry.Each(func(slot game.Slot, conn session.Conn) {
		s.send(conn, network.NoticeGameStart)
		s.sendState(slot, conn)
	})
	s.publishFrame()
}

func (s *Server) handleCommand(ctx context.Context, peer *network.Peer, cmd byte) {
	if s.Phase() != PhaseInProgress {
		return
	}
	slot, ok := s.registry.SlotOf(peer)
	if !ok {
		return
	}

	if network.IsQuit(cmd) {
		s.quit(ctx, slot)
		return
	}
	dir, ok := game.DirectionFromCommand(cmd)
	if !ok {
		return
	}

	res := s.match.Move(slot, dir)
	s.tick++
	s.metrics.ticks.Add(1)

	payload := matchlog.MovePayload{
		Direction: dir.String(),
		Accepted:  res.Accepted,
		From:      cell(res.From),
		To:        cell(res.To),
	}
	if !res.Accepted {
		payload.Reason = res.Reason.String()
		s.metrics.movesRejected.Add(1)
	}
	matchlog.Move(ctx, s.events, s.matchID, s.tick, slot.String(), payload)

	if res.Collected {
		score := s.match.Player(slot).Score
		s.metrics.coins.Add(1)
		s.metrics.bestScore.Max(float64(score))
		matchlog.CoinCollected(ctx, s.events, s.matchID, s.tick, slot.String(), matchlog.CoinPayload{
			Score:   score,
			NewCoin: cell(s.match.Coin()),
		})
	}

	// Rejected moves still broadcast so both views stay in lockstep
	s.broadcast()
	s.publishFrame()
}

func (s *Server) broadcast() {
	s.registry.Each(s.sendState)
}

func (s *Server) quit(ctx context.Context, slot game.Slot) {
	s.logger.Printf("server: player %s quit match %s", slot, s.matchID)
	matchlog.Ended(ctx, s.events, s.matchID, s.tick, matchlog.EndedPayload{
		Reason: "quit",
		Scores: s.scores(),
	})

	if s.cfg.ExitOnQuit {
		s.setPhase(PhaseEnded)
		return
	}

	for _, conn := range s.registry.Clear() {
		s.send(conn, network.NoticeGameOver)
		conn.Close()
	}
	s.match = nil
	s.metrics.inProgress.Store(false)
	s.setPhase(PhaseWaiting)
	s.publishFrame()
}

func (s *Server) handleDisconnect(ctx context.Context, peer *network.Peer, cause error) {
	slot, ok := s.registry.Release(peer)
	if !ok {
		return
	}
	peer.Close()
	s.metrics.dropped.Add(1)

	reason := "closed"
	if cause != nil {
		reason = cause.Error()
	}
	s.logger.Printf("server: player %s (%s) disconnected: %s", slot, peer.Addr, reason)
	matchlog.PlayerLeft(ctx, s.events, s.matchID, s.tick, slot.String(), matchlog.LeftPayload{Reason: reason})

	if s.Phase() == PhaseInProgress {
		matchlog.Ended(ctx, s.events, s.matchID, s.tick, matchlog.EndedPayload{
			Reason: "player_left",
			Scores: s.scores(),
		})
		s.metrics.inProgress.Store(false)
	}
	s.setPhase(PhaseWaiting)
	s.publishFrame()
}

func (s *Server) send(conn session.Conn, line string) {
	if err := conn.Send([]byte(line)); err != nil {
		s.metrics.sendErrors.Add(1)
		s.logger.Printf("server: send failed: %v", err)
	}
}

func (s *Server) sendState(slot game.Slot, conn session.Conn) {
	if err := conn.SendState([]byte(s.match.SerializeFor(slot))); err != nil {
		s.metrics.sendErrors.Add(1)
		s.logger.Printf("server: state to player %s failed: %v", slot, err)
	}
}

func (s *Server) scores() [2]int {
	if s.match == nil {
		return [2]int{}
	}
	return [2]int{s.match.Player(game.SlotOne).Score, s.match.Player(game.SlotTwo).Score}
}

func (s *Server) publishFrame() {
	if s.cfg.Spectators == nil || s.match == nil {
		return
	}
	frame := spectate.FrameFrom(s.matchID, s.Phase().String(), s.tick, s.match.Snapshot())
	if err := s.cfg.Spectators.Publish(frame); err != nil {
		s.logger.Printf("server: spectator publish failed: %v", err)
	}
}

func (s *Server) setPhase(p Phase) {
	s.phase.Store(uint32(p))
	s.metrics.phase.Store(p.String())
}

func (s *Server) shutdown() {
	if s.Phase() != PhaseEnded {
		s.setPhase(PhaseEnded)
	}
	s.publishFrame()
	s.metrics.inProgress.Store(false)
	s.registry.Clear()
	if err := s.transport.Stop(); err != nil {
		s.logger.Printf("server: transport stop: %v", err)
	}
	s.logger.Printf("server: stopped")
}

func cell(p game.Position) matchlog.Cell {
	return matchlog.Cell{Row: p.Row, Col: p.Col}
}
