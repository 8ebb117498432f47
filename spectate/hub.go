// Package spectate serves a read-only websocket feed of match state.
//
// Spectators receive the latest frame on connect and every frame published
// after that. Slow spectators lose frames instead of stalling the publisher.
package spectate

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/coin-collector/game"
	"github.com/lixenwraith/coin-collector/logging"
)

const (
	writeWait   = 5 * time.Second
	backlogSize = 16
)

// Cell is an absolute grid position
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PlayerView is one slot as seen by spectators
type PlayerView struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Score int `json:"score"`
}

// Frame is the absolute match state pushed to spectators
type Frame struct {
	MatchID string        `json:"matchId"`
	Phase   string        `json:"phase"`
	Tick    uint64        `json:"tick"`
	Players [2]PlayerView `json:"players"`
	Coin    Cell          `json:"coin"`
}

// FrameFrom converts a match snapshot into a spectator frame
func FrameFrom(matchID, phase string, tick uint64, snap game.Snapshot) Frame {
	f := Frame{
		MatchID: matchID,
		Phase:   phase,
		Tick:    tick,
		Coin:    Cell{Row: snap.Coin.Row, Col: snap.Coin.Col},
	}
	for i, p := range snap.Players {
		f.Players[i] = PlayerView{Row: p.Pos.Row, Col: p.Pos.Col, Score: p.Score}
	}
	return f
}

var goingAway = websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// Hub fans frames out to connected spectators
type Hub struct {
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	last   []byte
	closed bool
}

// NewHub returns an empty hub; a nil logger discards output
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request and streams frames until the spectator leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("spectate: upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, backlogSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.WriteControl(websocket.CloseMessage, goingAway, time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.subs[sub] = struct{}{}
	if h.last != nil {
		sub.send <- h.last
	}
	h.mu.Unlock()

	go h.writeLoop(sub)

	// Reads only detect the spectator going away; inbound payloads are ignored
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub)
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer h.remove(sub)
	for {
		select {
		case <-sub.done:
			return
		case data := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Printf("spectate: write to %s failed: %v", sub.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.close()
}

// Publish encodes frame and queues it for every spectator
func (h *Hub) Publish(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.last = data
	for sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			h.logger.Printf("spectate: %s backlog full, frame dropped", sub.conn.RemoteAddr())
		}
	}
	return nil
}

// Count returns the number of connected spectators
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every spectator and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.conn.WriteControl(websocket.CloseMessage, goingAway, time.Now().Add(writeWait))
		sub.close()
	}
}
