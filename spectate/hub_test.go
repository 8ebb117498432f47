package spectate

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/coin-collector/game"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/spectate"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return f
}

func waitSubscribers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", hub.Count(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFrameFrom(t *testing.T) {
	snap := game.Snapshot{
		Players: [2]game.Player{
			{Pos: game.Position{Row: 1, Col: 2}, Score: 10},
			{Pos: game.Position{Row: 9, Col: 19}},
		},
		Coin:    game.Position{Row: 4, Col: 4},
		Started: true,
	}
	f := FrameFrom("m", "in_progress", 3, snap)
	if f.Players[0] != (PlayerView{Row: 1, Col: 2, Score: 10}) || f.Players[1].Col != 19 {
		t.Errorf("players = %+v", f.Players)
	}
	if f.Coin != (Cell{Row: 4, Col: 4}) || f.Tick != 3 || f.MatchID != "m" {
		t.Errorf("frame = %+v", f)
	}
}

func TestLateSpectatorGetsLastFrame(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()
	hub.Publish(Frame{MatchID: "first", Phase: "in_progress"})

	conn := dialHub(t, hub)
	if f := readFrame(t, conn); f.MatchID != "first" {
		t.Errorf("initial frame = %+v", f)
	}
}

func TestPublishReachesSpectators(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()
	a := dialHub(t, hub)
	b := dialHub(t, hub)
	waitSubscribers(t, hub, 2)

	hub.Publish(Frame{MatchID: "m", Phase: "in_progress", Tick: 1, Coin: Cell{Row: 5, Col: 5}})
	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		if f.Tick != 1 || f.Coin.Row != 5 {
			t.Errorf("frame = %+v", f)
		}
	}
}

func TestSpectatorLeaving(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()
	conn := dialHub(t, hub)
	waitSubscribers(t, hub, 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitSubscribers(t, hub, 0)
}

func TestCloseDisconnectsSpectators(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub)
	waitSubscribers(t, hub, 1)

	hub.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("read after Close err = %v, want going away", err)
	}
	if err := hub.Publish(Frame{}); err != nil {
		t.Errorf("Publish after Close = %v", err)
	}
}
