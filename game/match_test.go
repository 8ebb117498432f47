package game

import (
	"math/rand"
	"testing"

	"github.com/lixenwraith/coin-collector/network"
	"github.com/lixenwraith/coin-collector/parameter"
)

func newTestMatch(seed int64) *Match {
	return NewMatch(rand.New(rand.NewSource(seed)))
}

func TestNewMatchCorners(t *testing.T) {
	m := newTestMatch(1)

	if got := m.Player(SlotOne).Pos; got != (Position{0, 0}) {
		t.Errorf("slot one at %v, want (0,0)", got)
	}
	want := Position{parameter.GridHeight - 1, parameter.GridWidth - 1}
	if got := m.Player(SlotTwo).Pos; got != want {
		t.Errorf("slot two at %v, want %v", got, want)
	}
	if m.Started() {
		t.Error("new match should not be started")
	}
	if c := m.Coin(); !c.InBounds() || c == m.Player(SlotOne).Pos || c == m.Player(SlotTwo).Pos {
		t.Errorf("bad initial coin %v", c)
	}
}

func TestMoveNeverLeavesGridOrEntersOpponent(t *testing.T) {
	dirs := []Direction{Up, Down, Left, Right}
	opponent := Position{4, 7}

	for r := 0; r < parameter.GridHeight; r++ {
		for c := 0; c < parameter.GridWidth; c++ {
			start := Position{r, c}
			if start == opponent {
				continue
			}
			for _, d := range dirs {
				m := newTestMatch(int64(r*100 + c))
				m.players[SlotOne].Pos = start
				m.players[SlotTwo].Pos = opponent
				m.coin = Position{-1, -1} // keep collection out of this test

				res := m.Move(SlotOne, d)
				got := m.Player(SlotOne).Pos

				if !got.InBounds() {
					t.Fatalf("move %v from %v left grid: %v", d, start, got)
				}
				if got == opponent {
					t.Fatalf("move %v from %v entered opponent cell", d, start)
				}

				target := start.Step(d)
				expectAccept := target.InBounds() && target != opponent
				if res.Accepted != expectAccept {
					t.Fatalf("move %v from %v: accepted=%v want %v", d, start, res.Accepted, expectAccept)
				}
				if !res.Accepted && got != start {
					t.Fatalf("rejected move %v from %v changed position to %v", d, start, got)
				}
			}
		}
	}
}

func TestMoveRejectReasons(t *testing.T) {
	m := newTestMatch(2)

	res := m.Move(SlotOne, Up)
	if res.Accepted || res.Reason != RejectOutOfBounds {
		t.Errorf("up from (0,0): got %+v, want out of bounds", res)
	}

	m.players[SlotTwo].Pos = Position{1, 0}
	res = m.Move(SlotOne, Down)
	if res.Accepted || res.Reason != RejectBlocked {
		t.Errorf("down into opponent: got %+v, want blocked", res)
	}

	res = m.Move(Slot(7), Down)
	if res.Accepted || res.Reason != RejectInvalidSlot {
		t.Errorf("invalid slot: got %+v", res)
	}
}

func TestCollectCoinOnce(t *testing.T) {
	m := newTestMatch(3)
	m.players[SlotOne].Pos = Position{5, 5}
	m.coin = Position{5, 6}

	res := m.Move(SlotOne, Right)
	if !res.Accepted || !res.Collected {
		t.Fatalf("expected accepted collecting move, got %+v", res)
	}
	if got := m.Player(SlotOne).Score; got != parameter.CoinReward {
		t.Errorf("score = %d, want %d", got, parameter.CoinReward)
	}
	if m.Coin() == (Position{5, 6}) {
		t.Error("coin did not relocate")
	}
	if m.Coin() == m.Player(SlotOne).Pos || m.Coin() == m.Player(SlotTwo).Pos {
		t.Errorf("respawned coin %v on a player", m.Coin())
	}

	// Next move away must not score again
	before := m.Coin()
	m.coin = Position{0, 19}
	if m.Player(SlotTwo).Pos == (Position{0, 19}) {
		t.Fatal("test setup collision")
	}
	m.Move(SlotOne, Left)
	if got := m.Player(SlotOne).Score; got != parameter.CoinReward {
		t.Errorf("score changed on non-collecting move: %d (coin was %v)", got, before)
	}
}

func TestSpawnNeverOnPlayers(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		m := newTestMatch(seed)
		m.players[SlotOne].Pos = Position{int(seed) % parameter.GridHeight, int(seed) % parameter.GridWidth}
		m.players[SlotTwo].Pos = Position{(int(seed) + 3) % parameter.GridHeight, (int(seed) + 11) % parameter.GridWidth}
		m.SpawnCollectible()

		c := m.Coin()
		if !c.InBounds() {
			t.Fatalf("seed %d: coin out of bounds %v", seed, c)
		}
		if c == m.players[SlotOne].Pos || c == m.players[SlotTwo].Pos {
			t.Fatalf("seed %d: coin on a player %v", seed, c)
		}
	}
}

// alwaysZero yields cell (0,0) on every draw to force the fallback scan
type alwaysZero struct{}

func (alwaysZero) Int63() int64 { return 0 }
func (alwaysZero) Seed(int64)   {}

func TestSpawnFallbackScan(t *testing.T) {
	m := NewMatch(rand.New(alwaysZero{}))
	if m.Coin() != (Position{0, 1}) {
		t.Fatalf("fallback coin = %v, want (0,1)", m.Coin())
	}

	m.players[SlotTwo].Pos = Position{0, 1}
	m.SpawnCollectible()
	if m.Coin() != (Position{0, 2}) {
		t.Errorf("fallback coin = %v, want (0,2)", m.Coin())
	}
}

func TestSerializeScenarioDown(t *testing.T) {
	m := newTestMatch(4)
	m.coin = Position{5, 5}

	m.Move(SlotOne, Down)

	want := "1 0 9 19 5 5 0 0\n"
	if got := m.SerializeFor(SlotOne); got != want {
		t.Errorf("SerializeFor(one) = %q, want %q", got, want)
	}
	want = "9 19 1 0 5 5 0 0\n"
	if got := m.SerializeFor(SlotTwo); got != want {
		t.Errorf("SerializeFor(two) = %q, want %q", got, want)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	m := newTestMatch(5)
	m.players[SlotOne] = Player{Pos: Position{2, 3}, Score: 30}
	m.players[SlotTwo] = Player{Pos: Position{7, 11}, Score: 10}
	m.coin = Position{4, 4}

	for _, slot := range []Slot{SlotOne, SlotTwo} {
		line, err := network.ParseStateLine(m.SerializeFor(slot))
		if err != nil {
			t.Fatalf("parse slot %v: %v", slot, err)
		}
		self, other := m.Player(slot), m.Player(slot.Other())
		want := network.StateLine{
			SelfRow: self.Pos.Row, SelfCol: self.Pos.Col,
			OtherRow: other.Pos.Row, OtherCol: other.Pos.Col,
			CoinRow: 4, CoinCol: 4,
			SelfScore: self.Score, OtherScore: other.Score,
		}
		if line != want {
			t.Errorf("slot %v: got %+v, want %+v", slot, line, want)
		}
	}
}

func TestDirectionFromCommand(t *testing.T) {
	tests := []struct {
		in   byte
		want Direction
		ok   bool
	}{
		{'U', Up, true},
		{'D', Down, true},
		{'L', Left, true},
		{'R', Right, true},
		{'u', 0, false},
		{'E', 0, false},
		{'x', 0, false},
	}
	for _, tt := range tests {
		got, ok := DirectionFromCommand(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("DirectionFromCommand(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
