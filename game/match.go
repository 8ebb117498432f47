package game

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/coin-collector/network"
	"github.com/lixenwraith/coin-collector/parameter"
)

// maxSpawnAttempts caps rejection sampling before falling back to a scan
const maxSpawnAttempts = 4 * parameter.GridWidth * parameter.GridHeight

// Slot is a player identity, assigned by arrival order
type Slot int

const (
	SlotOne Slot = iota
	SlotTwo
)

// Valid reports whether s names one of the two slots
func (s Slot) Valid() bool {
	return s == SlotOne || s == SlotTwo
}

// Other returns the opposing slot
func (s Slot) Other() Slot {
	if s == SlotOne {
		return SlotTwo
	}
	return SlotOne
}

func (s Slot) String() string {
	switch s {
	case SlotOne:
		return "one"
	case SlotTwo:
		return "two"
	default:
		return "none"
	}
}

// Player is one participant's position and score
type Player struct {
	Pos   Position
	Score int
}

// RejectReason explains why a move left the state unchanged
type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectOutOfBounds
	RejectBlocked
	RejectInvalidSlot
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectOutOfBounds:
		return "out_of_bounds"
	case RejectBlocked:
		return "blocked"
	case RejectInvalidSlot:
		return "invalid_slot"
	default:
		return "unknown"
	}
}

// MoveResult reports the outcome of a single Move
type MoveResult struct {
	Accepted  bool
	Collected bool
	Reason    RejectReason
	From, To  Position
}

// Match is the authoritative state of one match
// Not safe for concurrent use; the server loop is its only owner
type Match struct {
	players [parameter.MaxPlayers]Player
	coin    Position
	started bool
	rng     *rand.Rand
}

// NewMatch places slot one at the top-left corner, slot two at the bottom-right corner, and spawns the coin
// A nil rng is replaced by a time-seeded source
func NewMatch(rng *rand.Rand) *Match {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m := &Match{rng: rng}
	m.players[SlotOne].Pos = Position{Row: 0, Col: 0}
	m.players[SlotTwo].Pos = Position{Row: parameter.GridHeight - 1, Col: parameter.GridWidth - 1}
	m.SpawnCollectible()
	return m
}

// Player returns a copy of the player in slot
func (m *Match) Player(slot Slot) Player {
	if !slot.Valid() {
		return Player{}
	}
	return m.players[slot]
}

// Coin returns the collectible position
func (m *Match) Coin() Position {
	return m.coin
}

// Started reports whether both players have joined and input is being processed
func (m *Match) Started() bool {
	return m.started
}

// Start marks the match as in progress
func (m *Match) Start() {
	m.started = true
}

// Move applies a unit displacement to the player in slot
// Out-of-grid targets and the opponent's cell are rejected; the coin cell is allowed and collected
func (m *Match) Move(slot Slot, dir Direction) MoveResult {
	if !slot.Valid() {
		return MoveResult{Reason: RejectInvalidSlot}
	}

	p := &m.players[slot]
	res := MoveResult{From: p.Pos, To: p.Pos}

	next := p.Pos.Step(dir)
	if !next.InBounds() {
		res.Reason = RejectOutOfBounds
		return res
	}
	if next == m.players[slot.Other()].Pos {
		res.Reason = RejectBlocked
		return res
	}

	p.Pos = next
	res.Accepted = true
	res.To = next

	if next == m.coin {
		p.Score += parameter.CoinReward
		res.Collected = true
		m.SpawnCollectible()
	}
	return res
}

// SpawnCollectible draws a uniform random cell not occupied by either player
func (m *Match) SpawnCollectible() {
	for i := 0; i < maxSpawnAttempts; i++ {
		c := Position{
			Row: m.rng.Intn(parameter.GridHeight),
			Col: m.rng.Intn(parameter.GridWidth),
		}
		if m.free(c) {
			m.coin = c
			return
		}
	}

	// Sampling exhausted: first free cell in row-major order
	for r := 0; r < parameter.GridHeight; r++ {
		for c := 0; c < parameter.GridWidth; c++ {
			if p := (Position{Row: r, Col: c}); m.free(p) {
				m.coin = p
				return
			}
		}
	}
}

func (m *Match) free(p Position) bool {
	return p != m.players[SlotOne].Pos && p != m.players[SlotTwo].Pos
}

// StateFor builds the state tick as seen by the recipient in slot: itself first, opponent second
func (m *Match) StateFor(slot Slot) network.StateLine {
	if !slot.Valid() {
		return network.StateLine{}
	}
	self := m.players[slot]
	other := m.players[slot.Other()]
	return network.StateLine{
		SelfRow: self.Pos.Row, SelfCol: self.Pos.Col,
		OtherRow: other.Pos.Row, OtherCol: other.Pos.Col,
		CoinRow: m.coin.Row, CoinCol: m.coin.Col,
		SelfScore:  self.Score,
		OtherScore: other.Score,
	}
}

// SerializeFor returns the newline-terminated wire line for the recipient in slot
func (m *Match) SerializeFor(slot Slot) string {
	return m.StateFor(slot).String()
}

// Snapshot is an absolute, slot-ordered copy of the match
type Snapshot struct {
	Players [parameter.MaxPlayers]Player
	Coin    Position
	Started bool
}

// Snapshot copies the current state
func (m *Match) Snapshot() Snapshot {
	return Snapshot{
		Players: m.players,
		Coin:    m.coin,
		Started: m.started,
	}
}
