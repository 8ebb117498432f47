// Package session binds connections to the two player slots of a match.
//
// Slots are filled in arrival order: the lowest empty slot takes the next
// connection. A freed slot is refilled by the next arrival; occupied slots
// are never reassigned.
package session

import (
	"errors"

	"github.com/lixenwraith/coin-collector/game"
	"github.com/lixenwraith/coin-collector/parameter"
)

// ErrServerFull is returned by Admit when both slots are occupied
var ErrServerFull = errors.New("server full")

// Conn is the registry's view of a player connection
// Send carries notices, SendState carries state lines that may be superseded
type Conn interface {
	Send([]byte) error
	SendState([]byte) error
	Close() error
}

// SlotState is the occupancy of one slot
type SlotState uint8

const (
	Empty SlotState = iota
	Occupied
)

func (s SlotState) String() string {
	if s == Occupied {
		return "occupied"
	}
	return "empty"
}

type slot struct {
	state SlotState
	conn  Conn
}

// Registry tracks which connection holds which slot
// Owned by the server loop; not safe for concurrent use
type Registry struct {
	slots [parameter.MaxPlayers]slot
}

// NewRegistry returns a registry with both slots empty
func NewRegistry() *Registry {
	return &Registry{}
}

// Admit binds conn to the lowest empty slot
func (r *Registry) Admit(conn Conn) (game.Slot, error) {
	if s, ok := r.SlotOf(conn); ok {
		return s, nil
	}
	for i := range r.slots {
		if r.slots[i].state == Empty {
			r.slots[i] = slot{state: Occupied, conn: conn}
			return game.Slot(i), nil
		}
	}
	return 0, ErrServerFull
}

// Release frees the slot held by conn and reports which slot it was
func (r *Registry) Release(conn Conn) (game.Slot, bool) {
	s, ok := r.SlotOf(conn)
	if !ok {
		return 0, false
	}
	r.slots[s] = slot{}
	return s, true
}

// SlotOf returns the slot held by conn
func (r *Registry) SlotOf(conn Conn) (game.Slot, bool) {
	if conn == nil {
		return 0, false
	}
	for i := range r.slots {
		if r.slots[i].state == Occupied && r.slots[i].conn == conn {
			return game.Slot(i), true
		}
	}
	return 0, false
}

// Conn returns the connection occupying slot, or nil
func (r *Registry) Conn(s game.Slot) Conn {
	if !s.Valid() {
		return nil
	}
	return r.slots[s].conn
}

// State returns the occupancy of slot
func (r *Registry) State(s game.Slot) SlotState {
	if !s.Valid() {
		return Empty
	}
	return r.slots[s].state
}

// Count returns the number of occupied slots
func (r *Registry) Count() int {
	n := 0
	for _, s := range r.slots {
		if s.state == Occupied {
			n++
		}
	}
	return n
}

// Ready reports whether every slot is occupied
func (r *Registry) Ready() bool {
	return r.Count() == len(r.slots)
}

// Each calls fn for every occupied slot in slot order
func (r *Registry) Each(fn func(game.Slot, Conn)) {
	for i, s := range r.slots {
		if s.state == Occupied {
			fn(game.Slot(i), s.conn)
		}
	}
}

// Clear frees every slot and returns the connections that held them, in slot order
func (r *Registry) Clear() []Conn {
	var conns []Conn
	for i, s := range r.slots {
		if s.state == Occupied {
			conns = append(conns, s.conn)
		}
		r.slots[i] = slot{}
	}
	return conns
}
