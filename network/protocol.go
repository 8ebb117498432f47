package network

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Notices are free-text lines sent outside of state ticks
const (
	NoticeWaiting    = "connected! waiting for other player...\n"
	NoticeServerFull = "server full\n"
	NoticeGameStart  = "game start!\n"
	NoticeGameOver   = "game over\n"
)

// Command bytes sent by clients, one byte per command with no delimiter
const (
	CmdUp        byte = 'U'
	CmdDown      byte = 'D'
	CmdLeft      byte = 'L'
	CmdRight     byte = 'R'
	CmdQuit      byte = 'E'
	CmdQuitLower byte = 'e'
)

// IsQuit reports whether b ends the match; quit is the only case-insensitive command
func IsQuit(b byte) bool {
	return b == CmdQuit || b == CmdQuitLower
}

// StateFields is the number of integers carried by a state line
const StateFields = 8

// ErrMalformedState is returned for lines that are not exactly StateFields integers
var ErrMalformedState = errors.New("malformed state line")

// StateLine is one recipient-relative state tick
// Wire order: self row, self col, other row, other col, coin row, coin col, self score, other score
type StateLine struct {
	SelfRow, SelfCol   int
	OtherRow, OtherCol int
	CoinRow, CoinCol   int
	SelfScore          int
	OtherScore         int
}

// String renders the newline-terminated wire form
func (s StateLine) String() string {
	return fmt.Sprintf("%d %d %d %d %d %d %d %d\n",
		s.SelfRow, s.SelfCol,
		s.OtherRow, s.OtherCol,
		s.CoinRow, s.CoinCol,
		s.SelfScore, s.OtherScore,
	)
}

// ParseStateLine decodes a single line, with or without its trailing newline
func ParseStateLine(line string) (StateLine, error) {
	fields := strings.Fields(line)
	if len(fields) != StateFields {
		return StateLine{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedState, StateFields, len(fields))
	}

	var v [StateFields]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return StateLine{}, fmt.Errorf("%w: field %d: %v", ErrMalformedState, i, err)
		}
		v[i] = n
	}

	return StateLine{
		SelfRow: v[0], SelfCol: v[1],
		OtherRow: v[2], OtherCol: v[3],
		CoinRow: v[4], CoinCol: v[5],
		SelfScore: v[6], OtherScore: v[7],
	}, nil
}
