package game

import (
	"fmt"

	"github.com/lixenwraith/coin-collector/network"
	"github.com/lixenwraith/coin-collector/parameter"
)

// Position is a grid cell; Row grows downward, Col grows rightward
type Position struct {
	Row, Col int
}

// InBounds reports whether p lies inside the grid
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < parameter.GridHeight &&
		p.Col >= 0 && p.Col < parameter.GridWidth
}

// Step returns the neighbouring cell in direction d, unchecked
func (p Position) Step(d Direction) Position {
	switch d {
	case Up:
		p.Row--
	case Down:
		p.Row++
	case Left:
		p.Col--
	case Right:
		p.Col++
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is a unit move on the grid
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// DirectionFromCommand decodes a movement byte; movement is case-sensitive
func DirectionFromCommand(b byte) (Direction, bool) {
	switch b {
	case network.CmdUp:
		return Up, true
	case network.CmdDown:
		return Down, true
	case network.CmdLeft:
		return Left, true
	case network.CmdRight:
		return Right, true
	}
	return 0, false
}
