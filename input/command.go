// Package input maps terminal keys to player commands.
package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/coin-collector/network"
)

// IntentType discriminates what a key press asks for
type IntentType uint8

const (
	IntentNone IntentType = iota
	IntentMove            // arrows, WASD
	IntentQuit            // e, E, Esc, Ctrl+C
	IntentToggleMute      // m
)

// Intent is a translated key press; Command is set for moves and quit
type Intent struct {
	Type    IntentType
	Command byte
}

var specialKeys = map[tcell.Key]Intent{
	tcell.KeyUp:     {IntentMove, network.CmdUp},
	tcell.KeyDown:   {IntentMove, network.CmdDown},
	tcell.KeyLeft:   {IntentMove, network.CmdLeft},
	tcell.KeyRight:  {IntentMove, network.CmdRight},
	tcell.KeyEscape: {IntentQuit, network.CmdQuit},
	tcell.KeyCtrlC:  {IntentQuit, network.CmdQuit},
}

var runeKeys = map[rune]Intent{
	'w': {IntentMove, network.CmdUp},
	's': {IntentMove, network.CmdDown},
	'a': {IntentMove, network.CmdLeft},
	'd': {IntentMove, network.CmdRight},
	'W': {IntentMove, network.CmdUp},
	'S': {IntentMove, network.CmdDown},
	'A': {IntentMove, network.CmdLeft},
	'D': {IntentMove, network.CmdRight},
	'e': {IntentQuit, network.CmdQuit},
	'E': {IntentQuit, network.CmdQuit},
	'm': {Type: IntentToggleMute},
	'M': {Type: IntentToggleMute},
}

// Translate maps a key and its rune; unbound keys yield IntentNone
func Translate(key tcell.Key, r rune) Intent {
	if key == tcell.KeyRune {
		return runeKeys[r]
	}
	return specialKeys[key]
}

// FromEvent translates a tcell key event
func FromEvent(ev *tcell.EventKey) Intent {
	if ev == nil {
		return Intent{}
	}
	return Translate(ev.Key(), ev.Rune())
}
