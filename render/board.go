// Package render draws the client's board on a tcell screen.
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/coin-collector/client"
	"github.com/lixenwraith/coin-collector/parameter"
)

// Board draws a walled grid with the status rows beneath it
// Grid cell (row, col) lands at screen (originX+1+col, originY+1+row)
type Board struct {
	screen  tcell.Screen
	originX int
	originY int
}

func NewBoard(screen tcell.Screen) *Board {
	return &Board{screen: screen}
}

// SetOrigin moves the board's top-left wall corner
func (b *Board) SetOrigin(x, y int) {
	b.originX, b.originY = x, y
}

// Size returns the screen area the board needs, status rows included
func (b *Board) Size() (width, height int) {
	return parameter.GridWidth + 2, parameter.GridHeight + 2 + parameter.StatusRows
}

// Draw renders one frame and shows it
func (b *Board) Draw(f client.Frame) {
	b.screen.Fill(' ', styleBase)
	b.drawWalls()

	if f.Ready {
		b.drawEntity(f.Coin, parameter.GlyphCoin, styleCoin)
		b.drawEntity(f.Other, parameter.GlyphOther, styleOther)
		b.drawEntity(f.Self, parameter.GlyphSelf, styleSelf)
		b.drawText(0, fmt.Sprintf("you: %d | other: %d", f.SelfScore, f.OtherScore), styleStatus)
	}

	notice := f.Notice
	if f.Over && notice == "" {
		notice = "disconnected"
	}
	if notice != "" {
		b.drawText(1, notice, styleNotice)
	}
	b.screen.Show()
}

func (b *Board) drawWalls() {
	w := parameter.GridWidth + 2
	h := parameter.GridHeight + 2
	for x := 0; x < w; x++ {
		b.screen.SetContent(b.originX+x, b.originY, parameter.GlyphWall, nil, styleWall)
		b.screen.SetContent(b.originX+x, b.originY+h-1, parameter.GlyphWall, nil, styleWall)
	}
	for y := 1; y < h-1; y++ {
		b.screen.SetContent(b.originX, b.originY+y, parameter.GlyphWall, nil, styleWall)
		b.screen.SetContent(b.originX+w-1, b.originY+y, parameter.GlyphWall, nil, styleWall)
	}
}

// drawEntity rounds the interpolated position to the nearest cell
func (b *Board) drawEntity(v client.Vec, glyph rune, style tcell.Style) {
	row := int(math.Round(v.Row))
	col := int(math.Round(v.Col))
	if row < 0 || row >= parameter.GridHeight || col < 0 || col >= parameter.GridWidth {
		return
	}
	b.screen.SetContent(b.originX+1+col, b.originY+1+row, glyph, nil, style)
}

// drawText writes on status row line, clipped to the board width
func (b *Board) drawText(line int, text string, style tcell.Style) {
	y := b.originY + parameter.GridHeight + 2 + line
	x := b.originX
	width, _ := b.Size()
	for _, r := range text {
		if x-b.originX >= width {
			return
		}
		b.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
