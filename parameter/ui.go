package parameter

import "time"

// Client timing
const (
	// InterpolationWindow is the time an entity takes to glide from its previous to its target cell
	InterpolationWindow = 200 * time.Millisecond

	// FrameInterval is the render cadence (~60 FPS)
	FrameInterval = 16 * time.Millisecond
)

// Board glyphs
const (
	GlyphWall  = '#'
	GlyphSelf  = '@'
	GlyphOther = '&'
	GlyphCoin  = '$'
	GlyphEmpty = ' '

	// StatusRows is the number of text rows drawn below the board
	StatusRows = 2
)
