package render

import "github.com/gdamore/tcell/v2"

// RGB colors for board elements
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall       = tcell.NewRGBColor(90, 90, 110)   // Muted slate
	RgbSelf       = tcell.NewRGBColor(50, 255, 50)   // Bright green
	RgbOther      = tcell.NewRGBColor(255, 80, 80)   // Normal red
	RgbCoin       = tcell.NewRGBColor(255, 255, 0)   // Gold
	RgbStatusText = tcell.NewRGBColor(255, 255, 255) // White
	RgbNoticeText = tcell.NewRGBColor(135, 206, 250) // Light sky blue
)

var (
	styleBase   = tcell.StyleDefault.Background(RgbBackground)
	styleWall   = styleBase.Foreground(RgbWall)
	styleSelf   = styleBase.Foreground(RgbSelf).Bold(true)
	styleOther  = styleBase.Foreground(RgbOther).Bold(true)
	styleCoin   = styleBase.Foreground(RgbCoin)
	styleStatus = styleBase.Foreground(RgbStatusText)
	styleNotice = styleBase.Foreground(RgbNoticeText)
)
