package core

// Color is a foreground color for a screen cell. The presentation layer maps
// each value to an ANSI 256-color code.
type Color uint8

// Colors used by the runner view.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
)
