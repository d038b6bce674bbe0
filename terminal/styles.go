package terminal

import "github.com/gdamore/tcell/v2"

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Reverse(true).Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleAxis     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleButton   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
	styleDisabled = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleStart    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnd      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleDraft    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePending  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true).Blink(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleBanner   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBox      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack).Bold(true)
)
