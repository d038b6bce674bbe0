package terminal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"mapedit/core"
	"mapedit/editor"
	"mapedit/geometry"
)

const (
	sidebarWidth  = 26
	minChartWidth = 30
	dialogWidth   = 46
)

// draw repaints the whole screen from the machine's view.
func (a *App) draw() {
	a.screen.Clear()
	a.screen.HideCursor()
	w, h := a.screen.Size()
	v := a.machine.View()

	if a.selected >= len(v.POIs) {
		a.selected = len(v.POIs) - 1
	}

	a.drawTitle(w, v)
	a.drawButtons(v)

	chartW := w
	a.listTop = -1
	if w-sidebarWidth >= minChartWidth {
		chartW = w - sidebarWidth
		a.drawSidebar(chartW, 2, sidebarWidth, h-4, v)
	}

	xr, yr := a.opts.XRange, a.opts.YRange
	if v.XRange != nil {
		xr = *v.XRange
	}
	if v.YRange != nil {
		yr = *v.YRange
	}
	a.chart.SetRanges(xr, yr)
	a.chart.Layout(geometry.Rect{X: 0, Y: 2, Width: float64(chartW), Height: float64(h - 4)})
	a.chart.Draw(a.screen, v)

	drawTextClipped(a.screen, 0, h-2, w, styleBanner, v.Banner)
	a.drawStatus(w, h-1, v)

	switch {
	case a.showHelp:
		a.drawHelp(w, h)
	case v.Alert != nil:
		a.drawAlert(w, h, v.Alert)
	case v.Dialog != nil:
		a.drawDialog(w, h, v.Dialog)
	}
}

func (a *App) drawTitle(w int, v editor.View) {
	fill(a.screen, 0, 0, w, 1, ' ', styleTitle)
	title := fmt.Sprintf(" mapedit │ map %s │ %s ", a.opts.MapID, v.Mode)
	drawTextClipped(a.screen, 0, 0, w, styleTitle, title)
}

// drawButtons renders the command triggers and records their hit areas.
// The highlighted button is the projection of the active mode.
func (a *App) drawButtons(v editor.View) {
	a.buttons = a.buttons[:0]
	buttons := []struct {
		button  editor.Button
		label   string
		enabled bool
	}{
		{editor.ButtonStart, " [s] Start ", !v.HasStart},
		{editor.ButtonEnd, " [e] End ", v.HasStart},
		{editor.ButtonObstacle, " [o] Obstacle ", true},
	}

	x := 1
	for _, b := range buttons {
		style := styleButton
		switch {
		case v.Active == b.button:
			style = styleActive
		case !b.enabled || !v.Loaded:
			style = styleDisabled
		}
		end := drawText(a.screen, x, 1, style, b.label)
		a.buttons = append(a.buttons, buttonArea{button: b.button, x: x, y: 1, width: end - x})
		x = end + 1
	}
}

func (a *App) drawSidebar(x, y, w, h int, v editor.View) {
	for row := y; row < y+h; row++ {
		a.screen.SetContent(x, row, '│', nil, styleAxis)
	}
	drawText(a.screen, x+2, y, styleDim.Bold(true), fmt.Sprintf("Points (%d)", len(v.POIs)))

	a.listX = x + 1
	a.listTop = y + 1
	for i, poi := range v.POIs {
		row := a.listTop + i
		if row >= y+h {
			break
		}
		glyph, style := "E", styleEnd
		if poi.Kind == core.KindStart {
			glyph, style = "S", styleStart
		}
		if i == a.selected {
			fill(a.screen, x+1, row, w-1, 1, ' ', styleSelected)
			style = style.Reverse(true)
		}
		drawText(a.screen, x+2, row, style, glyph)
		nameStyle := styleDefault
		if i == a.selected {
			nameStyle = styleSelected
		}
		drawTextClipped(a.screen, x+4, row, w-5, nameStyle, poi.Name)
	}
}

func (a *App) drawStatus(w, y int, v editor.View) {
	status := fmt.Sprintf("[ %s ] Points: %d | Mode: %s", a.opts.MapID, len(v.POIs), v.Mode)
	if len(v.InFlight) > 0 {
		ops := make([]string, len(v.InFlight))
		for i, k := range v.InFlight {
			ops[i] = k.String()
		}
		status += " | Sending: " + strings.Join(ops, ", ")
	}
	end := drawTextClipped(a.screen, 0, y, w, styleDim, status)

	hint := editor.GetCompactHelp()
	if hx := w - runewidth.StringWidth(hint); hx > end+2 {
		drawText(a.screen, hx, y, styleDim, hint)
	}
}

func (a *App) drawDialog(w, h int, d *editor.DialogView) {
	bw := min(dialogWidth, w-2)
	bx, by := (w-bw)/2, (h-7)/2
	drawBox(a.screen, bx, by, bw, 7, styleBox, d.Title)

	prompt := "> " + d.Text
	// keep the tail of long input visible
	for len(prompt) > 2 && runewidth.StringWidth(prompt) > bw-4 {
		_, size := utf8.DecodeRuneInString(prompt[2:])
		prompt = "> " + prompt[2+size:]
	}
	end := drawText(a.screen, bx+2, by+2, styleBox, prompt)
	a.screen.ShowCursor(end, by+2)

	if d.Error != "" {
		drawTextClipped(a.screen, bx+2, by+4, bw-4, styleError, d.Error)
	}
	drawTextClipped(a.screen, bx+2, by+5, bw-4, styleDim, "Enter confirm · Esc cancel")
}

func (a *App) drawAlert(w, h int, al *editor.AlertView) {
	bw := min(dialogWidth, w-2)
	lines := wrap(al.Message, bw-4)
	bh := len(lines) + 4
	bx, by := (w-bw)/2, (h-bh)/2
	drawBox(a.screen, bx, by, bw, bh, styleError, al.Title)
	for i, l := range lines {
		drawText(a.screen, bx+2, by+1+i, styleBox, l)
	}
	hint := "Enter to dismiss"
	if al.ReloadOnDismiss {
		hint = "Enter to dismiss and reload the map"
	}
	if al.Queued > 0 {
		hint += fmt.Sprintf(" (%d more)", al.Queued)
	}
	drawTextClipped(a.screen, bx+2, by+bh-2, bw-4, styleDim, hint)
}

func (a *App) drawHelp(w, h int) {
	lines := strings.Split(strings.TrimRight(editor.GetHelpText(), "\n"), "\n")
	bw := 0
	for _, l := range lines {
		bw = max(bw, runewidth.StringWidth(l))
	}
	x, y := max((w-bw)/2, 0), max((h-len(lines))/2, 0)
	for i, l := range lines {
		drawText(a.screen, x, y+i, styleBox, l)
	}
}
