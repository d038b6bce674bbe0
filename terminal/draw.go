package terminal

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mapedit/geometry"
)

// drawText writes text starting at x and returns the column after it.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// drawTextClipped writes at most width cells of text.
func drawTextClipped(s tcell.Screen, x, y, width int, style tcell.Style, text string) int {
	if width <= 0 {
		return x
	}
	return drawText(s, x, y, style, runewidth.Truncate(text, width, "…"))
}

// fill paints a rectangle of cells with r.
func fill(s tcell.Screen, x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, r, nil, style)
		}
	}
}

// drawBox draws a single-line frame with a cleared interior.
func drawBox(s tcell.Screen, x, y, w, h int, style tcell.Style, title string) {
	if w < 2 || h < 2 {
		return
	}
	fill(s, x, y, w, h, ' ', style)
	for col := x + 1; col < x+w-1; col++ {
		s.SetContent(col, y, '─', nil, style)
		s.SetContent(col, y+h-1, '─', nil, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		s.SetContent(x, row, '│', nil, style)
		s.SetContent(x+w-1, row, '│', nil, style)
	}
	s.SetContent(x, y, '┌', nil, style)
	s.SetContent(x+w-1, y, '┐', nil, style)
	s.SetContent(x, y+h-1, '└', nil, style)
	s.SetContent(x+w-1, y+h-1, '┘', nil, style)
	if title != "" {
		drawTextClipped(s, x+2, y, w-4, style.Bold(true), " "+title+" ")
	}
}

// wrap splits text into lines of at most width cells.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
			for runewidth.StringWidth(line) > width {
				head := runewidth.Truncate(line, width, "")
				if head == "" {
					break
				}
				lines = append(lines, head)
				line = strings.TrimPrefix(line, head)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// line calls plot for every cell on the segment (x0,y0)-(x1,y1).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := geometry.Abs(x1 - x0)
	dy := -geometry.Abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
