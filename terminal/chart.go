package terminal

import (
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mapedit/core"
	"mapedit/editor"
	"mapedit/geometry"
)

// Chart is the terminal chart widget. Its bounding box and margins are in
// cells; one cell is one screen unit of the chart geometry.
type Chart struct {
	margins geometry.Margins
	xRange  geometry.Range
	yRange  geometry.Range
	box     geometry.Rect
	laidOut bool

	// markers rendered by the last Draw, used to snap native picks
	markers []marker
}

type marker struct {
	x, y  int
	point geometry.DataPoint
}

// NewChart returns a chart that is not laid out yet.
func NewChart(margins geometry.Margins, xRange, yRange geometry.Range) *Chart {
	return &Chart{margins: margins, xRange: xRange, yRange: yRange}
}

// Layout places the chart on screen.
func (c *Chart) Layout(box geometry.Rect) {
	c.box = box
	c.laidOut = true
}

// SetRanges updates the axis ranges.
func (c *Chart) SetRanges(x, y geometry.Range) {
	c.xRange, c.yRange = x, y
}

// Geometry returns a snapshot of the current layout, or nil before the first layout.
func (c *Chart) Geometry() *geometry.ChartGeometry {
	if !c.laidOut {
		return nil
	}
	return &geometry.ChartGeometry{
		BoundingBox: c.box,
		Margins:     c.margins,
		XRange:      c.xRange,
		YRange:      c.yRange,
	}
}

// InPlot reports whether the cell lies inside the plot area.
func (c *Chart) InPlot(x, y int) bool {
	g := c.Geometry()
	if g == nil {
		return false
	}
	return g.PlotArea().Contains(float64(x), float64(y))
}

// Pick reports the data coordinates of a clicked cell the way the chart
// itself sees them: a rendered marker within one cell wins, otherwise the
// cell centre is used.
func (c *Chart) Pick(x, y int) (geometry.DataPoint, bool) {
	if !c.InPlot(x, y) {
		return geometry.DataPoint{}, false
	}

	best, bestDist := -1, math.MaxInt
	for i, m := range c.markers {
		dx, dy := geometry.Abs(m.x-x), geometry.Abs(m.y-y)
		if dx > 1 || dy > 1 {
			continue
		}
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return c.markers[best].point, true
	}

	proj, err := geometry.NewProjection(*c.Geometry())
	if err != nil {
		return geometry.DataPoint{}, false
	}
	return proj.ToData(geometry.PointerClick{ScreenX: float64(x) + 0.5, ScreenY: float64(y) + 0.5}), true
}

// cellOf maps a data point to the plot cell that contains it.
func (c *Chart) cellOf(proj *geometry.Projection, plot geometry.Rect, p geometry.DataPoint) (int, int, bool) {
	const eps = 1e-6 // rounding on plot edges
	sx, sy := proj.ToScreen(p)
	if sx < plot.X-eps || sx > plot.X+plot.Width+eps || sy < plot.Y-eps || sy > plot.Y+plot.Height+eps {
		return 0, 0, false
	}
	x := geometry.Clamp(int(math.Floor(sx+eps)), int(plot.X), int(plot.X+plot.Width)-1)
	y := geometry.Clamp(int(math.Floor(sy+eps)), int(plot.Y), int(plot.Y+plot.Height)-1)
	return x, y, true
}

// Draw renders axes, POIs, the obstacle draft and the pending point.
func (c *Chart) Draw(s tcell.Screen, v editor.View) {
	c.markers = c.markers[:0]

	g := c.Geometry()
	if g == nil {
		return
	}
	proj, err := geometry.NewProjection(*g)
	if err != nil {
		drawTextClipped(s, int(c.box.X), int(c.box.Y), int(c.box.Width), styleDim, "window too small for the chart")
		return
	}
	plot := g.PlotArea()
	c.drawAxes(s, plot)

	// committed obstacles under everything else; not pick targets
	for _, path := range v.Obstacles {
		var prev [2]int
		havePrev := false
		for _, p := range path {
			x, y, ok := c.cellOf(proj, plot, p)
			if !ok {
				havePrev = false
				continue
			}
			if havePrev {
				line(prev[0], prev[1], x, y, func(x, y int) {
					s.SetContent(x, y, '▒', nil, styleObstacle)
				})
			}
			s.SetContent(x, y, '▒', nil, styleObstacle)
			prev, havePrev = [2]int{x, y}, true
		}
	}

	// obstacle draft: edges first so vertices stay visible
	var cells [][2]int
	for _, p := range v.Draft {
		if x, y, ok := c.cellOf(proj, plot, p); ok {
			cells = append(cells, [2]int{x, y})
			c.markers = append(c.markers, marker{x: x, y: y, point: p})
		}
	}
	for i := 1; i < len(cells); i++ {
		line(cells[i-1][0], cells[i-1][1], cells[i][0], cells[i][1], func(x, y int) {
			s.SetContent(x, y, '·', nil, styleDraft)
		})
	}
	for _, cell := range cells {
		s.SetContent(cell[0], cell[1], '◆', nil, styleDraft)
	}

	right := int(plot.X + plot.Width)
	for _, poi := range v.POIs {
		if !poi.HasPosition {
			continue
		}
		x, y, ok := c.cellOf(proj, plot, poi.Point())
		if !ok {
			continue
		}
		glyph, style := 'E', styleEnd
		if poi.Kind == core.KindStart {
			glyph, style = 'S', styleStart
		}
		s.SetContent(x, y, glyph, nil, style)
		drawTextClipped(s, x+2, y, right-x-2, styleDim, poi.Name)
		c.markers = append(c.markers, marker{x: x, y: y, point: poi.Point()})
	}

	if v.Pending != nil {
		if x, y, ok := c.cellOf(proj, plot, v.Pending.Point); ok {
			s.SetContent(x, y, '?', nil, stylePending)
		}
	}
}

func (c *Chart) drawAxes(s tcell.Screen, plot geometry.Rect) {
	left, top := int(plot.X), int(plot.Y)
	right, bottom := int(plot.X+plot.Width), int(plot.Y+plot.Height)
	boxLeft := int(c.box.X)
	boxBottom := int(c.box.Y + c.box.Height)

	axisX := left - 1
	if axisX >= boxLeft {
		for y := top; y < bottom; y++ {
			s.SetContent(axisX, y, '│', nil, styleAxis)
		}
	}
	if bottom < boxBottom {
		for x := left; x < right; x++ {
			s.SetContent(x, bottom, '─', nil, styleAxis)
		}
		if axisX >= boxLeft {
			s.SetContent(axisX, bottom, '└', nil, styleAxis)
		}
	}

	// y ticks right-aligned against the axis, x ticks under it
	marginW := axisX - boxLeft
	ticks := []struct {
		row   int
		value float64
	}{
		{top, c.yRange.Max},
		{top + (bottom-1-top)/2, geometry.Lerp(c.yRange.Max, c.yRange.Min, 0.5)},
		{bottom - 1, c.yRange.Min},
	}
	for _, t := range ticks {
		label := formatTick(t.value)
		if w := runewidth.StringWidth(label); w <= marginW {
			drawText(s, axisX-w, t.row, styleDim, label)
		}
	}

	if bottom+1 < boxBottom {
		lo, hi := formatTick(c.xRange.Min), formatTick(c.xRange.Max)
		drawText(s, left, bottom+1, styleDim, lo)
		if hiX := right - runewidth.StringWidth(hi); hiX > left+runewidth.StringWidth(lo) {
			drawText(s, hiX, bottom+1, styleDim, hi)
		}
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
