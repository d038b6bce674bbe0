package geometry

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// MapClickToData converts a screen click into data space using the chart
// geometry read at click time. It returns false when there is no geometry
// (chart not rendered yet) or the plot area is degenerate; the click is then
// ignored by the caller.
//
// Screen y grows downward while data y grows upward, so the y axis is inverted.
func MapClickToData(click PointerClick, g *ChartGeometry) (DataPoint, bool) {
	if g == nil {
		return DataPoint{}, false
	}
	plot := g.PlotArea()
	if plot.Width <= 0 || plot.Height <= 0 {
		return DataPoint{}, false
	}

	// chart-relative, then plot-area-relative pixels
	xInPlot := click.ScreenX - g.BoundingBox.X - g.Margins.Left
	yInPlot := click.ScreenY - g.BoundingBox.Y - g.Margins.Top

	fx := xInPlot / plot.Width
	fy := yInPlot / plot.Height

	return DataPoint{
		X: g.XRange.Min + g.XRange.Span()*fx,
		Y: g.YRange.Max - g.YRange.Span()*fy,
	}, true
}

// ErrDegenerateGeometry is returned when a projection cannot be inverted.
var ErrDegenerateGeometry = errors.New("chart geometry is not invertible")

// Projection is the affine screen->data transform of one chart snapshot,
// kept as a homogeneous 3x3 matrix together with its inverse so data points
// can be drawn back onto the screen.
type Projection struct {
	toData   *mat.Dense
	toScreen *mat.Dense
}

// NewProjection builds the affine matrices for g.
func NewProjection(g ChartGeometry) (*Projection, error) {
	plot := g.PlotArea()
	if plot.Width <= 0 || plot.Height <= 0 || !g.XRange.Valid() || !g.YRange.Valid() {
		return nil, ErrDegenerateGeometry
	}

	sx := g.XRange.Span() / plot.Width
	sy := g.YRange.Span() / plot.Height

	// x = xMin + sx*(px - plot.X)
	// y = yMax - sy*(py - plot.Y)
	toData := mat.NewDense(3, 3, []float64{
		sx, 0, g.XRange.Min - sx*plot.X,
		0, -sy, g.YRange.Max + sy*plot.Y,
		0, 0, 1,
	})

	var toScreen mat.Dense
	if err := toScreen.Inverse(toData); err != nil {
		return nil, ErrDegenerateGeometry
	}

	return &Projection{toData: toData, toScreen: &toScreen}, nil
}

// ToData maps a screen position to data space.
func (p *Projection) ToData(click PointerClick) DataPoint {
	x, y := apply(p.toData, click.ScreenX, click.ScreenY)
	return DataPoint{X: x, Y: y}
}

// ToScreen maps a data point back to a screen position.
func (p *Projection) ToScreen(d DataPoint) (float64, float64) {
	return apply(p.toScreen, d.X, d.Y)
}

func apply(m *mat.Dense, x, y float64) (float64, float64) {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{x, y, 1}))
	return out.AtVec(0), out.AtVec(1)
}
