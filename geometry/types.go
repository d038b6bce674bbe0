// Package geometry holds the chart geometry snapshot and the screen to data space mapping.
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// PointerClick is a raw click position in screen space.
type PointerClick struct {
	ScreenX float64
	ScreenY float64
}

// DataPoint is a position in the chart's data space.
type DataPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String returns the point formatted for status lines.
func (p DataPoint) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Rect is an axis aligned box in screen space. X, Y is the top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the screen point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// Margins are the gaps between the chart bounding box and its plot area.
type Margins struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// Range is an axis interval.
type Range struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Valid reports whether the range has a non-zero span.
func (r Range) Valid() bool {
	return r.Max != r.Min
}

// ParseRange parses "min,max".
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("range %q: expected min,max", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	return Range{Min: lo, Max: hi}, nil
}

// ParsePath parses a space separated list of "x,y" pairs.
func ParsePath(s string) ([]DataPoint, error) {
	fields := strings.Fields(s)
	path := make([]DataPoint, 0, len(fields))
	for _, f := range fields {
		r, err := ParseRange(f)
		if err != nil {
			return nil, fmt.Errorf("path point %q: expected x,y", f)
		}
		path = append(path, DataPoint{X: r.Min, Y: r.Max})
	}
	return path, nil
}

// ChartGeometry is a read-only snapshot of the chart widget layout, taken at click time.
type ChartGeometry struct {
	BoundingBox Rect
	Margins     Margins
	XRange      Range
	YRange      Range
}

// PlotArea returns the screen-space rectangle inside the margins.
func (g ChartGeometry) PlotArea() Rect {
	return Rect{
		X:      g.BoundingBox.X + g.Margins.Left,
		Y:      g.BoundingBox.Y + g.Margins.Top,
		Width:  g.BoundingBox.Width - g.Margins.Left - g.Margins.Right,
		Height: g.BoundingBox.Height - g.Margins.Top - g.Margins.Bottom,
	}
}
