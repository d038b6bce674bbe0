// Package obstacles accumulates the clicked vertices of an obstacle before it is sent.
package obstacles

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"mapedit/geometry"
)

// MinPoints is the smallest number of vertices the backend accepts for an obstacle.
const MinPoints = 2

// ErrInsufficientPoints is returned by Commit when fewer than MinPoints were collected.
var ErrInsufficientPoints = errors.New("an obstacle needs at least 2 points")

// Draft is the ordered list of points clicked while obstacle mode is active.
// The zero value is an empty draft.
type Draft struct {
	points []geometry.DataPoint
}

// AddPoint appends p. There is no upper bound.
func (d *Draft) AddPoint(p geometry.DataPoint) {
	d.points = append(d.points, p)
}

// Len returns the number of collected points.
func (d *Draft) Len() int {
	return len(d.points)
}

// Points returns a copy of the collected points in click order.
func (d *Draft) Points() []geometry.DataPoint {
	if len(d.points) == 0 {
		return nil
	}
	out := make([]geometry.DataPoint, len(d.points))
	copy(out, d.points)
	return out
}

// Commit returns the points to send. It does not clear the draft; callers
// reset after every commit attempt whatever the outcome.
func (d *Draft) Commit() ([]geometry.DataPoint, error) {
	if len(d.points) < MinPoints {
		return nil, ErrInsufficientPoints
	}
	return d.Points(), nil
}

// Reset clears the draft unconditionally.
func (d *Draft) Reset() {
	d.points = nil
}

// Ring returns the draft as a closed ring for previews.
func (d *Draft) Ring() orb.Ring {
	if len(d.points) == 0 {
		return nil
	}
	ring := make(orb.Ring, 0, len(d.points)+1)
	for _, p := range d.points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area returns the planar area enclosed by the draft, or 0 below three points.
// It is informational only; self-intersecting drafts are not rejected.
func (d *Draft) Area() float64 {
	if len(d.points) < 3 {
		return 0
	}
	return math.Abs(planar.Area(d.Ring()))
}

// Bound returns the bounding box of the collected points.
func (d *Draft) Bound() (orb.Bound, bool) {
	if len(d.points) == 0 {
		return orb.Bound{}, false
	}
	return d.Ring().Bound(), true
}
