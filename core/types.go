// Package core contains the domain types shared by the editor, the backend client and the terminal host.
package core

import (
	"fmt"
	"strings"

	"mapedit/geometry"
)

// PointKind is the type of a point of interest as the backend spells it.
type PointKind string

const (
	KindStart PointKind = "start"
	KindEnd   PointKind = "end"
)

// ParsePointKind normalizes a raw type attribute.
func ParsePointKind(s string) (PointKind, bool) {
	switch PointKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindStart:
		return KindStart, true
	case KindEnd:
		return KindEnd, true
	default:
		return "", false
	}
}

// POI is a named start or end point rendered on the map.
type POI struct {
	Name string    `json:"name"`
	Kind PointKind `json:"type"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	// HasPosition is false when the page listed the POI without coordinates.
	HasPosition bool `json:"-"`
}

// Point returns the POI position in data space.
func (p POI) Point() geometry.DataPoint {
	return geometry.DataPoint{X: p.X, Y: p.Y}
}

// MapState is the authoritative map view, re-derived from the page on every load.
// It is never patched locally after an edit.
type MapState struct {
	MapID  string
	POIs   []POI
	XRange *geometry.Range
	YRange *geometry.Range
	// Obstacles committed on the server, each in vertex order.
	Obstacles [][]geometry.DataPoint
}

// HasStart reports whether the map already has a start point.
func (s MapState) HasStart() bool {
	for _, p := range s.POIs {
		if p.Kind == KindStart {
			return true
		}
	}
	return false
}

// Find returns the POI with the given name.
func (s MapState) Find(name string) (POI, bool) {
	for _, p := range s.POIs {
		if p.Name == name {
			return p, true
		}
	}
	return POI{}, false
}

// EditKind identifies one of the four backend mutations.
type EditKind int

const (
	EditAddPoint EditKind = iota
	EditDeletePoint
	EditRenamePoint
	EditAddObstacle
)

// String returns the backend operation name, which is also the endpoint prefix.
func (k EditKind) String() string {
	switch k {
	case EditAddPoint:
		return "add_poi"
	case EditDeletePoint:
		return "delete_poi"
	case EditRenamePoint:
		return "rename_poi"
	case EditAddObstacle:
		return "add_obstacle"
	default:
		return "unknown"
	}
}

// Edit is a pending map mutation ready to be sent.
type Edit struct {
	Kind EditKind

	// add_poi
	Point     geometry.DataPoint
	PointKind PointKind
	Name      string

	// rename_poi
	OldName string
	NewName string

	// add_obstacle, in click order
	Obstacle []geometry.DataPoint
}

// String describes the edit for logs and alerts.
func (e Edit) String() string {
	switch e.Kind {
	case EditAddPoint:
		return fmt.Sprintf("add %s point %q at %s", e.PointKind, e.Name, e.Point)
	case EditDeletePoint:
		return fmt.Sprintf("delete point %q", e.Name)
	case EditRenamePoint:
		return fmt.Sprintf("rename point %q to %q", e.OldName, e.NewName)
	case EditAddObstacle:
		return fmt.Sprintf("add obstacle with %d points", len(e.Obstacle))
	default:
		return "unknown edit"
	}
}

// Result is the backend response body shared by all mutation endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
