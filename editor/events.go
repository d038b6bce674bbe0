package editor

import (
	"mapedit/core"
	"mapedit/geometry"
)

// Event is an external input consumed by Machine.Dispatch.
type Event interface {
	event()
}

// Command triggers.
type (
	StartPressed    struct{}
	EndPressed      struct{}
	ObstaclePressed struct{}
	// ModeCancelled is Esc: closes the dialog or leaves the active mode.
	ModeCancelled struct{}
	// ReloadRequested asks for a fresh copy of the map state.
	ReloadRequested struct{}
)

// ChartClicked is a raw click together with the geometry read at click time.
// A nil Geometry means the chart has not been rendered yet.
type ChartClicked struct {
	Click    geometry.PointerClick
	Geometry *geometry.ChartGeometry
}

// ChartPicked carries data coordinates reported by the chart itself.
type ChartPicked struct {
	Point geometry.DataPoint
}

// Naming dialog input.
type (
	NameConfirmed struct {
		Name string
	}
	NameCancelled    struct{}
	DialogTyped      struct{ Rune rune }
	DialogErased     struct{}
	DialogWordErased struct{}
	DialogCleared    struct{}
)

// POI list commands.
type (
	DeleteRequested struct{ Name string }
	RenameRequested struct{ Name string }
)

// ErrorDismissed acknowledges the visible alert.
type ErrorDismissed struct{}

// EditCompleted reports the outcome of a SendEdit effect.
type EditCompleted struct {
	Edit   core.Edit
	Result core.Result
	Err    error
}

// MapLoaded delivers freshly derived map state after a Reload effect.
type MapLoaded struct {
	State core.MapState
}

// LoadFailed reports a Reload effect that could not fetch the map.
type LoadFailed struct {
	Err error
}

func (StartPressed) event()     {}
func (EndPressed) event()       {}
func (ObstaclePressed) event()  {}
func (ModeCancelled) event()    {}
func (ReloadRequested) event()  {}
func (ChartClicked) event()     {}
func (ChartPicked) event()      {}
func (NameConfirmed) event()    {}
func (NameCancelled) event()    {}
func (DialogTyped) event()      {}
func (DialogErased) event()     {}
func (DialogWordErased) event() {}
func (DialogCleared) event()    {}
func (DeleteRequested) event()  {}
func (RenameRequested) event()  {}
func (ErrorDismissed) event()   {}
func (EditCompleted) event()    {}
func (MapLoaded) event()        {}
func (LoadFailed) event()       {}
