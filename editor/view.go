package editor

import (
	"fmt"

	"mapedit/core"
	"mapedit/geometry"
)

// View is the externally visible projection of the machine: what the host
// draws. It is rebuilt after every event.
type View struct {
	Mode     Mode
	Loaded   bool
	Active   Button
	Banner   string
	HasStart bool
	POIs     []core.POI
	XRange   *geometry.Range
	YRange   *geometry.Range

	Obstacles [][]geometry.DataPoint

	Pending   *PendingPoint
	Draft     []geometry.DataPoint
	DraftArea float64

	Dialog   *DialogView
	Alert    *AlertView
	InFlight []core.EditKind
}

// DialogView is the open naming dialog.
type DialogView struct {
	Title   string
	Text    string
	Error   string
	Purpose DialogPurpose
}

// AlertView is the visible error.
type AlertView struct {
	Title           string
	Message         string
	ReloadOnDismiss bool
	Queued          int // alerts waiting behind this one
}

// View builds the current projection.
func (m *Machine) View() View {
	v := View{
		Mode:      m.mode,
		Loaded:    m.loaded,
		Active:    m.mode.activeButton(),
		HasStart:  m.state.HasStart(),
		POIs:      m.state.POIs,
		XRange:    m.state.XRange,
		YRange:    m.state.YRange,
		Obstacles: m.state.Obstacles,
		Draft:     m.draft.Points(),
		InFlight:  m.inFlightKinds(),
	}
	if m.mode == ModeAwaitingObstacleClicks {
		v.DraftArea = m.draft.Area()
	}

	if d := m.dialog; d != nil {
		v.Dialog = &DialogView{Title: d.Title(), Text: d.Text(), Purpose: d.Purpose()}
		if err := d.Err(); err != nil {
			v.Dialog.Error = err.Error()
		}
		if d.Purpose() == PurposeNewPoint {
			p := d.Pending()
			v.Pending = &p
		}
	}

	if m.alert.Visible() {
		title := "Cannot do that"
		if !IsLocal(m.alert.Err()) {
			title = "Server error"
		}
		v.Alert = &AlertView{
			Title:           title,
			Message:         m.alert.Message(),
			ReloadOnDismiss: m.alert.ReloadOnDismiss(),
			Queued:          m.alert.Queued(),
		}
	}

	v.Banner = m.banner()
	return v
}

func (m *Machine) banner() string {
	switch {
	case !m.loaded:
		return "Loading map..."
	case m.alert.Visible():
		return "Press Enter to dismiss"
	case m.dialog != nil:
		return m.dialog.Title() + ", Enter to confirm, Esc to cancel"
	}

	switch m.mode {
	case ModeAwaitingStartClick:
		return "Click the chart to place the start point (s or Esc to cancel)"
	case ModeAwaitingEndClick:
		return "Click the chart to place the end point (e or Esc to cancel)"
	case ModeAwaitingObstacleClicks:
		n := m.draft.Len()
		if n >= 3 {
			return fmt.Sprintf("Obstacle: %d points, area %.2f. Click to add, o to send, Esc to cancel", n, m.draft.Area())
		}
		return fmt.Sprintf("Obstacle: %d points. Click to add, o to send, Esc to cancel", n)
	}

	if m.state.HasStart() {
		return "Press e to place the end point or o to draw an obstacle"
	}
	return "Press s to place the start point or o to draw an obstacle"
}
