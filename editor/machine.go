// Package editor is the interaction state machine of the map editor. Every
// external input is a typed Event consumed synchronously by Machine.Dispatch;
// network work leaves the machine as Effects and comes back as events.
package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"mapedit/core"
	"mapedit/geometry"
	"mapedit/metrics"
	"mapedit/obstacles"
)

// noPathMarker in a rejection message means the backend rolled its own state
// back, so the map is refetched once the user acknowledges the alert.
const noPathMarker = "no path found"

const defaultRejection = "the server rejected the edit"

// Machine owns the interaction mode, the map state of the last load, the
// naming dialog, the obstacle draft, the alert and the in-flight set.
// It is not safe for concurrent use; the host feeds it from one goroutine.
type Machine struct {
	mode      Mode
	state     core.MapState
	loaded    bool
	reloading bool
	// reloadAgain is set when a refetch is asked for while one is running;
	// the running one may have been served before the latest edit landed.
	reloadAgain bool

	dialog   *NamingDialog // nil when closed
	draft    obstacles.Draft
	alert    ErrorPresenter
	inFlight map[core.EditKind]bool

	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewMachine creates an idle machine with no map loaded. Call Init to get the first load.
func NewMachine(log zerolog.Logger, m *metrics.Metrics) *Machine {
	return &Machine{
		mode:     ModeIdle,
		inFlight: make(map[core.EditKind]bool),
		log:      log,
		metrics:  m,
	}
}

// Init returns the effect that loads the map for the first time.
func (m *Machine) Init() []Effect {
	return m.reload()
}

// Mode returns the active interaction mode.
func (m *Machine) Mode() Mode { return m.mode }

// State returns the map state of the last successful load.
func (m *Machine) State() core.MapState { return m.state }

// Dialog returns the open naming dialog, or nil.
func (m *Machine) Dialog() *NamingDialog { return m.dialog }

// Alert returns the error presenter.
func (m *Machine) Alert() *ErrorPresenter { return &m.alert }

// Draft returns the obstacle draft.
func (m *Machine) Draft() *obstacles.Draft { return &m.draft }

// InFlight reports whether an edit of kind k awaits its response.
func (m *Machine) InFlight(k core.EditKind) bool { return m.inFlight[k] }

// Dispatch consumes one event and returns the effects the host must run.
func (m *Machine) Dispatch(ev Event) []Effect {
	// Round trip outcomes are always processed.
	switch ev := ev.(type) {
	case EditCompleted:
		return m.editCompleted(ev)
	case MapLoaded:
		return m.mapLoaded(ev)
	case LoadFailed:
		return m.loadFailed(ev)
	case ErrorDismissed:
		return m.dismiss()
	}

	// A visible alert blocks everything else until dismissed.
	if m.alert.Visible() {
		return nil
	}

	if m.dialog != nil {
		return m.dialogEvent(ev)
	}

	// Commands are ignored until the first load tells us whether a start exists.
	if !m.loaded {
		return nil
	}

	switch ev := ev.(type) {
	case StartPressed:
		return m.pointCommand(ModeAwaitingStartClick)
	case EndPressed:
		return m.pointCommand(ModeAwaitingEndClick)
	case ObstaclePressed:
		return m.obstacleCommand()
	case ModeCancelled:
		m.draft.Reset()
		m.setMode(ModeIdle)
	case ChartClicked:
		p, ok := geometry.MapClickToData(ev.Click, ev.Geometry)
		if !ok {
			return nil
		}
		return m.chartPoint(p)
	case ChartPicked:
		return m.chartPoint(ev.Point)
	case DeleteRequested:
		return m.deletePoint(ev.Name)
	case RenameRequested:
		if m.mode != ModeIdle {
			return nil
		}
		if _, ok := m.state.Find(ev.Name); !ok {
			return nil
		}
		m.dialog = renameDialog(ev.Name)
	case ReloadRequested:
		if m.mode == ModeIdle {
			return m.reload()
		}
	}
	return nil
}

// dialogEvent handles input while the naming dialog blocks mode changes.
func (m *Machine) dialogEvent(ev Event) []Effect {
	switch ev := ev.(type) {
	case DialogTyped:
		m.dialog.Insert(ev.Rune)
	case DialogErased:
		m.dialog.Backspace()
	case DialogWordErased:
		m.dialog.DeleteWord()
	case DialogCleared:
		m.dialog.Clear()
	case NameConfirmed:
		edit, err := m.dialog.Confirm(ev.Name)
		if err != nil {
			m.metrics.IncLocalRejection(rejectionKind(err))
			m.log.Debug().Err(err).Msg("name rejected")
			return nil
		}
		m.dialog = nil
		m.setMode(ModeIdle)
		return m.submit(edit)
	case NameCancelled, ModeCancelled:
		m.dialog = nil
		m.setMode(ModeIdle)
	}
	return nil
}

// pointCommand handles the start and end triggers. Pressing the trigger of
// the active mode toggles back to idle.
func (m *Machine) pointCommand(target Mode) []Effect {
	if m.mode == target {
		m.setMode(ModeIdle)
		return nil
	}

	hasStart := m.state.HasStart()
	switch {
	case target == ModeAwaitingStartClick && hasStart:
		return m.reject(ErrDuplicateStart)
	case target == ModeAwaitingEndClick && !hasStart:
		return m.reject(ErrMissingStart)
	}

	m.draft.Reset()
	m.setMode(target)
	return nil
}

// obstacleCommand enters obstacle mode on the first press and commits the
// draft on the second. The draft is reset after every commit attempt.
func (m *Machine) obstacleCommand() []Effect {
	if m.mode != ModeAwaitingObstacleClicks {
		m.draft.Reset()
		m.setMode(ModeAwaitingObstacleClicks)
		return nil
	}

	points, err := m.draft.Commit()
	if b, ok := m.draft.Bound(); ok && err == nil {
		m.log.Debug().
			Int("points", len(points)).
			Float64("area", m.draft.Area()).
			Floats64("min", []float64{b.Min.X(), b.Min.Y()}).
			Floats64("max", []float64{b.Max.X(), b.Max.Y()}).
			Msg("obstacle committed")
	}
	m.draft.Reset()
	m.setMode(ModeIdle)
	if err != nil {
		return m.reject(err)
	}
	return m.submit(core.Edit{Kind: core.EditAddObstacle, Obstacle: points})
}

func (m *Machine) chartPoint(p geometry.DataPoint) []Effect {
	switch m.mode {
	case ModeAwaitingStartClick:
		m.setMode(ModeIdle)
		m.dialog = newPointDialog(PendingPoint{Point: p, Kind: core.KindStart})
	case ModeAwaitingEndClick:
		m.setMode(ModeIdle)
		m.dialog = newPointDialog(PendingPoint{Point: p, Kind: core.KindEnd})
	case ModeAwaitingObstacleClicks:
		m.draft.AddPoint(p)
		m.log.Debug().Int("points", m.draft.Len()).Str("point", p.String()).Msg("obstacle point added")
	}
	return nil
}

func (m *Machine) deletePoint(name string) []Effect {
	if m.mode != ModeIdle {
		return nil
	}
	if _, ok := m.state.Find(name); !ok {
		return nil
	}
	return m.submit(core.Edit{Kind: core.EditDeletePoint, Name: name})
}

// submit emits a SendEdit unless an edit of the same kind is still in flight.
func (m *Machine) submit(e core.Edit) []Effect {
	if m.inFlight[e.Kind] {
		return m.reject(fmt.Errorf("%s: %w", e.Kind, ErrRequestInFlight))
	}
	m.inFlight[e.Kind] = true
	m.log.Info().Str("op", e.Kind.String()).Str("edit", e.String()).Msg("edit submitted")
	return []Effect{SendEdit{Edit: e}}
}

// reject aborts the current action with a local error shown through the presenter.
func (m *Machine) reject(err error) []Effect {
	m.metrics.IncLocalRejection(rejectionKind(err))
	m.log.Debug().Err(err).Str("mode", m.mode.String()).Msg("action rejected")
	m.fail(err, false)
	return nil
}

// fail discards all drafts, returns to idle and shows err.
func (m *Machine) fail(err error, reloadOnDismiss bool) {
	m.resetLocal()
	m.alert.Show(err, reloadOnDismiss)
}

func (m *Machine) dismiss() []Effect {
	if !m.alert.Visible() {
		return nil
	}
	reload := m.alert.Dismiss()
	m.resetLocal()
	if reload {
		return m.reload()
	}
	return nil
}

func (m *Machine) editCompleted(ev EditCompleted) []Effect {
	delete(m.inFlight, ev.Edit.Kind)

	if ev.Err != nil {
		m.log.Warn().Err(ev.Err).Str("op", ev.Edit.Kind.String()).Msg("edit failed")
		m.fail(&BackendRejectedError{Message: ev.Err.Error(), Err: ev.Err}, false)
		return nil
	}

	if !ev.Result.Success {
		msg := strings.TrimSpace(ev.Result.Message)
		if msg == "" {
			msg = defaultRejection
		}
		reload := strings.Contains(strings.ToLower(msg), noPathMarker)
		m.log.Warn().
			Str("op", ev.Edit.Kind.String()).
			Str("message", msg).
			Bool("reload_on_dismiss", reload).
			Msg("edit rejected")
		m.fail(&BackendRejectedError{Message: msg}, reload)
		return nil
	}

	m.log.Info().Str("op", ev.Edit.Kind.String()).Msg("edit applied")
	return m.reload()
}

// mapLoaded replaces the map state and discards local drafts. A visible alert
// stays up until dismissed.
func (m *Machine) mapLoaded(ev MapLoaded) []Effect {
	m.reloading = false
	m.loaded = true
	m.state = ev.State
	m.resetLocal()
	m.log.Debug().
		Int("pois", len(ev.State.POIs)).
		Bool("has_start", ev.State.HasStart()).
		Msg("map state replaced")
	return m.followUpReload()
}

// loadFailed keeps the previous state. Dismissing the alert retries.
func (m *Machine) loadFailed(ev LoadFailed) []Effect {
	m.reloading = false
	if ev.Err == nil {
		ev.Err = errors.New("unknown error")
	}
	m.log.Error().Err(ev.Err).Msg("map load failed")
	m.fail(&BackendRejectedError{Message: "could not load the map: " + ev.Err.Error(), Err: ev.Err}, true)
	return m.followUpReload()
}

func (m *Machine) reload() []Effect {
	if m.reloading {
		m.reloadAgain = true
		return nil
	}
	m.reloading = true
	return []Effect{Reload{}}
}

// followUpReload issues the refetch queued while the last one was running.
func (m *Machine) followUpReload() []Effect {
	if !m.reloadAgain {
		return nil
	}
	m.reloadAgain = false
	m.log.Debug().Msg("refetching after a coalesced reload")
	return m.reload()
}

func (m *Machine) resetLocal() {
	m.dialog = nil
	m.draft.Reset()
	m.setMode(ModeIdle)
}

func (m *Machine) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.log.Debug().Str("from", m.mode.String()).Str("mode", mode.String()).Msg("mode changed")
	m.mode = mode
}

// inFlightKinds returns the pending edit kinds in a stable order.
func (m *Machine) inFlightKinds() []core.EditKind {
	kinds := make([]core.EditKind, 0, len(m.inFlight))
	for k := range m.inFlight {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// IsLocal reports whether err was detected without a round trip.
func IsLocal(err error) bool {
	var rejected *BackendRejectedError
	return err != nil && !errors.As(err, &rejected)
}
