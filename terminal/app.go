// Package terminal hosts the map editor in a tcell screen: it draws the
// machine's view, turns keys and mouse clicks into editor events and runs
// effects off the event loop.
package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"mapedit/config"
	"mapedit/editor"
	"mapedit/geometry"
)

// Runner performs an editor effect and returns the event reporting its outcome.
type Runner interface {
	Run(ctx context.Context, eff editor.Effect) editor.Event
}

// Options configures an App.
type Options struct {
	MapID     string
	ClickMode string // config.ClickManual or config.ClickNative
	Margins   geometry.Margins
	XRange    geometry.Range
	YRange    geometry.Range
	Log       zerolog.Logger
}

// App is the terminal host. All machine access happens on the goroutine running Run.
type App struct {
	screen  tcell.Screen
	machine *editor.Machine
	runner  Runner
	chart   *Chart
	opts    Options
	log     zerolog.Logger
	ctx     context.Context

	selected      int // index into the POI list, -1 for none
	showHelp      bool
	leftMouseDown bool
	buttons       []buttonArea
	listTop       int // first screen row of the POI list, -1 when hidden
	listX         int

	// spawn runs effect work; deliver hands the result back to the loop.
	// Both are swapped out in tests.
	spawn   func(func())
	deliver func(editor.Event)
}

type buttonArea struct {
	button editor.Button
	x, y   int
	width  int
}

// machineEvent carries an editor event through the tcell event queue.
type machineEvent struct {
	tcell.EventTime
	ev editor.Event
}

func newMachineEvent(ev editor.Event) *machineEvent {
	e := &machineEvent{ev: ev}
	e.SetEventNow()
	return e
}

// New creates an App on an initialized screen.
func New(screen tcell.Screen, m *editor.Machine, r Runner, opts Options) *App {
	if opts.ClickMode == "" {
		opts.ClickMode = config.ClickManual
	}
	a := &App{
		screen:   screen,
		machine:  m,
		runner:   r,
		chart:    NewChart(opts.Margins, opts.XRange, opts.YRange),
		opts:     opts,
		log:      opts.Log,
		ctx:      context.Background(),
		selected: -1,
		listTop:  -1,
	}
	a.spawn = func(f func()) { go f() }
	a.deliver = a.post
	return a
}

// Run loads the map and processes events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	a.screen.EnableMouse()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	a.apply(a.machine.Init())

	for {
		a.draw()
		a.screen.Show()

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil // screen finalized
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *machineEvent:
			a.dispatch(ev.ev)
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

// dispatch feeds the machine and starts the effects it returns.
func (a *App) dispatch(ev editor.Event) {
	a.apply(a.machine.Dispatch(ev))
}

func (a *App) apply(effects []editor.Effect) {
	for _, eff := range effects {
		a.spawn(func() {
			if ev := a.runner.Run(a.ctx, eff); ev != nil {
				a.deliver(ev)
			}
		})
	}
}

// post queues ev for the loop, retrying while the queue is full.
func (a *App) post(ev editor.Event) {
	me := newMachineEvent(ev)
	for {
		err := a.screen.PostEvent(me)
		if err == nil {
			return
		}
		select {
		case <-a.ctx.Done():
			a.log.Warn().Err(err).Msg("dropping result after shutdown")
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// handleKey processes one key and reports whether the app should exit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if a.showHelp {
		a.showHelp = false
		return false
	}

	v := a.machine.View()
	switch {
	case v.Alert != nil:
		switch ev.Key() {
		case tcell.KeyEnter, tcell.KeyEscape:
			a.dispatch(editor.ErrorDismissed{})
		case tcell.KeyRune:
			if ev.Rune() == ' ' {
				a.dispatch(editor.ErrorDismissed{})
			}
		}
		return false
	case v.Dialog != nil:
		a.handleDialogKey(ev, v.Dialog)
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		a.dispatch(editor.ModeCancelled{})
	case tcell.KeyTab:
		a.moveSelection(1, len(v.POIs))
	case tcell.KeyBacktab:
		a.moveSelection(-1, len(v.POIs))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 's':
			a.dispatch(editor.StartPressed{})
		case 'e':
			a.dispatch(editor.EndPressed{})
		case 'o':
			a.dispatch(editor.ObstaclePressed{})
		case 'x':
			if name, ok := a.selectedName(v); ok {
				a.dispatch(editor.DeleteRequested{Name: name})
			}
		case 'r':
			if name, ok := a.selectedName(v); ok {
				a.dispatch(editor.RenameRequested{Name: name})
			}
		case 'R':
			a.dispatch(editor.ReloadRequested{})
		case '?':
			a.showHelp = true
		}
	}
	return false
}

func (a *App) handleDialogKey(ev *tcell.EventKey, d *editor.DialogView) {
	switch ev.Key() {
	case tcell.KeyEnter:
		a.dispatch(editor.NameConfirmed{Name: d.Text})
	case tcell.KeyEscape:
		a.dispatch(editor.NameCancelled{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.dispatch(editor.DialogErased{})
	case tcell.KeyCtrlW:
		a.dispatch(editor.DialogWordErased{})
	case tcell.KeyCtrlU:
		a.dispatch(editor.DialogCleared{})
	case tcell.KeyRune:
		a.dispatch(editor.DialogTyped{Rune: ev.Rune()})
	}
}

// handleMouse acts on the press edge of the left button only.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if ev.Buttons()&tcell.Button1 == 0 {
		a.leftMouseDown = false
		return
	}
	if a.leftMouseDown {
		return
	}
	a.leftMouseDown = true
	a.click(x, y)
}

func (a *App) click(x, y int) {
	for _, b := range a.buttons {
		if y == b.y && x >= b.x && x < b.x+b.width {
			a.dispatch(buttonEvent(b.button))
			return
		}
	}

	if a.listTop >= 0 && x >= a.listX && y >= a.listTop {
		if idx := y - a.listTop; idx < len(a.machine.State().POIs) {
			a.selected = idx
		}
		return
	}

	if !a.chart.InPlot(x, y) {
		return
	}
	if a.opts.ClickMode == config.ClickNative {
		p, ok := a.chart.Pick(x, y)
		if !ok {
			return
		}
		a.log.Debug().Int("x", x).Int("y", y).Str("point", p.String()).Msg("chart pick")
		a.dispatch(editor.ChartPicked{Point: p})
		return
	}

	// geometry is read at click time, never cached
	a.dispatch(editor.ChartClicked{
		Click:    geometry.PointerClick{ScreenX: float64(x), ScreenY: float64(y)},
		Geometry: a.chart.Geometry(),
	})
}

func buttonEvent(b editor.Button) editor.Event {
	switch b {
	case editor.ButtonStart:
		return editor.StartPressed{}
	case editor.ButtonEnd:
		return editor.EndPressed{}
	default:
		return editor.ObstaclePressed{}
	}
}

func (a *App) moveSelection(delta, n int) {
	if n == 0 {
		a.selected = -1
		return
	}
	if a.selected < 0 {
		a.selected = 0
		if delta < 0 {
			a.selected = n - 1
		}
		return
	}
	a.selected = ((a.selected+delta)%n + n) % n
}

func (a *App) selectedName(v editor.View) (string, bool) {
	if a.selected < 0 || a.selected >= len(v.POIs) {
		return "", false
	}
	return v.POIs[a.selected].Name, true
}
