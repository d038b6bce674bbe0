package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"mapedit/core"
	"mapedit/editor"
	"mapedit/geometry"
	"mapedit/mapclient"
)

type fakeBackend struct {
	result core.Result
	err    error
	state  core.MapState
	delay  time.Duration
	edits  []core.Edit
}

func (f *fakeBackend) Apply(ctx context.Context, e core.Edit) (core.Result, error) {
	f.edits = append(f.edits, e)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return core.Result{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeBackend) LoadState(ctx context.Context) (core.MapState, error) {
	if f.err != nil {
		return core.MapState{}, f.err
	}
	return f.state, nil
}

func TestRunSendEdit(t *testing.T) {
	fb := &fakeBackend{result: core.Result{Success: true}}
	x := NewExecutor(fb, time.Second, zerolog.Nop())

	edit := core.Edit{Kind: core.EditDeletePoint, Name: "A"}
	ev := x.Run(context.Background(), editor.SendEdit{Edit: edit})

	done, ok := ev.(editor.EditCompleted)
	if !ok {
		t.Fatalf("Expected EditCompleted, got %T", ev)
	}
	if done.Edit.Name != "A" || !done.Result.Success || done.Err != nil {
		t.Errorf("Unexpected completion %+v", done)
	}
	if len(fb.edits) != 1 {
		t.Errorf("Expected 1 backend call, got %d", len(fb.edits))
	}
}

func TestRunReload(t *testing.T) {
	fb := &fakeBackend{state: core.MapState{POIs: []core.POI{{Name: "A", Kind: core.KindStart}}}}
	x := NewExecutor(fb, 0, zerolog.Nop())

	ev := x.Run(context.Background(), editor.Reload{})
	loaded, ok := ev.(editor.MapLoaded)
	if !ok {
		t.Fatalf("Expected MapLoaded, got %T", ev)
	}
	if !loaded.State.HasStart() {
		t.Errorf("Expected loaded state to carry the start point")
	}

	fb.err = errors.New("boom")
	if _, ok := x.Run(context.Background(), editor.Reload{}).(editor.LoadFailed); !ok {
		t.Errorf("Expected LoadFailed on backend error")
	}
}

func TestRunTimeout(t *testing.T) {
	fb := &fakeBackend{delay: time.Second}
	x := NewExecutor(fb, 20*time.Millisecond, zerolog.Nop())

	ev := x.Run(context.Background(), editor.SendEdit{Edit: core.Edit{Kind: core.EditAddObstacle}})
	done := ev.(editor.EditCompleted)
	if !errors.Is(done.Err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", done.Err)
	}
}

// fakePlanner is a minimal backend: it keeps a POI list, renders it as the
// viewer page and refuses end points with "no path found".
type fakePlanner struct {
	mu    sync.Mutex
	pois  []core.POI
	posts map[string]int
}

func (p *fakePlanner) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/viewer/{mapId}", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><ul id="pois">`)
		for _, poi := range p.pois {
			fmt.Fprintf(w, `<li data-poi-type="%s" data-x="%g" data-y="%g">%s</li>`, poi.Kind, poi.X, poi.Y, poi.Name)
		}
		fmt.Fprint(w, `</ul></body></html>`)
	})
	r.Post("/add_poi/{mapId}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			X    float64 `json:"x"`
			Y    float64 `json:"y"`
			Type string  `json:"type"`
			Name string  `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		p.mu.Lock()
		defer p.mu.Unlock()
		p.posts["add_poi"]++
		w.Header().Set("Content-Type", "application/json")
		if body.Type == "end" {
			json.NewEncoder(w).Encode(core.Result{Success: false, Message: "no path found, point removed"})
			return
		}
		p.pois = append(p.pois, core.POI{Name: body.Name, Kind: core.PointKind(body.Type), X: body.X, Y: body.Y})
		json.NewEncoder(w).Encode(core.Result{Success: true})
	})
	return r
}

// drive dispatches ev and runs effects until the machine settles.
func drive(t *testing.T, m *editor.Machine, x *Executor, ev editor.Event) {
	t.Helper()
	queue := m.Dispatch(ev)
	for len(queue) > 0 {
		eff := queue[0]
		queue = queue[1:]
		if next := x.Run(context.Background(), eff); next != nil {
			queue = append(queue, m.Dispatch(next)...)
		}
	}
}

func TestSessionAgainstBackend(t *testing.T) {
	planner := &fakePlanner{posts: map[string]int{}}
	srv := httptest.NewServer(planner.router())
	defer srv.Close()

	client, err := mapclient.New(srv.URL, "m1", mapclient.Options{HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("mapclient.New: %v", err)
	}
	x := NewExecutor(client, 2*time.Second, zerolog.Nop())
	m := editor.NewMachine(zerolog.Nop(), nil)

	for _, eff := range m.Init() {
		m.Dispatch(x.Run(context.Background(), eff))
	}
	if m.State().HasStart() {
		t.Fatalf("Expected empty map")
	}

	pick := func(px, py float64) editor.Event {
		return editor.ChartPicked{Point: geometry.DataPoint{X: px, Y: py}}
	}

	drive(t, m, x, editor.StartPressed{})
	drive(t, m, x, pick(10, 10))
	drive(t, m, x, editor.NameConfirmed{Name: "dock"})
	if !m.State().HasStart() {
		t.Fatalf("Expected start point after reload")
	}
	if poi, ok := m.State().Find("dock"); !ok || poi.X != 10 {
		t.Errorf("Expected dock at x=10, got %+v", poi)
	}

	drive(t, m, x, editor.EndPressed{})
	drive(t, m, x, pick(90, 90))
	drive(t, m, x, editor.NameConfirmed{Name: "goal"})
	v := m.View()
	if v.Alert == nil || !v.Alert.ReloadOnDismiss {
		t.Fatalf("Expected no-path alert with reload scheduled, got %+v", v.Alert)
	}

	drive(t, m, x, editor.ErrorDismissed{})
	if m.Alert().Visible() {
		t.Errorf("Expected alert dismissed")
	}
	if len(m.State().POIs) != 1 || !m.State().HasStart() {
		t.Errorf("Expected reloaded state with only the start, got %+v", m.State().POIs)
	}
	if planner.posts["add_poi"] != 2 {
		t.Errorf("Expected 2 add_poi requests, got %d", planner.posts["add_poi"])
	}
}
