// Package session runs editor effects against the backend and turns their
// outcomes back into editor events.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mapedit/core"
	"mapedit/editor"
)

// Backend is the part of the map client the editor needs.
type Backend interface {
	Apply(ctx context.Context, e core.Edit) (core.Result, error)
	LoadState(ctx context.Context) (core.MapState, error)
}

// Executor performs one effect per call. Run blocks for the round trip, so
// hosts call it off their event loop and post the returned event back.
type Executor struct {
	backend Backend
	timeout time.Duration
	log     zerolog.Logger
}

// NewExecutor returns an executor bounding each round trip by timeout (0 means no bound).
func NewExecutor(b Backend, timeout time.Duration, log zerolog.Logger) *Executor {
	return &Executor{backend: b, timeout: timeout, log: log}
}

// Run performs eff and returns the event that reports its outcome, or nil
// for an effect it does not know.
func (x *Executor) Run(ctx context.Context, eff editor.Effect) editor.Event {
	ctx, cancel := x.withTimeout(ctx)
	defer cancel()

	switch eff := eff.(type) {
	case editor.SendEdit:
		res, err := x.backend.Apply(ctx, eff.Edit)
		if err != nil {
			x.log.Debug().Err(err).Str("op", eff.Edit.Kind.String()).Msg("edit round trip failed")
		}
		return editor.EditCompleted{Edit: eff.Edit, Result: res, Err: err}

	case editor.Reload:
		state, err := x.backend.LoadState(ctx)
		if err != nil {
			return editor.LoadFailed{Err: err}
		}
		return editor.MapLoaded{State: state}

	default:
		x.log.Warn().Str("effect", fmt.Sprintf("%T", eff)).Msg("unsupported effect")
		return nil
	}
}

func (x *Executor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if x.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, x.timeout)
}
