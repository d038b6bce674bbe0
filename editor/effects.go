package editor

import "mapedit/core"

// Effect is work the host must perform outside the machine. The host posts
// the outcome back as an event.
type Effect interface {
	effect()
}

// SendEdit asks the host to send one edit to the backend and answer with EditCompleted.
type SendEdit struct {
	Edit core.Edit
}

// Reload asks the host to refetch the authoritative map state and answer with
// MapLoaded or LoadFailed.
type Reload struct{}

func (SendEdit) effect() {}
func (Reload) effect()   {}
