package editor

import (
	"strings"

	"mapedit/core"
	"mapedit/geometry"
)

// DialogPurpose says what a confirmed name is used for.
type DialogPurpose int

const (
	PurposeNewPoint DialogPurpose = iota // name a freshly clicked point
	PurposeRename                        // rename an existing point
)

// PendingPoint is a clicked point waiting for its name.
type PendingPoint struct {
	Point geometry.DataPoint
	Kind  core.PointKind
}

// NamingDialog collects a name before a point edit is committed.
// At most one is open at a time; it owns the pending point.
type NamingDialog struct {
	purpose DialogPurpose
	pending PendingPoint
	oldName string
	buffer  []rune
	err     error
}

func newPointDialog(p PendingPoint) *NamingDialog {
	return &NamingDialog{purpose: PurposeNewPoint, pending: p}
}

func renameDialog(oldName string) *NamingDialog {
	return &NamingDialog{purpose: PurposeRename, oldName: oldName, buffer: []rune(oldName)}
}

// Purpose returns what the dialog is naming.
func (d *NamingDialog) Purpose() DialogPurpose { return d.purpose }

// Pending returns the point being named. Only meaningful for PurposeNewPoint.
func (d *NamingDialog) Pending() PendingPoint { return d.pending }

// Text returns the current input.
func (d *NamingDialog) Text() string { return string(d.buffer) }

// Err returns the last confirmation error, cleared by further typing.
func (d *NamingDialog) Err() error { return d.err }

// Title is the dialog heading.
func (d *NamingDialog) Title() string {
	if d.purpose == PurposeRename {
		return "Rename " + d.oldName
	}
	return "Name the " + string(d.pending.Kind) + " point"
}

// Insert appends r to the input.
func (d *NamingDialog) Insert(r rune) {
	d.buffer = append(d.buffer, r)
	d.err = nil
}

// Backspace removes the last rune.
func (d *NamingDialog) Backspace() {
	if len(d.buffer) > 0 {
		d.buffer = d.buffer[:len(d.buffer)-1]
	}
	d.err = nil
}

// DeleteWord removes the previous word (Ctrl+W)
func (d *NamingDialog) DeleteWord() {
	end := len(d.buffer)
	// Skip trailing spaces, then the word itself
	for end > 0 && d.buffer[end-1] == ' ' {
		end--
	}
	for end > 0 && d.buffer[end-1] != ' ' {
		end--
	}
	d.buffer = d.buffer[:end]
	d.err = nil
}

// Clear empties the input (Ctrl+U)
func (d *NamingDialog) Clear() {
	d.buffer = d.buffer[:0]
	d.err = nil
}

// Confirm turns name into an edit. A blank name fails with ErrEmptyName and
// leaves the dialog open.
func (d *NamingDialog) Confirm(name string) (core.Edit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		d.err = ErrEmptyName
		return core.Edit{}, ErrEmptyName
	}

	if d.purpose == PurposeRename {
		return core.Edit{Kind: core.EditRenamePoint, OldName: d.oldName, NewName: name}, nil
	}
	return core.Edit{
		Kind:      core.EditAddPoint,
		Point:     d.pending.Point,
		PointKind: d.pending.Kind,
		Name:      name,
	}, nil
}
