// Package editor holds the draft editing core: the draft state machine,
// the cancellable autosave timer and the editing session that ties them to
// the remote snippet store.
package editor

// State is the draft lifecycle state.
//
//	clean → dirty → saving → saved → clean
//	                       ↘ error → dirty (on next edit)
//
// saved is transient: a successful persist collapses straight back to clean,
// the saved state only ever surfaces through the status sink.
type State int

const (
	StateClean State = iota
	StateDirty
	StateSaving
	StateError
)

func (s State) String() string {
	switch s {
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	default:
		return "clean"
	}
}

// Status is what the UI status indicator shows for the current draft.
type Status int

const (
	StatusNone Status = iota
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSaving:
		return "Saving..."
	case StatusSaved:
		return "Saved"
	case StatusError:
		return "Error"
	default:
		return ""
	}
}

// ToastKind selects the styling of a user-facing toast.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
	ToastAI
)

// StatusSink receives status-indicator updates and toasts. Autosaves are
// silent: they update the indicator but never toast; explicit user actions
// do both.
type StatusSink interface {
	SetSaveStatus(Status)
	Toast(msg string, kind ToastKind)
}
