package engine

import (
	"context"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
)

// Kind names the remote operation a Settlement belongs to.
type Kind int

const (
	KindLoad Kind = iota
	KindCreate
	KindUpdate
	KindDelete
	KindToggleAll
	KindClearCompleted
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindToggleAll:
		return "toggle-all"
	case KindClearCompleted:
		return "clear-completed"
	}
	return "unknown"
}

// Settlement is the outcome of one Call: Err == nil means success.
type Settlement struct {
	Kind  Kind
	ID    int
	Patch model.Patch
	Item  model.Item
	Items []model.Item
	Err   error

	// Results holds the per-item outcomes of a bulk operation.
	Results []Settlement
}

// OK reports whether the remote call succeeded.
func (s Settlement) OK() bool { return s.Err == nil }

// Call performs the remote half of an operation. It must not touch the
// item store or the notification center.
type Call func(ctx context.Context) Settlement

// Effects are the side effects an operation asks its adapter to carry out.
type Effects struct {
	Calls    []Call
	Expiries []notify.Expiry

	FocusInput bool // refocus the new-item input
	ClearInput bool // empty the new-item input
	ExitEdit   bool // leave title edit mode
}

// Merge combines two effect sets; flags are or-ed.
func (fx Effects) Merge(o Effects) Effects {
	fx.Calls = append(fx.Calls, o.Calls...)
	fx.Expiries = append(fx.Expiries, o.Expiries...)
	fx.FocusInput = fx.FocusInput || o.FocusInput
	fx.ClearInput = fx.ClearInput || o.ClearInput
	fx.ExitEdit = fx.ExitEdit || o.ExitEdit
	return fx
}

// Empty reports whether there is nothing for the adapter to do.
func (fx Effects) Empty() bool {
	return len(fx.Calls) == 0 && len(fx.Expiries) == 0 && !fx.FocusInput && !fx.ClearInput && !fx.ExitEdit
}
