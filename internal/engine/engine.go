// Package engine reconciles optimistic local state with asynchronous calls
// to the remote todo store.
//
// Every operation follows the same shape: mutate the item store
// optimistically, hand back a Call for the adapter to run off the event
// loop, and reconcile in Settle once the call has settled. Operations never
// return errors; failures surface as a notification and the store is left
// consistent with what the remote actually did.
package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/itemstore"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
	"github.com/Makepad-fr/tada/internal/remote"
)

// User-facing failure messages, one per operation kind.
const (
	MsgEmptyTitle = "Title should not be empty"
	MsgLoad       = "Unable to load todos"
	MsgAdd        = "Unable to add a todo"
	MsgUpdate     = "Unable to update a todo"
	MsgDelete     = "Unable to delete a todo"
)

// Engine owns the item store and notification center of one owner and
// issues the remote calls that keep them in step with the backend.
type Engine struct {
	items   *itemstore.Store
	notes   *notify.Center
	remote  remote.Store
	ownerID int
	log     *zap.Logger
}

// New wires an engine over rs. A nil log discards output.
func New(items *itemstore.Store, notes *notify.Center, rs remote.Store, ownerID int, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		items:   items,
		notes:   notes,
		remote:  rs,
		ownerID: ownerID,
		log:     log.Named("engine"),
	}
}

// Items exposes the store the views project from.
func (e *Engine) Items() *itemstore.Store { return e.items }

// Notes exposes the notification shown under the list.
func (e *Engine) Notes() *notify.Center { return e.notes }

// Load fetches the collection once at startup.
func (e *Engine) Load() Effects {
	rs := e.remote
	return Effects{Calls: []Call{func(ctx context.Context) Settlement {
		items, err := rs.List(ctx)
		return Settlement{Kind: KindLoad, Items: items, Err: err}
	}}}
}

// Create validates the title, shows a placeholder and posts the new item.
func (e *Engine) Create(rawTitle string) Effects {
	title, err := model.NormalizeTitle(rawTitle)
	if err != nil {
		return e.fail(Effects{}, MsgEmptyTitle, err)
	}
	if err := e.items.InsertPlaceholder(model.Item{Title: rawTitle, OwnerID: e.ownerID}); err != nil {
		e.log.Debug("create ignored", zap.Error(err))
		return Effects{}
	}
	e.items.MarkPending(model.PlaceholderID)
	e.log.Debug("create issued", zap.String("title", title))

	rs := e.remote
	payload := model.NewItem{Title: title, OwnerID: e.ownerID}
	return Effects{Calls: []Call{func(ctx context.Context) Settlement {
		it, err := rs.Create(ctx, payload)
		return Settlement{Kind: KindCreate, Item: it, Err: err}
	}}}
}

// Update sends a single-field patch for a committed item.
func (e *Engine) Update(id int, patch model.Patch) Effects {
	if err := patch.Validate(); err != nil {
		e.log.Debug("update ignored", zap.Int("id", id), zap.Error(err))
		return Effects{}
	}
	if _, ok := e.items.Get(id); !ok {
		e.log.Debug("update ignored", zap.Int("id", id), zap.Error(itemstore.ErrNotFound))
		return Effects{}
	}
	e.items.MarkPending(id)
	e.log.Debug("update issued", zap.Int("id", id), zap.Stringer("patch", patch))
	return Effects{Calls: []Call{e.updateCall(id, patch)}}
}

// Delete removes a committed item once the remote confirms.
func (e *Engine) Delete(id int) Effects {
	if _, ok := e.items.Get(id); !ok {
		e.log.Debug("delete ignored", zap.Int("id", id), zap.Error(itemstore.ErrNotFound))
		return Effects{}
	}
	e.items.MarkPending(id)
	e.log.Debug("delete issued", zap.Int("id", id))
	return Effects{Calls: []Call{e.deleteCall(id)}}
}

// EditTitle commits an inline title edit. A blank title deletes the item and
// an unchanged title only leaves edit mode.
func (e *Engine) EditTitle(it model.Item, rawTitle string) Effects {
	title, err := model.NormalizeTitle(rawTitle)
	if err != nil {
		return e.Delete(it.ID).Merge(Effects{ExitEdit: true})
	}
	if title == it.Title {
		return Effects{ExitEdit: true}
	}
	return e.Update(it.ID, model.TitlePatch(title))
}

// ToggleCheckbox sets the completed flag of one item.
func (e *Engine) ToggleCheckbox(it model.Item, completed bool) Effects {
	return e.Update(it.ID, model.CompletedPatch(completed))
}

func (e *Engine) updateCall(id int, patch model.Patch) Call {
	rs := e.remote
	return func(ctx context.Context) Settlement {
		it, err := rs.Update(ctx, id, patch)
		return Settlement{Kind: KindUpdate, ID: id, Patch: patch, Item: it, Err: err}
	}
}

func (e *Engine) deleteCall(id int) Call {
	rs := e.remote
	return func(ctx context.Context) Settlement {
		err := rs.Delete(ctx, id)
		return Settlement{Kind: KindDelete, ID: id, Err: err}
	}
}

// Settle reconciles the stores with a finished Call. It must run on the same
// goroutine as the operations.
func (e *Engine) Settle(s Settlement) Effects {
	switch s.Kind {
	case KindLoad:
		return e.settleLoad(s)
	case KindCreate:
		return e.settleCreate(s)
	case KindUpdate:
		fx := e.settleUpdate(s)
		e.items.ClearPending(s.ID)
		if s.Patch.Title != nil {
			fx.ExitEdit = true
		}
		return fx
	case KindDelete:
		fx := e.settleDelete(s)
		e.items.ClearPending(s.ID)
		fx.FocusInput = true
		return fx
	case KindToggleAll, KindClearCompleted:
		return e.settleBulk(s)
	}
	e.log.Error("unknown settlement", zap.Stringer("kind", s.Kind))
	return Effects{}
}

func (e *Engine) settleLoad(s Settlement) Effects {
	if !s.OK() {
		return e.fail(Effects{}, MsgLoad, s.Err)
	}
	if err := e.items.Load(s.Items); err != nil {
		return e.fail(Effects{}, MsgLoad, err)
	}
	e.log.Info("todos loaded", zap.Int("count", len(s.Items)))
	return Effects{FocusInput: true}
}

func (e *Engine) settleCreate(s Settlement) Effects {
	fx := Effects{FocusInput: true}
	if !s.OK() {
		fx = e.fail(fx, MsgAdd, s.Err)
	} else if err := e.items.Append(s.Item); err != nil {
		fx = e.fail(fx, MsgAdd, err)
	} else {
		e.log.Debug("create settled", zap.Int("id", s.Item.ID))
		fx.ClearInput = true
	}
	e.items.RemovePlaceholder()
	e.items.ClearPending(model.PlaceholderID)
	return fx
}

func (e *Engine) settleUpdate(s Settlement) Effects {
	if !s.OK() {
		return e.fail(Effects{}, MsgUpdate, s.Err)
	}
	if err := e.items.Replace(s.ID, s.Item); err != nil {
		// Deleted while the update was in flight: nothing left to reconcile.
		if errors.Is(err, itemstore.ErrNotFound) {
			e.log.Debug("update settled for missing item", zap.Int("id", s.ID))
			return Effects{}
		}
		return e.fail(Effects{}, MsgUpdate, err)
	}
	e.log.Debug("update settled", zap.Int("id", s.ID))
	return Effects{}
}

func (e *Engine) settleDelete(s Settlement) Effects {
	if !s.OK() {
		return e.fail(Effects{}, MsgDelete, s.Err)
	}
	if err := e.items.Remove(s.ID); err != nil {
		e.log.Debug("delete settled for missing item", zap.Int("id", s.ID))
	}
	return Effects{}
}

// fail raises msg and logs the underlying cause; the cause is never shown.
func (e *Engine) fail(fx Effects, msg string, cause error) Effects {
	e.log.Warn(msg, zap.Error(cause))
	fx.Expiries = append(fx.Expiries, e.notes.Notify(msg))
	return fx
}
