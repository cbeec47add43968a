package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tada/internal/model"
)

// ToggleAll completes every active item, or reopens everything when the
// whole list is already complete. Each item gets its own update call and
// settles independently; the global marker clears once all have settled.
func (e *Engine) ToggleAll() Effects {
	if e.items.GlobalPending() {
		e.log.Debug("toggle-all ignored: bulk operation in flight")
		return Effects{}
	}
	items := e.items.Items()
	if len(items) == 0 {
		return Effects{}
	}

	anyActive := false
	for _, it := range items {
		if !it.Completed {
			anyActive = true
			break
		}
	}
	var targets []model.Item
	for _, it := range items {
		if !anyActive || !it.Completed {
			targets = append(targets, it)
		}
	}

	calls := make([]Call, 0, len(targets))
	for _, it := range targets {
		e.items.MarkPending(it.ID)
		calls = append(calls, e.updateCall(it.ID, model.CompletedPatch(!it.Completed)))
	}
	e.items.MarkGlobal()
	e.log.Debug("toggle-all issued", zap.Int("targets", len(targets)), zap.Bool("complete", anyActive))
	return Effects{Calls: []Call{fanOut(KindToggleAll, calls)}}
}

// ClearCompleted deletes every completed item, one call per item.
func (e *Engine) ClearCompleted() Effects {
	if e.items.GlobalPending() {
		e.log.Debug("clear-completed ignored: bulk operation in flight")
		return Effects{}
	}
	var calls []Call
	for _, it := range e.items.Items() {
		if it.Completed {
			e.items.MarkPending(it.ID)
			calls = append(calls, e.deleteCall(it.ID))
		}
	}
	if len(calls) == 0 {
		return Effects{}
	}
	e.items.MarkGlobal()
	e.log.Debug("clear-completed issued", zap.Int("targets", len(calls)))
	return Effects{Calls: []Call{fanOut(KindClearCompleted, calls)}}
}

// fanOut issues every call before waiting on any of them and never fails as
// a whole; per-item errors stay in the results.
func fanOut(kind Kind, calls []Call) Call {
	return func(ctx context.Context) Settlement {
		results := make([]Settlement, len(calls))
		var g errgroup.Group
		for i, call := range calls {
			g.Go(func() error {
				results[i] = call(ctx)
				return nil
			})
		}
		_ = g.Wait()
		return Settlement{Kind: kind, Results: results}
	}
}

func (e *Engine) settleBulk(s Settlement) Effects {
	var fx Effects
	failed := 0
	for _, r := range s.Results {
		switch r.Kind {
		case KindUpdate:
			fx = fx.Merge(e.settleUpdate(r))
		case KindDelete:
			fx = fx.Merge(e.settleDelete(r))
		}
		if !r.OK() {
			failed++
		}
		e.items.ClearPending(r.ID)
	}
	e.items.ClearGlobal()
	if s.Kind == KindClearCompleted {
		fx.FocusInput = true
	}
	e.log.Info("bulk settled", zap.Stringer("kind", s.Kind),
		zap.Int("total", len(s.Results)), zap.Int("failed", failed))
	return fx
}
