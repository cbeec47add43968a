package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run drives fx to quiescence on the calling goroutine: calls run
// concurrently, their settlements are applied in issue order, and any
// follow-up calls are run the same way. Expiries are not scheduled; the
// returned Effects carry everything except calls.
func Run(ctx context.Context, e *Engine, fx Effects) Effects {
	var out Effects
	for {
		calls := fx.Calls
		fx.Calls = nil
		out = out.Merge(fx)
		if len(calls) == 0 {
			return out
		}

		results := make([]Settlement, len(calls))
		var g errgroup.Group
		for i, call := range calls {
			g.Go(func() error {
				results[i] = call(ctx)
				return nil
			})
		}
		_ = g.Wait()

		fx = Effects{}
		for _, r := range results {
			fx = fx.Merge(e.Settle(r))
		}
	}
}
