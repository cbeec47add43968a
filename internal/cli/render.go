package cli

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/engine"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/projector"
	"github.com/Makepad-fr/tada/internal/ui"
)

// numbered keeps the 1-based position an item has in the full list, which
// is what done/rm/edit take.
type numbered struct {
	n  int
	it model.Item
}

func (a *app) printList(eng *engine.Engine, f model.Filter, group bool) {
	snap := eng.Items().Snapshot()
	t := ui.Current()

	done, left := projector.CompletedCount(snap), projector.ActiveCount(snap)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), done,
		ui.C(t.Pending, t.SymUnchecked), left,
		ui.C(t.Accent, "Total"), len(snap.Items),
	)

	var rows []numbered
	for i, it := range snap.Items {
		if f.Match(it) {
			rows = append(rows, numbered{n: i + 1, it: it})
		}
	}

	lines := []string{header, ui.C(t.Muted, ui.ProgressBar(done, done+left, 28)), ""}
	if group {
		lines = append(lines, groupLines(rows)...)
	} else {
		lines = append(lines, flatLines(rows)...)
	}
	lines = append(lines, "")
	if len(snap.Items) > 0 {
		lines = append(lines, fmt.Sprintf("%d items left  %s", left, ui.C(t.Muted, "filter: "+f.String())))
	} else {
		lines = append(lines, ui.C(t.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	}
	ui.Panel(a.stdout, lines)
}

func flatLines(rows []numbered) []string {
	if len(rows) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, ui.ItemLine(r.n, r.it, false))
	}
	return out
}

func groupLines(rows []numbered) []string {
	var pend, done []numbered
	for _, r := range rows {
		if r.it.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
