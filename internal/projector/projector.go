// Package projector derives what the views show from an item store snapshot.
// Everything here is a pure function of the snapshot.
package projector

import (
	"github.com/Makepad-fr/tada/internal/itemstore"
	"github.com/Makepad-fr/tada/internal/model"
)

// ActiveCount counts items that are not completed.
func ActiveCount(s itemstore.Snapshot) int {
	n := 0
	for _, it := range s.Items {
		if !it.Completed {
			n++
		}
	}
	return n
}

func CompletedCount(s itemstore.Snapshot) int {
	return len(s.Items) - ActiveCount(s)
}

// HasCompleted drives whether "clear completed" is offered.
func HasCompleted(s itemstore.Snapshot) bool {
	return CompletedCount(s) > 0
}

// Filtered returns the items matching f in their original order.
// The placeholder is never part of it.
func Filtered(s itemstore.Snapshot, f model.Filter) []model.Item {
	out := make([]model.Item, 0, len(s.Items))
	for _, it := range s.Items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// AllComplete is true for a non-empty list with nothing left to do.
func AllComplete(s itemstore.Snapshot) bool {
	return len(s.Items) > 0 && ActiveCount(s) == 0
}

// IsItemLoading reports whether a row shows its loader: the id has its own
// marker, or a bulk operation is running without per-item markers. The
// placeholder row is always loading.
func IsItemLoading(s itemstore.Snapshot, id int) bool {
	if id == model.PlaceholderID && s.Placeholder != nil {
		return true
	}
	if _, ok := s.Pending[id]; ok {
		return true
	}
	return s.Global && len(s.Pending) == 0
}

// Busy is true while any call is outstanding.
func Busy(s itemstore.Snapshot) bool {
	return s.Global || len(s.Pending) > 0
}
