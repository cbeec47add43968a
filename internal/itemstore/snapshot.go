package itemstore

import (
	"maps"
	"slices"

	"github.com/Makepad-fr/tada/internal/model"
)

// Snapshot is an immutable copy of the store used by projections.
type Snapshot struct {
	Items       []model.Item
	Placeholder *model.Item
	Pending     map[int]struct{}
	Global      bool
}

func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Items:   slices.Clone(s.items),
		Pending: maps.Clone(s.pending),
		Global:  s.global,
	}
	if s.placeholder != nil {
		p := *s.placeholder
		snap.Placeholder = &p
	}
	return snap
}
