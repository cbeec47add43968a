// Package itemstore owns the canonical ordered todo collection, the single
// optimistic placeholder and the set of in-flight operation markers.
//
// A Store is not safe for concurrent use; it is mutated only from the
// event loop that settles remote calls.
package itemstore

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

var (
	ErrNotFound          = errors.New("item not found")
	ErrPlaceholderExists = errors.New("a create is already pending")
	ErrReservedID        = errors.New("id 0 is reserved for the placeholder")
	ErrEmptyTitle        = errors.New("committed item has an empty title")
)

type Store struct {
	items       []model.Item
	placeholder *model.Item

	pending map[int]struct{}
	global  bool
}

func New() *Store {
	return &Store{pending: map[int]struct{}{}}
}

// Load replaces the whole committed collection.
func (s *Store) Load(items []model.Item) error {
	for _, it := range items {
		if err := checkCommitted(it); err != nil {
			return fmt.Errorf("load: %w", err)
		}
	}
	s.items = slices.Clone(items)
	return nil
}

func (s *Store) InsertPlaceholder(it model.Item) error {
	if s.placeholder != nil {
		return ErrPlaceholderExists
	}
	it.ID = model.PlaceholderID
	s.placeholder = &it
	return nil
}

func (s *Store) RemovePlaceholder() {
	s.placeholder = nil
}

// Placeholder returns the pending create, if any.
func (s *Store) Placeholder() (model.Item, bool) {
	if s.placeholder == nil {
		return model.Item{}, false
	}
	return *s.placeholder, true
}

// Append adds a server-confirmed item at the end of the collection.
func (s *Store) Append(it model.Item) error {
	if err := checkCommitted(it); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	if s.index(it.ID) >= 0 {
		return fmt.Errorf("append: duplicate id %d", it.ID)
	}
	s.items = append(s.items, it)
	return nil
}

// Replace swaps the item with the given id in place.
func (s *Store) Replace(id int, it model.Item) error {
	if err := checkCommitted(it); err != nil {
		return fmt.Errorf("replace %d: %w", id, err)
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("replace %d: %w", id, ErrNotFound)
	}
	s.items[i] = it
	return nil
}

func (s *Store) Remove(id int) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *Store) Get(id int) (model.Item, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i], true
}

// Items returns a copy of the committed collection in order.
func (s *Store) Items() []model.Item {
	return slices.Clone(s.items)
}

func (s *Store) Len() int { return len(s.items) }

// MarkPending and ClearPending are idempotent.
func (s *Store) MarkPending(id int) { s.pending[id] = struct{}{} }
func (s *Store) ClearPending(id int) { delete(s.pending, id) }

func (s *Store) IsPending(id int) bool {
	_, ok := s.pending[id]
	return ok
}

func (s *Store) MarkGlobal() { s.global = true }
func (s *Store) ClearGlobal() { s.global = false }
func (s *Store) GlobalPending() bool { return s.global }
func (s *Store) PendingCount() int { return len(s.pending) }

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}

func checkCommitted(it model.Item) error {
	if it.ID == model.PlaceholderID {
		return ErrReservedID
	}
	if strings.TrimSpace(it.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
