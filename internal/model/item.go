package model

import (
	"errors"
	"fmt"
	"strings"
)

// PlaceholderID marks an optimistic item the server has not assigned an id to yet.
const PlaceholderID = 0

// Item is the domain model for a todo entry as the remote store knows it.
type Item struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	OwnerID   int    `json:"userId"`
}

// IsPlaceholder reports whether the item is the not-yet-persisted create.
func (i Item) IsPlaceholder() bool { return i.ID == PlaceholderID }

// NewItem is the create payload; the server assigns the id.
type NewItem struct {
	Title     string `json:"title"`
	OwnerID   int    `json:"userId"`
	Completed bool   `json:"completed"`
}

// Patch carries exactly one changed field: a title edit or a completion toggle.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

var ErrInvalidPatch = errors.New("patch must set exactly one of title or completed")

func TitlePatch(title string) Patch { return Patch{Title: &title} }

func CompletedPatch(completed bool) Patch { return Patch{Completed: &completed} }

func (p Patch) Validate() error {
	if (p.Title == nil) == (p.Completed == nil) {
		return ErrInvalidPatch
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("patch: %w", ErrEmptyTitle)
	}
	return nil
}

// Apply returns a copy of it with the patch applied.
func (p Patch) Apply(it Item) Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	return it
}

func (p Patch) String() string {
	switch {
	case p.Title != nil:
		return fmt.Sprintf("title=%q", *p.Title)
	case p.Completed != nil:
		return fmt.Sprintf("completed=%t", *p.Completed)
	}
	return "empty"
}

var ErrEmptyTitle = errors.New("title cannot be empty")

// NormalizeTitle trims the title and rejects blank input.
func NormalizeTitle(raw string) (string, error) {
	t := strings.TrimSpace(raw)
	if t == "" {
		return "", ErrEmptyTitle
	}
	return t, nil
}
