package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/tada/internal/itemstore"
	"github.com/Makepad-fr/tada/internal/model"
)

func snap(items ...model.Item) itemstore.Snapshot {
	return itemstore.Snapshot{Items: items, Pending: map[int]struct{}{}}
}

func TestCounts(t *testing.T) {
	s := snap(
		model.Item{ID: 1, Title: "a"},
		model.Item{ID: 2, Title: "b", Completed: true},
		model.Item{ID: 3, Title: "c"},
	)
	assert.Equal(t, 2, ActiveCount(s))
	assert.Equal(t, 1, CompletedCount(s))
	assert.True(t, HasCompleted(s))
	assert.False(t, AllComplete(s))
}

func TestFilteredKeepsOrder(t *testing.T) {
	a := model.Item{ID: 1, Title: "a", Completed: true}
	b := model.Item{ID: 2, Title: "b"}
	c := model.Item{ID: 3, Title: "c", Completed: true}
	s := snap(a, b, c)

	assert.Equal(t, []model.Item{a, b, c}, Filtered(s, model.FilterAll))
	assert.Equal(t, []model.Item{b}, Filtered(s, model.FilterActive))
	assert.Equal(t, []model.Item{a, c}, Filtered(s, model.FilterCompleted))
}

func TestFilteredExcludesPlaceholder(t *testing.T) {
	s := snap(model.Item{ID: 1, Title: "a"})
	s.Placeholder = &model.Item{Title: "draft"}

	assert.Len(t, Filtered(s, model.FilterAll), 1)
	assert.Equal(t, 1, ActiveCount(s))
}

func TestAllComplete(t *testing.T) {
	assert.False(t, AllComplete(snap()), "empty list is never complete")
	assert.True(t, AllComplete(snap(model.Item{ID: 1, Title: "a", Completed: true})))
}

func TestIsItemLoading(t *testing.T) {
	s := snap(model.Item{ID: 1, Title: "a"}, model.Item{ID: 2, Title: "b"})
	assert.False(t, IsItemLoading(s, 1))
	assert.False(t, Busy(s))

	s.Pending[2] = struct{}{}
	assert.False(t, IsItemLoading(s, 1))
	assert.True(t, IsItemLoading(s, 2))

	s.Global = true
	assert.False(t, IsItemLoading(s, 1), "bulk with per-item markers only shows targeted rows")

	delete(s.Pending, 2)
	assert.True(t, IsItemLoading(s, 1), "bulk without markers shows every row")
	assert.True(t, Busy(s))

	s.Global = false
	s.Placeholder = &model.Item{Title: "draft"}
	assert.True(t, IsItemLoading(s, model.PlaceholderID))
}
