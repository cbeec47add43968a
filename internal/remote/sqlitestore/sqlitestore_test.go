package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
)

func openTest(t *testing.T, owner int) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "tada.sqlite"), owner)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := openTest(t, 5)

	a, err := s.Create(ctx, model.NewItem{Title: " Buy milk ", OwnerID: 5})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", a.Title)
	assert.NotZero(t, a.ID)

	b, err := s.Create(ctx, model.NewItem{Title: "Walk dog", OwnerID: 5})
	require.NoError(t, err)

	got, err := s.Update(ctx, a.ID, model.CompletedPatch(true))
	require.NoError(t, err)
	assert.Equal(t, model.Item{ID: a.ID, Title: "Buy milk", Completed: true, OwnerID: 5}, got)

	got, err = s.Update(ctx, b.ID, model.TitlePatch("Walk the dog"))
	require.NoError(t, err)
	assert.Equal(t, "Walk the dog", got.Title)

	require.NoError(t, s.Delete(ctx, a.ID))

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: b.ID, Title: "Walk the dog", OwnerID: 5}}, items)
}

func TestMissingIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTest(t, 5)

	_, err := s.Update(ctx, 99, model.CompletedPatch(true))
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 99), remote.ErrNotFound)
}

func TestListEmpty(t *testing.T) {
	items, err := openTest(t, 1).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
