package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchValidate(t *testing.T) {
	assert.NoError(t, TitlePatch("Buy milk").Validate())
	assert.NoError(t, CompletedPatch(false).Validate())

	assert.ErrorIs(t, Patch{}.Validate(), ErrInvalidPatch)

	title, done := "x", true
	assert.ErrorIs(t, Patch{Title: &title, Completed: &done}.Validate(), ErrInvalidPatch)
	assert.ErrorIs(t, TitlePatch("   ").Validate(), ErrEmptyTitle)
}

func TestPatchApplyTouchesOneField(t *testing.T) {
	it := Item{ID: 3, Title: "old", Completed: false, OwnerID: 7}

	got := CompletedPatch(true).Apply(it)
	assert.Equal(t, Item{ID: 3, Title: "old", Completed: true, OwnerID: 7}, got)

	got = TitlePatch("new").Apply(it)
	assert.Equal(t, Item{ID: 3, Title: "new", Completed: false, OwnerID: 7}, got)
}

func TestNormalizeTitle(t *testing.T) {
	got, err := NormalizeTitle("  Buy milk \n")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got)

	_, err = NormalizeTitle(" \t ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestParseFilter(t *testing.T) {
	cases := map[string]Filter{
		"":          FilterAll,
		"ALL":       FilterAll,
		"active":    FilterActive,
		"pending":   FilterActive,
		"Completed": FilterCompleted,
		"done":      FilterCompleted,
	}
	for in, want := range cases {
		got, err := ParseFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("someday")
	assert.Error(t, err)
}

func TestFilterNextCycles(t *testing.T) {
	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
}
