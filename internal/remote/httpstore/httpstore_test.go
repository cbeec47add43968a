package httpstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
)

func newTestStore(t *testing.T, h http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := New(Options{BaseURL: srv.URL + "/", OwnerID: 42, Token: "tok"})
	require.NoError(t, err)
	return s
}

func TestListSendsOwnerAndToken(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("userId"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[{"id":1,"title":"Buy milk","completed":false,"userId":42}]`))
	})

	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: 1, Title: "Buy milk", OwnerID: 42}}, items)
}

func TestListEmptyBodyIsEmptySlice(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCreatePostsPayload(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var got model.NewItem
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, model.NewItem{Title: "Buy milk", OwnerID: 42}, got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"title":"Buy milk","completed":false,"userId":42}`))
	})

	it, err := s.Create(context.Background(), model.NewItem{Title: "Buy milk", OwnerID: 42})
	require.NoError(t, err)
	assert.Equal(t, 7, it.ID)
}

func TestUpdateSendsOnlyPatchedField(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/todos/7", r.URL.Path)
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{"completed": true}, raw)
		_, _ = w.Write([]byte(`{"id":7,"title":"Buy milk","completed":true,"userId":42}`))
	})

	it, err := s.Update(context.Background(), 7, model.CompletedPatch(true))
	require.NoError(t, err)
	assert.True(t, it.Completed)
}

func TestUpdateRejectsInvalidPatchLocally(t *testing.T) {
	called := false
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := s.Update(context.Background(), 7, model.Patch{})
	assert.ErrorIs(t, err, model.ErrInvalidPatch)
	assert.False(t, called)
}

func TestDeleteStatusErrors(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/todos/1":
			w.WriteHeader(http.StatusNoContent)
		case "/todos/2":
			http.NotFound(w, r)
		default:
			http.Error(w, "kaput", http.StatusInternalServerError)
		}
	})

	ctx := context.Background()
	require.NoError(t, s.Delete(ctx, 1))
	assert.ErrorIs(t, s.Delete(ctx, 2), remote.ErrNotFound)

	err := s.Delete(ctx, 3)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "kaput", se.Body)
}

func TestNewRejectsEmptyBase(t *testing.T) {
	_, err := New(Options{BaseURL: "  "})
	assert.Error(t, err)
}
