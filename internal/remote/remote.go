// Package remote defines the CRUD endpoint the sync engine talks to.
// Backends live in subpackages; all of them must tolerate concurrent calls.
package remote

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned by backends that can tell a missing id apart.
// The engine treats it like any other failure.
var ErrNotFound = errors.New("todo not found")

type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, payload model.NewItem) (model.Item, error)
	Update(ctx context.Context, id int, patch model.Patch) (model.Item, error)
	Delete(ctx context.Context, id int) error
}
