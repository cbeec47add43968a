package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/itemstore"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
	"github.com/Makepad-fr/tada/internal/remote"
)

var errTransport = errors.New("transport: connection reset")

// fakeRemote is an in-memory remote.Store whose failures are scripted per id.
type fakeRemote struct {
	mu     sync.Mutex
	nextID int
	items  map[int]model.Item

	failList   bool
	failCreate bool
	failUpdate map[int]bool
	failDelete map[int]bool

	calls map[string]int

	// onUpdate, when set, runs inside Update before the result is computed.
	onUpdate func(ctx context.Context, id int) error
}

var _ remote.Store = (*fakeRemote)(nil)

func newFakeRemote(items ...model.Item) *fakeRemote {
	f := &fakeRemote{
		items:      map[int]model.Item{},
		failUpdate: map[int]bool{},
		failDelete: map[int]bool{},
		calls:      map[string]int{},
	}
	for _, it := range items {
		f.items[it.ID] = it
		if it.ID > f.nextID {
			f.nextID = it.ID
		}
	}
	return f
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) List(context.Context) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.failList {
		return nil, errTransport
	}
	out := make([]model.Item, 0, len(f.items))
	for id := 1; id <= f.nextID; id++ {
		if it, ok := f.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeRemote) Create(_ context.Context, p model.NewItem) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.failCreate {
		return model.Item{}, errTransport
	}
	f.nextID++
	it := model.Item{ID: f.nextID, Title: p.Title, Completed: p.Completed, OwnerID: p.OwnerID}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeRemote) Update(ctx context.Context, id int, p model.Patch) (model.Item, error) {
	f.mu.Lock()
	f.calls["update"]++
	hook := f.onUpdate
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, id); err != nil {
			return model.Item{}, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate[id] {
		return model.Item{}, errTransport
	}
	it, ok := f.items[id]
	if !ok {
		return model.Item{}, remote.ErrNotFound
	}
	it = p.Apply(it)
	f.items[id] = it
	return it, nil
}

func (f *fakeRemote) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.failDelete[id] {
		return errTransport
	}
	if _, ok := f.items[id]; !ok {
		return remote.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type harness struct {
	engine *Engine
	items  *itemstore.Store
	notes  *notify.Center
	remote *fakeRemote
}

const testOwner = 42

// newHarness builds an engine whose store already holds the remote's items.
func newHarness(t *testing.T, items ...model.Item) *harness {
	t.Helper()
	h := &harness{
		items:  itemstore.New(),
		notes:  notify.New(0, notify.LatestWins),
		remote: newFakeRemote(items...),
	}
	h.engine = New(h.items, h.notes, h.remote, testOwner, nil)
	require.NoError(t, h.items.Load(items))
	return h
}

func (h *harness) run(fx Effects) Effects {
	return Run(context.Background(), h.engine, fx)
}
