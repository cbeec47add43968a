package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
)

// JSON-backed remote. Single file, human-readable, portable.
// Every call re-reads the file so a second tada process sees writes.

const DataFileName = "todos.json"

type document struct {
	NextID int          `json:"nextId"`
	Todos  []model.Item `json:"todos"`
}

type Store struct {
	path    string
	ownerID int
	mu      sync.Mutex
}

var _ remote.Store = (*Store)(nil)

// New opens (lazily) the file at path; an empty path means ./todos.json.
func New(path string, ownerID int) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DataFileName)
	}
	return &Store{path: path, ownerID: ownerID}, nil
}

// Path is the resolved data file.
func (s *Store) Path() string { return s.path }

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []model.Item{}
	for _, it := range doc.Todos {
		if it.OwnerID == s.ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, payload model.NewItem) (model.Item, error) {
	title, err := model.NormalizeTitle(payload.Title)
	if err != nil {
		return model.Item{}, fmt.Errorf("create: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	doc.NextID++
	it := model.Item{ID: doc.NextID, Title: title, Completed: payload.Completed, OwnerID: payload.OwnerID}
	doc.Todos = append(doc.Todos, it)
	if err := s.save(doc); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) Update(ctx context.Context, id int, patch model.Patch) (model.Item, error) {
	if err := patch.Validate(); err != nil {
		return model.Item{}, fmt.Errorf("update %d: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	i := s.find(doc, id)
	if i < 0 {
		return model.Item{}, fmt.Errorf("update %d: %w", id, remote.ErrNotFound)
	}
	doc.Todos[i] = patch.Apply(doc.Todos[i])
	if err := s.save(doc); err != nil {
		return model.Item{}, err
	}
	return doc.Todos[i], nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	i := s.find(doc, id)
	if i < 0 {
		return fmt.Errorf("delete %d: %w", id, remote.ErrNotFound)
	}
	doc.Todos = slices.Delete(doc.Todos, i, i+1)
	return s.save(doc)
}

func (s *Store) find(doc document, id int) int {
	return slices.IndexFunc(doc.Todos, func(it model.Item) bool {
		return it.ID == id && it.OwnerID == s.ownerID
	})
}

func (s *Store) load() (document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, nil
		}
		return document{}, fmt.Errorf("read file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return document{}, fmt.Errorf("json unmarshal: %w", err)
	}
	for _, it := range doc.Todos {
		if it.ID > doc.NextID {
			doc.NextID = it.ID
		}
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
