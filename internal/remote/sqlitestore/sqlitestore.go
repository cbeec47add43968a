// Package sqlitestore is a remote.Store backed by a local SQLite file.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
)

type Store struct {
	db      *sql.DB
	ownerID int
}

var _ remote.Store = (*Store)(nil)

// Open creates the database file and schema if needed.
func Open(ctx context.Context, path string, ownerID int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Bulk operations fan out; one connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_user ON todos(user_id, id);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Store{db: db, ownerID: ownerID}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, completed, user_id FROM todos WHERE user_id = ? ORDER BY id`, s.ownerID)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Completed, &it.OwnerID); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return items, nil
}

func (s *Store) Create(ctx context.Context, payload model.NewItem) (model.Item, error) {
	title, err := model.NormalizeTitle(payload.Title)
	if err != nil {
		return model.Item{}, fmt.Errorf("create: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (user_id, title, completed) VALUES (?, ?, ?)`,
		payload.OwnerID, title, payload.Completed)
	if err != nil {
		return model.Item{}, fmt.Errorf("create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Item{}, fmt.Errorf("create: %w", err)
	}
	return model.Item{ID: int(id), Title: title, Completed: payload.Completed, OwnerID: payload.OwnerID}, nil
}

func (s *Store) Update(ctx context.Context, id int, patch model.Patch) (model.Item, error) {
	if err := patch.Validate(); err != nil {
		return model.Item{}, fmt.Errorf("update %d: %w", id, err)
	}
	var (
		res sql.Result
		err error
	)
	switch {
	case patch.Title != nil:
		res, err = s.db.ExecContext(ctx,
			`UPDATE todos SET title = ? WHERE id = ? AND user_id = ?`, *patch.Title, id, s.ownerID)
	default:
		res, err = s.db.ExecContext(ctx,
			`UPDATE todos SET completed = ? WHERE id = ? AND user_id = ?`, *patch.Completed, id, s.ownerID)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("update %d: %w", id, err)
	}
	if err := affected(res); err != nil {
		return model.Item{}, fmt.Errorf("update %d: %w", id, err)
	}
	return s.get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND user_id = ?`, id, s.ownerID)
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, id int) (model.Item, error) {
	var it model.Item
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, completed, user_id FROM todos WHERE id = ? AND user_id = ?`, id, s.ownerID).
		Scan(&it.ID, &it.Title, &it.Completed, &it.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("get %d: %w", id, remote.ErrNotFound)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("get %d: %w", id, err)
	}
	return it, nil
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return remote.ErrNotFound
	}
	return nil
}
