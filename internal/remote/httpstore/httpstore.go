// Package httpstore talks to the REST todos API:
//
//	GET    {base}/todos?userId={owner}
//	POST   {base}/todos
//	PATCH  {base}/todos/{id}
//	DELETE {base}/todos/{id}
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/remote"
)

type Options struct {
	BaseURL string
	OwnerID int
	Token   string
	Timeout time.Duration // 0 means no client-side timeout
	Client  *http.Client
	Logger  *zap.Logger
}

type Store struct {
	base    *url.URL
	ownerID int
	token   string
	client  *http.Client
	log     *zap.Logger
}

var _ remote.Store = (*Store)(nil)

func New(opt Options) (*Store, error) {
	raw := strings.TrimRight(strings.TrimSpace(opt.BaseURL), "/")
	if raw == "" {
		return nil, fmt.Errorf("httpstore: empty base url")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("httpstore: parse base url: %w", err)
	}
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: opt.Timeout}
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		base:    base,
		ownerID: opt.OwnerID,
		token:   opt.Token,
		client:  client,
		log:     log.Named("http"),
	}, nil
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	q := url.Values{"userId": {strconv.Itoa(s.ownerID)}}
	var items []model.Item
	if err := s.do(ctx, http.MethodGet, "/todos", q, nil, &items); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (s *Store) Create(ctx context.Context, payload model.NewItem) (model.Item, error) {
	var it model.Item
	if err := s.do(ctx, http.MethodPost, "/todos", nil, payload, &it); err != nil {
		return model.Item{}, fmt.Errorf("create: %w", err)
	}
	return it, nil
}

func (s *Store) Update(ctx context.Context, id int, patch model.Patch) (model.Item, error) {
	if err := patch.Validate(); err != nil {
		return model.Item{}, fmt.Errorf("update %d: %w", id, err)
	}
	var it model.Item
	if err := s.do(ctx, http.MethodPatch, "/todos/"+strconv.Itoa(id), nil, patch, &it); err != nil {
		return model.Item{}, fmt.Errorf("update %d: %w", id, err)
	}
	return it, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	if err := s.do(ctx, http.MethodDelete, "/todos/"+strconv.Itoa(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return nil
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func (s *Store) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := s.base.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("request failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	s.log.Debug("request done", zap.String("method", method), zap.String("path", path),
		zap.String("request_id", reqID), zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return remote.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}
