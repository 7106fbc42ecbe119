package jsonstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bnema/codextendo/internal/ports"
)

// LabelStore keeps the session-path -> display-name map as one JSON
// object on disk.
type LabelStore struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.LabelStore = (*LabelStore)(nil)

func NewLabelStore(path string) *LabelStore {
	path = filepath.Clean(path)
	return &LabelStore{path: path, mu: lockForPath(path)}
}

func (s *LabelStore) All(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read()
}

func (s *LabelStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	labels, err := s.read()
	if err != nil {
		return "", false, err
	}

	name, ok := labels[key]
	return name, ok, nil
}

func (s *LabelStore) Put(ctx context.Context, key, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	labels, err := s.read()
	if err != nil {
		return err
	}

	labels[key] = name

	if err := writeFile(s.path, labels); err != nil {
		return fmt.Errorf("save labels: %w", err)
	}

	return nil
}

func (s *LabelStore) Remove(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	labels, err := s.read()
	if err != nil {
		return "", false, err
	}

	previous, ok := labels[key]
	if !ok {
		return "", false, nil
	}

	delete(labels, key)

	if err := writeFile(s.path, labels); err != nil {
		return "", false, fmt.Errorf("save labels: %w", err)
	}

	return previous, true, nil
}

func (s *LabelStore) read() (map[string]string, error) {
	labels := map[string]string{}
	if err := readFile(s.path, &labels); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	if labels == nil {
		labels = map[string]string{}
	}

	return labels, nil
}
