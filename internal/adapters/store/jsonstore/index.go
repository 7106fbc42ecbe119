package jsonstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

// IndexStore keeps the refresh manifest: one JSON object mapping session
// id to fingerprint and last outcome.
type IndexStore struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.SummaryIndex = (*IndexStore)(nil)

func NewIndexStore(path string) *IndexStore {
	path = filepath.Clean(path)
	return &IndexStore{path: path, mu: lockForPath(path)}
}

func (s *IndexStore) Load(ctx context.Context) (domain.RefreshIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	index := domain.RefreshIndex{}
	if err := readFile(s.path, &index); err != nil {
		return nil, fmt.Errorf("load summary index: %w", err)
	}
	if index == nil {
		index = domain.RefreshIndex{}
	}

	return index, nil
}

func (s *IndexStore) Save(ctx context.Context, index domain.RefreshIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index == nil {
		index = domain.RefreshIndex{}
	}

	if err := writeFile(s.path, index); err != nil {
		return fmt.Errorf("save summary index: %w", err)
	}

	return nil
}
