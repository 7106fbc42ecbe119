package jsonstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

// CacheStore keeps the last search's ordered result list as a JSON
// array. Every new search overwrites it wholesale.
type CacheStore struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.ResultCache = (*CacheStore)(nil)

func NewCacheStore(path string) *CacheStore {
	path = filepath.Clean(path)
	return &CacheStore{path: path, mu: lockForPath(path)}
}

func (s *CacheStore) Replace(ctx context.Context, entries []domain.MatchEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entries == nil {
		entries = []domain.MatchEntry{}
	}

	if err := writeFile(s.path, entries); err != nil {
		return fmt.Errorf("save search cache: %w", err)
	}

	return nil
}

func (s *CacheStore) Entries(ctx context.Context) ([]domain.MatchEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read()
}

func (s *CacheStore) Resolve(ctx context.Context, index int) (domain.MatchEntry, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return domain.MatchEntry{}, err
	}

	if len(entries) == 0 {
		return domain.MatchEntry{}, domain.ErrEmptyCache
	}
	if index < 1 || index > len(entries) {
		return domain.MatchEntry{}, &domain.IndexOutOfRangeError{Index: index, Min: 1, Max: len(entries)}
	}

	return entries[index-1], nil
}

func (s *CacheStore) SetLabel(ctx context.Context, path, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}

	changed := false
	for i := range entries {
		if entries[i].Path == path && entries[i].Label != label {
			entries[i].Label = label
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := writeFile(s.path, entries); err != nil {
		return fmt.Errorf("save search cache: %w", err)
	}

	return nil
}

func (s *CacheStore) read() ([]domain.MatchEntry, error) {
	entries := []domain.MatchEntry{}
	if err := readFile(s.path, &entries); err != nil {
		return nil, fmt.Errorf("load search cache: %w", err)
	}

	return entries, nil
}
