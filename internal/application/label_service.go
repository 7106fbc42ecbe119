package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

// LabelService owns the display-name invariant: no two sessions may
// share a non-empty label. Colliding names are rewritten with the
// smallest free "(n)" suffix, n >= 2.
type LabelService struct {
	labels ports.LabelStore
	cache  ports.ResultCache
}

func NewLabelService(labels ports.LabelStore, cache ports.ResultCache) *LabelService {
	return &LabelService{labels: labels, cache: cache}
}

type SetLabelResult struct {
	// Applied is the name actually stored, after any disambiguation.
	Applied   string
	Renamed   bool
	Unchanged bool
}

func (s *LabelService) Set(ctx context.Context, key, name string) (SetLabelResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SetLabelResult{}, domain.ErrBlankTitle
	}

	current, ok, err := s.labels.Get(ctx, key)
	if err != nil {
		return SetLabelResult{}, err
	}
	if ok && current == name {
		return SetLabelResult{Applied: name, Unchanged: true}, nil
	}

	all, err := s.labels.All(ctx)
	if err != nil {
		return SetLabelResult{}, err
	}

	taken := make(map[string]bool, len(all))
	for otherKey, otherName := range all {
		if otherKey == key || otherName == "" {
			continue
		}
		taken[otherName] = true
	}

	applied := name
	renamed := false
	for n := 2; taken[applied]; n++ {
		applied = fmt.Sprintf("%s (%d)", name, n)
		renamed = true
	}

	if err := s.labels.Put(ctx, key, applied); err != nil {
		return SetLabelResult{}, err
	}

	if err := s.cache.SetLabel(ctx, key, applied); err != nil {
		return SetLabelResult{}, fmt.Errorf("update cached results: %w", err)
	}

	return SetLabelResult{Applied: applied, Renamed: renamed}, nil
}

type ClearLabelResult struct {
	Removed  bool
	Previous string
}

// Clear removes the mapping entirely. Clearing a key with no label is a
// no-op reported distinctly from a removal.
func (s *LabelService) Clear(ctx context.Context, key string) (ClearLabelResult, error) {
	previous, removed, err := s.labels.Remove(ctx, key)
	if err != nil {
		return ClearLabelResult{}, err
	}
	if !removed {
		return ClearLabelResult{}, nil
	}

	if err := s.cache.SetLabel(ctx, key, ""); err != nil {
		return ClearLabelResult{}, fmt.Errorf("update cached results: %w", err)
	}

	return ClearLabelResult{Removed: true, Previous: previous}, nil
}
