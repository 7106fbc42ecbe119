package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

const DefaultSearchLimit = 5

// SearchService scans the corpus newest-first, collects at most one
// match per session file, and persists the ordered result list as the
// addressable last search.
type SearchService struct {
	corpus ports.CorpusReader
	labels ports.LabelStore
	cache  ports.ResultCache
}

func NewSearchService(corpus ports.CorpusReader, labels ports.LabelStore, cache ports.ResultCache) *SearchService {
	return &SearchService{corpus: corpus, labels: labels, cache: cache}
}

type SearchOptions struct {
	Pattern string
	Limit   int
	// SkipPhrases marks user-role records that merely echo a search
	// invocation; those must not match their own search.
	SkipPhrases []string
}

func (s *SearchService) Search(ctx context.Context, root string, opts SearchOptions) ([]domain.MatchEntry, error) {
	normPattern := domain.NormalizeText(opts.Pattern)
	if normPattern == "" {
		return nil, domain.ErrEmptyPattern
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	files, err := s.corpus.Sessions(ctx, root)
	if err != nil {
		return nil, err
	}

	labelMap, err := s.labels.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve labels: %w", err)
	}

	var entries []domain.MatchEntry
	for _, file := range files {
		if len(entries) >= limit {
			break
		}

		records, err := s.corpus.Records(ctx, file.Path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", file.Path, err)
		}

		for _, record := range records {
			if record.Role == domain.RoleUser && echoesInvocation(record.Text, opts.SkipPhrases) {
				continue
			}
			if !strings.Contains(domain.NormalizeText(record.Text), normPattern) {
				continue
			}

			timestamp := record.Timestamp
			if timestamp.IsZero() {
				timestamp = file.ModTime.UTC()
			}

			entries = append(entries, domain.MatchEntry{
				Timestamp: timestamp.Format(time.RFC3339),
				Role:      string(record.Role),
				Path:      file.Path,
				Snippet:   domain.BuildSnippet(record.Text, opts.Pattern),
				Label:     labelMap[file.Path],
			})
			// One entry per file: the first matching record wins.
			break
		}
	}

	if len(entries) == 0 {
		return nil, domain.ErrNoMatches
	}

	if err := s.cache.Replace(ctx, entries); err != nil {
		return nil, fmt.Errorf("persist search results: %w", err)
	}

	return entries, nil
}

func echoesInvocation(text string, skipPhrases []string) bool {
	for _, phrase := range skipPhrases {
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}

	return false
}
