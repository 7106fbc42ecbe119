package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/codextendo/internal/domain"
)

func sessionPath(n string) string {
	return "/corpus/rollout-2026-08-29T10-00-00-" + n + "-bbbb-cccc-dddd-eeeeffff0001.jsonl"
}

func TestSearchReturnsNewestFirstOneEntryPerFile(t *testing.T) {
	t.Parallel()

	newer := sessionPath("aaaa0002")
	older := sessionPath("aaaa0001")

	corpus := &fakeCorpus{
		files: []domain.SessionFile{
			{Path: newer, ModTime: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)},
			{Path: older, ModTime: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)},
		},
		records: map[string][]domain.Record{
			newer: {
				{Role: domain.RoleAssistant, Text: "we got disconnected while deploying"},
				{Role: domain.RoleUser, Text: "also disconnected here, should not appear"},
			},
			older: {
				{Role: domain.RoleUser, Text: "my session disconnected yesterday"},
			},
		},
	}
	cache := &memCache{}
	svc := NewSearchService(corpus, newMemLabelStore(), cache)

	entries, err := svc.Search(context.Background(), "/corpus", SearchOptions{Pattern: "Disconnected"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, newer, entries[0].Path)
	assert.Equal(t, "assistant", entries[0].Role)
	assert.Contains(t, entries[0].Snippet, "disconnected while deploying")
	assert.Equal(t, older, entries[1].Path)
	assert.Equal(t, 1, cache.replaces)
	assert.Equal(t, entries, cache.entries)
}

func TestSearchHonorsLimit(t *testing.T) {
	t.Parallel()

	corpus := &fakeCorpus{records: map[string][]domain.Record{}}
	for _, n := range []string{"aaaa0003", "aaaa0002", "aaaa0001"} {
		path := sessionPath(n)
		corpus.files = append(corpus.files, domain.SessionFile{Path: path})
		corpus.records[path] = []domain.Record{{Role: domain.RoleAssistant, Text: "needle " + n}}
	}
	svc := NewSearchService(corpus, newMemLabelStore(), &memCache{})

	entries, err := svc.Search(context.Background(), "/corpus", SearchOptions{Pattern: "needle", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, sessionPath("aaaa0003"), entries[0].Path)
}

func TestSearchSkipsUserRecordsEchoingTheInvocation(t *testing.T) {
	t.Parallel()

	path := sessionPath("aaaa0001")
	corpus := &fakeCorpus{
		files: []domain.SessionFile{{Path: path}},
		records: map[string][]domain.Record{
			path: {
				{Role: domain.RoleUser, Text: "codextendo search disconnected"},
				{Role: domain.RoleAssistant, Text: "the network disconnected mid-run"},
			},
		},
	}
	svc := NewSearchService(corpus, newMemLabelStore(), &memCache{})

	entries, err := svc.Search(context.Background(), "/corpus", SearchOptions{
		Pattern:     "disconnected",
		SkipPhrases: []string{"codextendo search"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "assistant", entries[0].Role)
}

func TestSearchAssistantRecordsAreNeverSkipped(t *testing.T) {
	t.Parallel()

	path := sessionPath("aaaa0001")
	corpus := &fakeCorpus{
		files: []domain.SessionFile{{Path: path}},
		records: map[string][]domain.Record{
			path: {{Role: domain.RoleAssistant, Text: "run codextendo search disconnected to find it"}},
		},
	}
	svc := NewSearchService(corpus, newMemLabelStore(), &memCache{})

	entries, err := svc.Search(context.Background(), "/corpus", SearchOptions{
		Pattern:     "disconnected",
		SkipPhrases: []string{"codextendo search"},
	})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSearchFallsBackToFileModTime(t *testing.T) {
	t.Parallel()

	path := sessionPath("aaaa0001")
	modTime := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	corpus := &fakeCorpus{
		files: []domain.SessionFile{{Path: path, ModTime: modTime}},
		records: map[string][]domain.Record{
			path: {{Role: domain.RoleUser, Text: "needle without timestamp"}},
		},
	}
	svc := NewSearchService(corpus, newMemLabelStore(), &memCache{})

	entries, err := svc.Search(context.Background(), "/corpus", SearchOptions{Pattern: "needle"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, modTime.Format(time.RFC3339), entries[0].Timestamp)
}

func TestSearchCarriesLabels(t *testing.T) {
	t.Parallel()

	path := sessionPath("aaaa0001")
	corpus := &fakeCorpus{
		files:   []domain.SessionFile{{Path: path}},
		records: map[string][]domain.Record{path: {{Role: domain.RoleUser, Text: "needle"}}},
	}
	labels := newMemLabelStore()
	require.NoError(t, labels.Put(context.Background(), path, "Deploy debugging"))
	svc := NewSearchService(corpus, labels, &memCache{})

	entries, err := svc.Search(context.Background(), "/corpus", SearchOptions{Pattern: "needle"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Deploy debugging", entries[0].Label)
}

func TestSearchRejectsEmptyPattern(t *testing.T) {
	t.Parallel()

	svc := NewSearchService(&fakeCorpus{files: []domain.SessionFile{}}, newMemLabelStore(), &memCache{})

	_, err := svc.Search(context.Background(), "/corpus", SearchOptions{Pattern: "  !!! "})
	assert.ErrorIs(t, err, domain.ErrEmptyPattern)
}

func TestSearchReportsNoMatchesWithoutTouchingCache(t *testing.T) {
	t.Parallel()

	path := sessionPath("aaaa0001")
	corpus := &fakeCorpus{
		files:   []domain.SessionFile{{Path: path}},
		records: map[string][]domain.Record{path: {{Role: domain.RoleUser, Text: "nothing here"}}},
	}
	cache := &memCache{entries: []domain.MatchEntry{{Path: path}}}
	svc := NewSearchService(corpus, newMemLabelStore(), cache)

	_, err := svc.Search(context.Background(), "/corpus", SearchOptions{Pattern: "absent"})
	assert.ErrorIs(t, err, domain.ErrNoMatches)
	assert.Equal(t, 0, cache.replaces)
	assert.Len(t, cache.entries, 1)
}

func TestSearchPropagatesMissingCorpus(t *testing.T) {
	t.Parallel()

	svc := NewSearchService(&fakeCorpus{}, newMemLabelStore(), &memCache{})

	_, err := svc.Search(context.Background(), "/missing", SearchOptions{Pattern: "needle"})
	assert.ErrorIs(t, err, domain.ErrCorpusNotFound)
}
