package ports

import (
	"context"

	"github.com/bnema/codextendo/internal/domain"
)

// LabelStore persists the session-path -> display-name mapping. Name
// uniqueness is the label service's concern; the store is plain
// persistence.
type LabelStore interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, name string) error
	// Remove deletes the mapping and returns the previous name and
	// whether anything was removed.
	Remove(ctx context.Context, key string) (string, bool, error)
}

// ResultCache persists the ordered entry list of the most recent search.
type ResultCache interface {
	Replace(ctx context.Context, entries []domain.MatchEntry) error
	Entries(ctx context.Context) ([]domain.MatchEntry, error)
	// Resolve returns the entry at 1-based index, or
	// domain.IndexOutOfRangeError / domain.ErrEmptyCache.
	Resolve(ctx context.Context, index int) (domain.MatchEntry, error)
	// SetLabel rewrites the label of any cached entry for path, so label
	// changes show up without a re-search. Empty label clears it.
	SetLabel(ctx context.Context, path, label string) error
}

// SummaryIndex persists the refresh manifest.
type SummaryIndex interface {
	Load(ctx context.Context) (domain.RefreshIndex, error)
	Save(ctx context.Context, index domain.RefreshIndex) error
}

// SummaryWriter persists derived summary artifacts: the structured JSON
// document, the rendered Markdown, the append-only history timeline, and
// exported transcripts.
type SummaryWriter interface {
	WriteArtifact(ctx context.Context, artifact domain.SummaryArtifact) (jsonPath, markdownPath string, err error)
	AppendHistory(ctx context.Context, artifact domain.SummaryArtifact) (historyPath string, err error)
	WriteTranscript(ctx context.Context, id domain.SessionID, segments []domain.Segment) (path string, err error)
}
