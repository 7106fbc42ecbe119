package ports

import (
	"context"

	"github.com/bnema/codextendo/internal/domain"
)

type CorpusReader interface {
	// Sessions enumerates transcript files under root, ordered by
	// modification time descending. A missing root surfaces
	// domain.ErrCorpusNotFound.
	Sessions(ctx context.Context, root string) ([]domain.SessionFile, error)

	// Records parses the conversational message records of one file.
	// Malformed lines are skipped, never surfaced.
	Records(ctx context.Context, path string) ([]domain.Record, error)

	// Transcript renders every payload of one file into prompt-ready
	// segments, with the content digest and the latest timestamp seen.
	Transcript(ctx context.Context, path string) (domain.Transcript, error)
}
