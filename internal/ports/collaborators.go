package ports

import (
	"context"
	"time"

	"github.com/bnema/codextendo/internal/domain"
)

// SummaryRequest carries everything the summarization model needs for
// one session.
type SummaryRequest struct {
	SessionID       domain.SessionID
	Label           string
	Model           string
	Transcript      string
	Truncated       bool
	KeptTokens      int
	TotalSegments   int
	KeptSegments    int
	LatestTimestamp time.Time
}

type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (domain.SummaryPayload, error)
}

// SessionLauncher hands a session back to the external conversational
// CLI, optionally seeding it with a first message. It reports only
// invocation success or failure.
type SessionLauncher interface {
	Resume(ctx context.Context, id domain.SessionID, firstMessage string) error
}

// TokenCounter estimates token counts for transcript trimming. Precise
// reports whether a real BPE encoder backs the counts.
type TokenCounter interface {
	Count(text string) int
	Precise() bool
}
