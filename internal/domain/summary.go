package domain

import "time"

// ActionStatus is the closed set of key-action states the summarizer may
// report.
type ActionStatus string

const (
	ActionCompleted  ActionStatus = "completed"
	ActionInProgress ActionStatus = "in_progress"
	ActionBlocked    ActionStatus = "blocked"
	ActionPlanned    ActionStatus = "planned"
)

type KeyAction struct {
	Description string       `json:"description"`
	Status      ActionStatus `json:"status"`
}

// SummaryPayload is the structured document the summarization model
// returns, conforming to the JSON schema sent with the request.
type SummaryPayload struct {
	Summary      string      `json:"summary"`
	KeyActions   []KeyAction `json:"key_actions"`
	FilesTouched []string    `json:"files_touched"`
	Concerns     []string    `json:"concerns"`
	FollowUp     []string    `json:"follow_up"`
}

// SummaryArtifact is the per-session derived document the refresh engine
// owns: the model payload plus generation metadata and the content
// fingerprint it was derived from.
type SummaryArtifact struct {
	SessionID   SessionID `json:"session_id"`
	Label       string    `json:"label,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Model       string    `json:"model"`
	Truncated   bool      `json:"truncated"`
	KeptTokens  int       `json:"kept_tokens"`
	Digest      string    `json:"digest"`

	SummaryPayload
}

// IndexEntry is one manifest row: the fingerprint and outcome of the
// last refresh for a session. A refresh skips a session iff its current
// digest and latest timestamp both match the stored entry.
type IndexEntry struct {
	Path            string `json:"path"`
	Digest          string `json:"digest"`
	LatestTimestamp string `json:"latest_timestamp,omitempty"`
	Status          string `json:"status"`
	SummarizedAt    string `json:"summarized_at,omitempty"`
}

// RefreshIndex is the aggregate manifest keyed by session id, rewritten
// wholesale at the end of every refresh run.
type RefreshIndex map[SessionID]IndexEntry
