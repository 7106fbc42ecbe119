package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Role classifies who produced a transcript record.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleUnknown   Role = "unknown"
)

// SessionFile points at one transcript file in the corpus.
type SessionFile struct {
	Path    string
	ModTime time.Time
}

// Record is one parsed conversational line of a transcript. Derived per
// read, never persisted.
type Record struct {
	Role      Role
	Text      string
	Timestamp time.Time
}

// Segment is one rendered transcript payload, prompt-ready. The header
// names the payload kind (USER, ASSISTANT, FUNCTION_CALL shell, ...).
type Segment struct {
	Header    string
	Text      string
	Timestamp time.Time
}

func (s Segment) Combined() string {
	return s.Header + ":\n" + s.Text
}

// Transcript is the rendered form of a whole session file. Digest is a
// sha256 content fingerprint over every segment; it changes whenever the
// renderable content of the file changes.
type Transcript struct {
	Segments        []Segment
	LatestTimestamp time.Time
	Digest          string
}

func (t Transcript) Empty() bool {
	return len(t.Segments) == 0
}

// SessionID is the stable identifier derived from a transcript filename:
// the trailing five dash-separated segments of the stem (for rollout
// files this is the embedded UUID).
type SessionID string

const sessionIDSegments = 5

// ParseSessionID derives a SessionID from a transcript file path. The
// filename stem must carry at least five non-empty trailing dash
// segments; anything else is a MalformedSessionIDError.
func ParseSessionID(path string) (SessionID, error) {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	parts := strings.Split(stem, "-")
	if len(parts) < sessionIDSegments {
		return "", &MalformedSessionIDError{Name: name}
	}

	tail := parts[len(parts)-sessionIDSegments:]
	for _, part := range tail {
		if part == "" {
			return "", &MalformedSessionIDError{Name: name}
		}
	}

	return SessionID(strings.Join(tail, "-")), nil
}
