package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

// DefaultResumePrompt is the built-in first-turn message: a
// past/present/future recap request.
const DefaultResumePrompt = "We're picking up a previous session. Please give me a quick recap: " +
	"what we already did, where things currently stand, and what we planned to do next."

// PromptConfig controls the resume context message. An explicit Override
// is sent verbatim; Disabled suppresses the message entirely.
type PromptConfig struct {
	Disabled bool
	Override string
	Default  string
}

// BuildResumeContext composes the first-turn message for a resumed
// session. Annotations (label, query, snippet) are appended only to the
// built-in or configured default, never to an explicit override.
func BuildResumeContext(entry domain.MatchEntry, query string, cfg PromptConfig) string {
	if cfg.Disabled {
		return ""
	}

	if strings.TrimSpace(cfg.Override) != "" {
		return cfg.Override
	}

	message := strings.TrimSpace(cfg.Default)
	if message == "" {
		message = DefaultResumePrompt
	}

	var annotations []string
	if entry.Label != "" {
		annotations = append(annotations, fmt.Sprintf("Session label: %s", entry.Label))
	}
	if query != "" {
		annotations = append(annotations, fmt.Sprintf("Original search query: %s", query))
	}
	if entry.Snippet != "" {
		annotations = append(annotations, fmt.Sprintf("Matched context: %s", entry.Snippet))
	}

	if len(annotations) > 0 {
		message += "\n\n" + strings.Join(annotations, "\n")
	}

	return message
}

// OpenService acts on a resolved search result: resume it through the
// external CLI, export its transcript, both, or neither.
type OpenService struct {
	corpus   ports.CorpusReader
	launcher ports.SessionLauncher
	writer   ports.SummaryWriter
}

func NewOpenService(corpus ports.CorpusReader, launcher ports.SessionLauncher, writer ports.SummaryWriter) *OpenService {
	return &OpenService{corpus: corpus, launcher: launcher, writer: writer}
}

type OpenRequest struct {
	Entry  domain.MatchEntry
	Mode   domain.OpenMode
	Query  string
	Prompt PromptConfig
}

type OpenResult struct {
	SessionID      domain.SessionID
	TranscriptPath string
	Resumed        bool
}

func (s *OpenService) Open(ctx context.Context, req OpenRequest) (OpenResult, error) {
	id, err := domain.ParseSessionID(req.Entry.Path)
	if err != nil {
		return OpenResult{}, err
	}

	result := OpenResult{SessionID: id}

	if req.Mode.Export() {
		transcript, err := s.corpus.Transcript(ctx, req.Entry.Path)
		if err != nil {
			return result, err
		}

		path, err := s.writer.WriteTranscript(ctx, id, transcript.Segments)
		if err != nil {
			return result, fmt.Errorf("export transcript: %w", err)
		}
		result.TranscriptPath = path
	}

	if req.Mode.Resume() {
		message := BuildResumeContext(req.Entry, req.Query, req.Prompt)
		if err := s.launcher.Resume(ctx, id, message); err != nil {
			return result, err
		}
		result.Resumed = true
	}

	return result, nil
}
