package summaries

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

const (
	summariesDirMode  = 0o700
	summariesFileMode = 0o600
)

// Writer persists per-session summary artifacts under one directory:
// <id>.json, <id>.md, the append-only <id>.history.md timeline, and
// exported <id>.transcript.md documents.
type Writer struct {
	root string
}

var _ ports.SummaryWriter = (*Writer)(nil)

func NewWriter(root string) *Writer {
	return &Writer{root: filepath.Clean(root)}
}

func (w *Writer) WriteArtifact(ctx context.Context, artifact domain.SummaryArtifact) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(w.root, summariesDirMode); err != nil {
		return "", "", fmt.Errorf("create summaries directory: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode summary artifact: %w", err)
	}

	jsonPath := filepath.Join(w.root, fmt.Sprintf("%s.json", artifact.SessionID))
	if err := writeAtomic(jsonPath, data); err != nil {
		return "", "", err
	}

	markdownPath := filepath.Join(w.root, fmt.Sprintf("%s.md", artifact.SessionID))
	if err := writeAtomic(markdownPath, []byte(renderMarkdown(artifact))); err != nil {
		return "", "", err
	}

	return jsonPath, markdownPath, nil
}

func (w *Writer) AppendHistory(ctx context.Context, artifact domain.SummaryArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.root, summariesDirMode); err != nil {
		return "", fmt.Errorf("create summaries directory: %w", err)
	}

	historyPath := filepath.Join(w.root, fmt.Sprintf("%s.history.md", artifact.SessionID))

	file, err := os.OpenFile(historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, summariesFileMode)
	if err != nil {
		return "", fmt.Errorf("open history file: %w", err)
	}

	_, writeErr := file.WriteString(renderHistoryBlock(artifact))
	closeErr := file.Close()
	if writeErr != nil {
		return "", fmt.Errorf("append history file: %w", writeErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("close history file: %w", closeErr)
	}

	return historyPath, nil
}

func (w *Writer) WriteTranscript(ctx context.Context, id domain.SessionID, segments []domain.Segment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(segments) == 0 {
		return "", domain.ErrEmptyTranscript
	}

	if err := os.MkdirAll(w.root, summariesDirMode); err != nil {
		return "", fmt.Errorf("create summaries directory: %w", err)
	}

	path := filepath.Join(w.root, fmt.Sprintf("%s.transcript.md", id))
	if err := writeAtomic(path, []byte(renderTranscript(id, segments))); err != nil {
		return "", err
	}

	return path, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp summary file: %w", err)
	}

	tempName := tempFile.Name()
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("write temp summary file: %w", err)
	}
	if err := tempFile.Chmod(summariesFileMode); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("chmod temp summary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("close temp summary file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("replace summary file: %w", err)
	}

	return nil
}
