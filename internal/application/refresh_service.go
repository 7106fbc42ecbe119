package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

const (
	DefaultSummaryModel      = "gpt-5"
	DefaultSummaryTokenLimit = 200000
)

// RefreshService re-derives summary artifacts for every session in the
// corpus, skipping sessions whose content fingerprint matches the
// manifest. A single session's failure is recorded and never aborts the
// rest of the run.
type RefreshService struct {
	corpus     ports.CorpusReader
	index      ports.SummaryIndex
	labels     ports.LabelStore
	summarizer ports.Summarizer
	writer     ports.SummaryWriter
	counter    ports.TokenCounter
	clock      ports.Clock
}

func NewRefreshService(
	corpus ports.CorpusReader,
	index ports.SummaryIndex,
	labels ports.LabelStore,
	summarizer ports.Summarizer,
	writer ports.SummaryWriter,
	counter ports.TokenCounter,
	clock ports.Clock,
) *RefreshService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &RefreshService{
		corpus:     corpus,
		index:      index,
		labels:     labels,
		summarizer: summarizer,
		writer:     writer,
		counter:    counter,
		clock:      clock,
	}
}

type RefreshOptions struct {
	Root      string
	Limit     int
	Force     bool
	Model     string
	MaxTokens int
	// Progress receives one line per session as the run proceeds.
	Progress io.Writer
}

type SessionFailure struct {
	Path string
	Err  error
}

type RunReport struct {
	Refreshed int
	Skipped   int
	Failures  []SessionFailure
}

// SummaryResult carries the artifact and the paths it was written to.
type SummaryResult struct {
	Artifact     domain.SummaryArtifact
	JSONPath     string
	MarkdownPath string
	HistoryPath  string
}

func (s *RefreshService) Refresh(ctx context.Context, opts RefreshOptions) (RunReport, error) {
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	model := opts.Model
	if model == "" {
		model = DefaultSummaryModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultSummaryTokenLimit
	}

	files, err := s.corpus.Sessions(ctx, opts.Root)
	if err != nil {
		return RunReport{}, err
	}
	if opts.Limit > 0 && len(files) > opts.Limit {
		files = files[:opts.Limit]
	}

	index, err := s.index.Load(ctx)
	if err != nil {
		return RunReport{}, err
	}

	labelMap, err := s.labels.All(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("resolve labels: %w", err)
	}

	var report RunReport

	// Oldest first, so the most recent sessions end up freshest in the
	// history timelines.
	for i := len(files) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		file := files[i]
		id, err := domain.ParseSessionID(file.Path)
		if err != nil {
			report.Failures = append(report.Failures, SessionFailure{Path: file.Path, Err: err})
			continue
		}

		transcript, err := s.corpus.Transcript(ctx, file.Path)
		if err != nil {
			report.Failures = append(report.Failures, SessionFailure{Path: file.Path, Err: err})
			continue
		}
		if transcript.Empty() {
			report.Skipped++
			fmt.Fprintf(progress, "warning: no message content in %s; skipping\n", id)
			continue
		}

		latest := formatLatest(transcript.LatestTimestamp)
		if !opts.Force {
			if entry, ok := index[id]; ok && entry.Digest == transcript.Digest && entry.LatestTimestamp == latest {
				report.Skipped++
				continue
			}
		}

		result, err := s.summarize(ctx, id, labelMap[file.Path], transcript, model, maxTokens)
		if err != nil {
			report.Failures = append(report.Failures, SessionFailure{Path: file.Path, Err: err})
			// Blank digest forces a retry on the next run.
			index[id] = domain.IndexEntry{
				Path:   file.Path,
				Status: fmt.Sprintf("failed: %s", firstLine(err.Error())),
			}
			fmt.Fprintf(progress, "warning: failed to summarize %s: %v\n", id, err)
			continue
		}

		index[id] = domain.IndexEntry{
			Path:            file.Path,
			Digest:          transcript.Digest,
			LatestTimestamp: latest,
			Status:          "ok",
			SummarizedAt:    s.clock.Now().UTC().Format(time.RFC3339),
		}
		report.Refreshed++
		fmt.Fprintf(progress, "refreshed %s -> %s\n", id, result.MarkdownPath)
	}

	// One manifest rewrite at the end, skipped sessions included, so
	// downstream consumers can enumerate sessions without re-scanning.
	if err := s.index.Save(ctx, index); err != nil {
		return report, err
	}

	return report, nil
}

// SummarizeFile runs the single-session pipeline outside of a refresh:
// render, trim, summarize, persist. Failures are fatal to the caller.
func (s *RefreshService) SummarizeFile(ctx context.Context, path, labelOverride, model string, maxTokens int) (SummaryResult, error) {
	if model == "" {
		model = DefaultSummaryModel
	}
	if maxTokens == 0 {
		maxTokens = DefaultSummaryTokenLimit
	}

	id, err := domain.ParseSessionID(path)
	if err != nil {
		return SummaryResult{}, err
	}

	label := labelOverride
	if label == "" {
		stored, _, err := s.labels.Get(ctx, path)
		if err != nil {
			return SummaryResult{}, err
		}
		label = stored
	}

	transcript, err := s.corpus.Transcript(ctx, path)
	if err != nil {
		return SummaryResult{}, err
	}
	if transcript.Empty() {
		return SummaryResult{}, domain.ErrEmptyTranscript
	}

	return s.summarize(ctx, id, label, transcript, model, maxTokens)
}

func (s *RefreshService) summarize(ctx context.Context, id domain.SessionID, label string, transcript domain.Transcript, model string, maxTokens int) (SummaryResult, error) {
	kept, truncated, keptTokens := trimSegments(transcript.Segments, maxTokens, s.counter)

	combined := make([]string, 0, len(kept))
	for _, segment := range kept {
		combined = append(combined, segment.Combined())
	}

	payload, err := s.summarizer.Summarize(ctx, ports.SummaryRequest{
		SessionID:       id,
		Label:           label,
		Model:           model,
		Transcript:      strings.Join(combined, "\n\n"),
		Truncated:       truncated,
		KeptTokens:      keptTokens,
		TotalSegments:   len(transcript.Segments),
		KeptSegments:    len(kept),
		LatestTimestamp: transcript.LatestTimestamp,
	})
	if err != nil {
		return SummaryResult{}, err
	}

	artifact := domain.SummaryArtifact{
		SessionID:      id,
		Label:          label,
		GeneratedAt:    s.clock.Now().UTC(),
		Model:          model,
		Truncated:      truncated,
		KeptTokens:     keptTokens,
		Digest:         transcript.Digest,
		SummaryPayload: payload,
	}

	jsonPath, markdownPath, err := s.writer.WriteArtifact(ctx, artifact)
	if err != nil {
		return SummaryResult{}, err
	}

	historyPath, err := s.writer.AppendHistory(ctx, artifact)
	if err != nil {
		return SummaryResult{}, err
	}

	return SummaryResult{
		Artifact:     artifact,
		JSONPath:     jsonPath,
		MarkdownPath: markdownPath,
		HistoryPath:  historyPath,
	}, nil
}

// trimSegments keeps the newest tail of the transcript that fits the
// token budget. The earliest segments are dropped first; a single
// oversized segment is kept rather than producing an empty prompt.
func trimSegments(segments []domain.Segment, maxTokens int, counter ports.TokenCounter) ([]domain.Segment, bool, int) {
	if len(segments) == 0 {
		return segments, false, 0
	}

	counts := make([]int, len(segments))
	total := 0
	for i, segment := range segments {
		counts[i] = counter.Count(segment.Combined())
		total += counts[i]
	}

	if maxTokens <= 0 || total <= maxTokens {
		return segments, false, total
	}

	start := 0
	running := total
	for start < len(segments)-1 && running > maxTokens {
		running -= counts[start]
		start++
	}

	return segments[start:], true, running
}

func formatLatest(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
