package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

type fakeCorpus struct {
	files       []domain.SessionFile
	records     map[string][]domain.Record
	transcripts map[string]domain.Transcript
}

func (f *fakeCorpus) Sessions(_ context.Context, _ string) ([]domain.SessionFile, error) {
	if f.files == nil {
		return nil, domain.ErrCorpusNotFound
	}
	return f.files, nil
}

func (f *fakeCorpus) Records(_ context.Context, path string) ([]domain.Record, error) {
	return f.records[path], nil
}

func (f *fakeCorpus) Transcript(_ context.Context, path string) (domain.Transcript, error) {
	return f.transcripts[path], nil
}

type memLabelStore struct {
	labels map[string]string
}

func newMemLabelStore() *memLabelStore {
	return &memLabelStore{labels: map[string]string{}}
}

func (s *memLabelStore) All(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.labels))
	for k, v := range s.labels {
		out[k] = v
	}
	return out, nil
}

func (s *memLabelStore) Get(_ context.Context, key string) (string, bool, error) {
	name, ok := s.labels[key]
	return name, ok, nil
}

func (s *memLabelStore) Put(_ context.Context, key, name string) error {
	s.labels[key] = name
	return nil
}

func (s *memLabelStore) Remove(_ context.Context, key string) (string, bool, error) {
	previous, ok := s.labels[key]
	if !ok {
		return "", false, nil
	}
	delete(s.labels, key)
	return previous, true, nil
}

type memCache struct {
	entries  []domain.MatchEntry
	replaces int
}

func (c *memCache) Replace(_ context.Context, entries []domain.MatchEntry) error {
	c.entries = entries
	c.replaces++
	return nil
}

func (c *memCache) Entries(_ context.Context) ([]domain.MatchEntry, error) {
	return c.entries, nil
}

func (c *memCache) Resolve(_ context.Context, index int) (domain.MatchEntry, error) {
	if len(c.entries) == 0 {
		return domain.MatchEntry{}, domain.ErrEmptyCache
	}
	if index < 1 || index > len(c.entries) {
		return domain.MatchEntry{}, &domain.IndexOutOfRangeError{Index: index, Min: 1, Max: len(c.entries)}
	}
	return c.entries[index-1], nil
}

func (c *memCache) SetLabel(_ context.Context, path, label string) error {
	for i := range c.entries {
		if c.entries[i].Path == path {
			c.entries[i].Label = label
		}
	}
	return nil
}

type memIndex struct {
	index domain.RefreshIndex
	saves int
}

func newMemIndex() *memIndex {
	return &memIndex{index: domain.RefreshIndex{}}
}

func (s *memIndex) Load(_ context.Context) (domain.RefreshIndex, error) {
	out := domain.RefreshIndex{}
	for k, v := range s.index {
		out[k] = v
	}
	return out, nil
}

func (s *memIndex) Save(_ context.Context, index domain.RefreshIndex) error {
	s.index = index
	s.saves++
	return nil
}

type fakeSummarizer struct {
	calls    int
	requests []ports.SummaryRequest
	payload  domain.SummaryPayload
	failFor  map[domain.SessionID]error
}

func (f *fakeSummarizer) Summarize(_ context.Context, req ports.SummaryRequest) (domain.SummaryPayload, error) {
	f.calls++
	f.requests = append(f.requests, req)
	if err := f.failFor[req.SessionID]; err != nil {
		return domain.SummaryPayload{}, err
	}
	return f.payload, nil
}

type memWriter struct {
	artifacts   []domain.SummaryArtifact
	histories   map[domain.SessionID]int
	transcripts map[domain.SessionID][]domain.Segment
}

func newMemWriter() *memWriter {
	return &memWriter{
		histories:   map[domain.SessionID]int{},
		transcripts: map[domain.SessionID][]domain.Segment{},
	}
}

func (w *memWriter) WriteArtifact(_ context.Context, artifact domain.SummaryArtifact) (string, string, error) {
	w.artifacts = append(w.artifacts, artifact)
	return fmt.Sprintf("/summaries/%s.json", artifact.SessionID), fmt.Sprintf("/summaries/%s.md", artifact.SessionID), nil
}

func (w *memWriter) AppendHistory(_ context.Context, artifact domain.SummaryArtifact) (string, error) {
	w.histories[artifact.SessionID]++
	return fmt.Sprintf("/summaries/%s.history.md", artifact.SessionID), nil
}

func (w *memWriter) WriteTranscript(_ context.Context, id domain.SessionID, segments []domain.Segment) (string, error) {
	w.transcripts[id] = segments
	return fmt.Sprintf("/summaries/%s.transcript.md", id), nil
}

// byteCounter counts one token per byte, making trim budgets easy to
// reason about in tests.
type byteCounter struct{}

func (byteCounter) Count(text string) int { return len(text) }
func (byteCounter) Precise() bool         { return true }

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

type fakeLauncher struct {
	resumed  []domain.SessionID
	messages []string
	err      error
}

func (l *fakeLauncher) Resume(_ context.Context, id domain.SessionID, firstMessage string) error {
	if l.err != nil {
		return l.err
	}
	l.resumed = append(l.resumed, id)
	l.messages = append(l.messages, firstMessage)
	return nil
}
