package corpus

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

// Transcript lines can carry whole function outputs; the default bufio
// limit of 64K is not enough.
const maxLineBytes = 4 * 1024 * 1024

type Reader struct{}

var _ ports.CorpusReader = (*Reader)(nil)

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Sessions(ctx context.Context, root string) ([]domain.SessionFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrCorpusNotFound
		}
		return nil, fmt.Errorf("stat sessions root: %w", err)
	}

	var files []domain.SessionFile
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: best effort, keep walking.
			return nil
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}

		files = append(files, domain.SessionFile{Path: path, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk sessions root: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// transcriptLine is the envelope of one raw JSONL record.
type transcriptLine struct {
	Timestamp string          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func (r *Reader) Records(ctx context.Context, path string) ([]domain.Record, error) {
	var records []domain.Record

	err := r.scanLines(ctx, path, func(line transcriptLine) {
		p, ok := decodePayload(line.Payload)
		if !ok {
			return
		}

		role, text, ok := p.asMessage()
		if !ok {
			return
		}

		records = append(records, domain.Record{
			Role:      role,
			Text:      text,
			Timestamp: parseTimestamp(p.Timestamp, line.Timestamp),
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Reader) Transcript(ctx context.Context, path string) (domain.Transcript, error) {
	var (
		segments []domain.Segment
		latest   time.Time
	)
	digest := sha256.New()

	err := r.scanLines(ctx, path, func(line transcriptLine) {
		p, ok := decodePayload(line.Payload)
		if !ok {
			return
		}

		ts := parseTimestamp(p.Timestamp, line.Timestamp)
		if !ts.IsZero() && ts.After(latest) {
			latest = ts
		}

		header, text, ok := renderPayload(p)
		if !ok {
			return
		}

		digest.Write([]byte(header))
		digest.Write([]byte{0})
		digest.Write([]byte(text))
		segments = append(segments, domain.Segment{Header: header, Text: text, Timestamp: ts})
	})
	if err != nil {
		return domain.Transcript{}, err
	}

	return domain.Transcript{
		Segments:        segments,
		LatestTimestamp: latest,
		Digest:          hex.EncodeToString(digest.Sum(nil)),
	}, nil
}

func (r *Reader) scanLines(ctx context.Context, path string, visit func(transcriptLine)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrCorpusNotFound, path)
		}
		return fmt.Errorf("open session file: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		var line transcriptLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			// Malformed input is data to skip, not an error.
			continue
		}
		visit(line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read session file: %w", err)
	}

	return nil
}

func parseTimestamp(candidates ...string) time.Time {
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return ts.UTC()
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts.UTC()
		}
	}

	return time.Time{}
}
