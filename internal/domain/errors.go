package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCorpusNotFound  = errors.New("no sessions found")
	ErrEmptyPattern    = errors.New("search pattern is empty")
	ErrNoMatches       = errors.New("no matches found")
	ErrBlankTitle      = errors.New("label must not be blank")
	ErrEmptyCache      = errors.New("no cached search results; run a search first")
	ErrEmptyTranscript = errors.New("no message content found in session")
)

// IndexOutOfRangeError reports a 1-based result index outside the cached
// result list.
type IndexOutOfRangeError struct {
	Index int
	Min   int
	Max   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range (valid: %d-%d)", e.Index, e.Min, e.Max)
}

// MalformedSessionIDError reports a transcript filename that does not
// carry a derivable session id.
type MalformedSessionIDError struct {
	Name string
}

func (e *MalformedSessionIDError) Error() string {
	return fmt.Sprintf("cannot derive session id from %q: need %d trailing dash-separated segments", e.Name, sessionIDSegments)
}
