package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchEntry is one search result. The JSON shape is the persisted cache
// format: a search overwrites the whole cache with the new entry list and
// index-based commands resolve through it.
type MatchEntry struct {
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
	Path      string `json:"path"`
	Snippet   string `json:"snippet"`
	Label     string `json:"label,omitempty"`
}

const snippetRadius = 180

// NormalizeText lower-cases the input and reduces it to alphanumeric
// tokens joined by single spaces, so that "Hello, World!" and
// "hello   world" compare equal.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inToken := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inToken && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			inToken = true
		} else {
			inToken = false
		}
	}

	return b.String()
}

// MatchesPattern reports whether the normalized pattern occurs as a
// contiguous substring of the normalized text. Both arguments are raw;
// normalization happens here.
func MatchesPattern(text, pattern string) bool {
	normPattern := NormalizeText(pattern)
	if normPattern == "" {
		return false
	}

	return strings.Contains(NormalizeText(text), normPattern)
}

// BuildSnippet extracts a bounded, whitespace-collapsed excerpt around
// the first occurrence of the pattern in the raw text. When the raw
// pattern does not occur verbatim it falls back to the first occurrence
// of any individual pattern word, then to the start of the record.
func BuildSnippet(text, pattern string) string {
	anchor := foldIndex(text, pattern)
	if anchor < 0 {
		for _, word := range strings.Fields(pattern) {
			if idx := foldIndex(text, word); idx >= 0 {
				anchor = idx
				break
			}
		}
	}
	if anchor < 0 {
		anchor = 0
	}

	start := anchor - snippetRadius
	if start < 0 {
		start = 0
	}
	end := anchor + len(pattern) + snippetRadius
	if end > len(text) {
		end = len(text)
	}

	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}
	if end < len(text) {
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
	}

	return CollapseWhitespace(text[start:end])
}

// foldIndex returns the byte offset in s of the first case-insensitive
// occurrence of substr. Folding rune by rune keeps offsets valid for s
// itself: lowering a whole string can change its byte length (U+0130
// does), which would misplace the anchor.
func foldIndex(s, substr string) int {
	if substr == "" {
		return -1
	}

	for i := range s {
		if hasFoldPrefix(s[i:], substr) {
			return i
		}
	}

	return -1
}

func hasFoldPrefix(s, prefix string) bool {
	for _, pr := range prefix {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 {
			return false
		}
		if unicode.ToLower(r) != unicode.ToLower(pr) {
			return false
		}
		s = s[size:]
	}

	return true
}

// CollapseWhitespace trims the string and folds internal whitespace runs
// (including newlines) into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
