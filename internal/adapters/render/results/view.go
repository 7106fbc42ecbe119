package results

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/codextendo/internal/domain"
)

// Render formats the ordered match list for the terminal. Entries keep
// their 1-based position so later commands can address them by index.
func Render(pattern string, entries []domain.MatchEntry) string {
	s := newStyles()

	lines := []string{
		s.title.Render(fmt.Sprintf("Search results for %q", pattern)),
		s.header.Render(fmt.Sprintf("matches: %d", len(entries))),
	}

	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("No matching sessions."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, entry := range entries {
		lines = append(lines, "", renderEntry(i+1, entry, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderEntry(index int, entry domain.MatchEntry, s styles) string {
	head := s.index.Render(fmt.Sprintf("[%d]", index))
	if entry.Label != "" {
		head += " " + s.label.Render(entry.Label)
	}
	head += " " + s.meta.Render(fmt.Sprintf("%s · %s · %s", entry.Timestamp, entry.Role, filepath.Base(entry.Path)))

	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		s.snippet.Render("    "+entry.Snippet),
	)
}
