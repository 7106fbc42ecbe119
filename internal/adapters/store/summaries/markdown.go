package summaries

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/codextendo/internal/domain"
)

func renderMarkdown(artifact domain.SummaryArtifact) string {
	lines := []string{
		fmt.Sprintf("# Summary for %s", artifact.SessionID),
		fmt.Sprintf("Generated: %s", artifact.GeneratedAt.Format(time.RFC3339)),
	}
	if artifact.Label != "" {
		lines = append(lines, fmt.Sprintf("Label: %s", artifact.Label))
	}
	lines = append(lines, "")

	if summary := strings.TrimSpace(artifact.Summary); summary != "" {
		lines = append(lines, "## TL;DR", summary, "")
	}

	if len(artifact.KeyActions) > 0 {
		lines = append(lines, "## Key Actions")
		for _, action := range artifact.KeyActions {
			lines = append(lines, fmt.Sprintf("- **%s** – %s", action.Status, strings.TrimSpace(action.Description)))
		}
		lines = append(lines, "")
	}

	if len(artifact.FilesTouched) > 0 {
		lines = append(lines, "## Files Touched")
		for _, path := range artifact.FilesTouched {
			lines = append(lines, fmt.Sprintf("- `%s`", path))
		}
		lines = append(lines, "")
	}

	if len(artifact.Concerns) > 0 {
		lines = append(lines, "## Concerns / Risks")
		for _, concern := range artifact.Concerns {
			lines = append(lines, fmt.Sprintf("- %s", concern))
		}
		lines = append(lines, "")
	}

	if len(artifact.FollowUp) > 0 {
		lines = append(lines, "## Follow-up / TODO")
		for _, item := range artifact.FollowUp {
			lines = append(lines, fmt.Sprintf("- %s", item))
		}
		lines = append(lines, "")
	}

	if artifact.Truncated {
		lines = append(lines, "_Note: Transcript truncated to the most recent portion for summarization._")
	}

	return strings.Join(lines, "\n")
}

// renderHistoryBlock formats one append-only timeline entry. Lists are
// capped at their top five items; the full data lives in the JSON
// artifact.
func renderHistoryBlock(artifact domain.SummaryArtifact) string {
	label := artifact.Label
	if label == "" {
		label = "—"
	}
	truncated := "no"
	if artifact.Truncated {
		truncated = "yes"
	}

	lines := []string{
		"",
		"---",
		fmt.Sprintf("### %s · %s", artifact.GeneratedAt.Format(time.RFC3339), artifact.Model),
		fmt.Sprintf("Label: %s", label),
		fmt.Sprintf("Tokens kept: %d", artifact.KeptTokens),
		fmt.Sprintf("Transcript truncated: %s", truncated),
		"",
	}

	if summary := strings.TrimSpace(artifact.Summary); summary != "" {
		lines = append(lines, "Summary:", summary, "")
	}

	if len(artifact.KeyActions) > 0 {
		lines = append(lines, "Key Actions (top):")
		for _, action := range capActions(artifact.KeyActions, 5) {
			lines = append(lines, fmt.Sprintf("- %s: %s", action.Status, strings.TrimSpace(action.Description)))
		}
		lines = append(lines, "")
	}

	if len(artifact.Concerns) > 0 {
		lines = append(lines, "Concerns:")
		for _, concern := range capStrings(artifact.Concerns, 5) {
			lines = append(lines, fmt.Sprintf("- %s", concern))
		}
		lines = append(lines, "")
	}

	if len(artifact.FollowUp) > 0 {
		lines = append(lines, "Follow-up:")
		for _, item := range capStrings(artifact.FollowUp, 5) {
			lines = append(lines, fmt.Sprintf("- %s", item))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func renderTranscript(id domain.SessionID, segments []domain.Segment) string {
	lines := []string{fmt.Sprintf("# Transcript %s", id), ""}

	for _, segment := range segments {
		header := segment.Header
		if !segment.Timestamp.IsZero() {
			header = fmt.Sprintf("%s · %s", header, segment.Timestamp.Format(time.RFC3339))
		}
		lines = append(lines, fmt.Sprintf("## %s", header), "", segment.Text, "")
	}

	return strings.Join(lines, "\n")
}

func capActions(actions []domain.KeyAction, max int) []domain.KeyAction {
	if len(actions) <= max {
		return actions
	}
	return actions[:max]
}

func capStrings(items []string, max int) []string {
	if len(items) <= max {
		return items
	}
	return items[:max]
}
