package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionIDFromRolloutFilename(t *testing.T) {
	t.Parallel()

	id, err := ParseSessionID("/home/u/.codex/sessions/2026/08/rollout-2026-08-12T09-15-00-0199a213-81ef-74a2-b85d-4b2ff9a82f31.jsonl")
	require.NoError(t, err)
	assert.Equal(t, SessionID("0199a213-81ef-74a2-b85d-4b2ff9a82f31"), id)
}

func TestParseSessionIDFromBareUUID(t *testing.T) {
	t.Parallel()

	id, err := ParseSessionID("0199a213-81ef-74a2-b85d-4b2ff9a82f31.jsonl")
	require.NoError(t, err)
	assert.Equal(t, SessionID("0199a213-81ef-74a2-b85d-4b2ff9a82f31"), id)
}

func TestParseSessionIDRejectsShortNames(t *testing.T) {
	t.Parallel()

	_, err := ParseSessionID("notes-2026-08.jsonl")
	require.Error(t, err)

	var malformed *MalformedSessionIDError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "notes-2026-08.jsonl", malformed.Name)
}

func TestParseSessionIDRejectsEmptySegments(t *testing.T) {
	t.Parallel()

	_, err := ParseSessionID("rollout--81ef-74a2-b85d-4b2ff9a82f31.jsonl")
	require.Error(t, err)

	var malformed *MalformedSessionIDError
	assert.True(t, errors.As(err, &malformed))
}
