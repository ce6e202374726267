package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSummary(t *testing.T, lastObservationID uint, startDate time.Time) *ObservationSummary {
	t.Helper()

	s, err := NewObservationSummary(
		1,
		"## Overall impression\n\nSteady work.",
		startDate,
		startDate.AddDate(0, 1, 0),
		4,
		lastObservationID,
		9,
		GenerationMeta{Model: "claude-sonnet-4-20250514", PromptTokens: 1200, OutputTokens: 300, DurationMS: 2100},
	)
	require.NoError(t, err)
	return s
}

func TestNewObservationSummary(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	s := newTestSummary(t, 42, start)

	assert.True(t, strings.HasPrefix(s.SID(), "sum_"))
	assert.Equal(t, uint(1), s.SubjectID())
	assert.Equal(t, uint(42), s.LastObservationID())
	assert.Equal(t, 4, s.ObservationCount())
	assert.Equal(t, "claude-sonnet-4-20250514", s.Meta().Model)
}

func TestNewObservationSummary_Validation(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewObservationSummary(0, "text", start, start, 1, 1, 1, GenerationMeta{})
	assert.Error(t, err)

	_, err = NewObservationSummary(1, "  ", start, start, 1, 1, 1, GenerationMeta{})
	assert.Error(t, err)
}

func TestIsValidFor(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s := newTestSummary(t, 42, start)

	// same newest observation, same or later requested start
	assert.True(t, s.IsValidFor(42, start))
	assert.True(t, s.IsValidFor(42, start.AddDate(0, 0, 5)))

	// a newer observation invalidates the cache
	assert.False(t, s.IsValidFor(43, start))

	// a requested window starting before the stored one is not covered
	assert.False(t, s.IsValidFor(42, start.AddDate(0, 0, -1)))
}
