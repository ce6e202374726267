package observation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
)

func strPtr(s string) *string { return &s }

func TestNewObservation_Success(t *testing.T) {
	observedAt := biztime.NowUTC().Add(-2 * time.Hour)

	obs, err := NewObservation(1, 2, 3, "  helped a child calm down after drop-off  ", strPtr("positive"), observedAt)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obs.SID(), "obs_"))
	assert.Equal(t, uint(1), obs.SubjectID())
	assert.Equal(t, uint(2), obs.CenterID())
	assert.Equal(t, uint(3), obs.LoggedByUserID())
	assert.Equal(t, "helped a child calm down after drop-off", obs.Transcript())
	assert.Equal(t, "positive", *obs.ObservationType())
	assert.Equal(t, observedAt.UTC(), obs.ObservedAt())
	assert.False(t, obs.LoggedAt().IsZero())
}

func TestNewObservation_Validation(t *testing.T) {
	now := biztime.NowUTC()

	tests := []struct {
		name       string
		subjectID  uint
		centerID   uint
		loggedBy   uint
		transcript string
		observedAt time.Time
	}{
		{"empty transcript", 1, 2, 3, "   ", now},
		{"missing subject", 0, 2, 3, "text", now},
		{"missing center", 1, 0, 3, "text", now},
		{"missing logger", 1, 2, 0, "text", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewObservation(tt.subjectID, tt.centerID, tt.loggedBy, tt.transcript, nil, tt.observedAt)
			assert.Error(t, err)
		})
	}
}

func TestNewObservation_RejectsFutureObservedAt(t *testing.T) {
	future := biztime.NowUTC().Add(1 * time.Hour)

	_, err := NewObservation(1, 2, 3, "text", nil, future)
	assert.ErrorIs(t, err, ErrFutureObservedAt)
}

func TestNewObservation_AllowsBackdating(t *testing.T) {
	past := biztime.NowUTC().Add(-72 * time.Hour)

	obs, err := NewObservation(1, 2, 3, "text", nil, past)
	require.NoError(t, err)
	assert.Equal(t, past.UTC(), obs.ObservedAt())
}

func TestCanEdit_WindowAndOwnership(t *testing.T) {
	loggedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	obs := ReconstructObservation(1, "obs_x", 1, 2, 3, "text", nil, loggedAt, loggedAt, loggedAt, loggedAt)

	tests := []struct {
		name   string
		userID uint
		now    time.Time
		want   bool
	}{
		{"logger inside window", 3, loggedAt.Add(23 * time.Hour), true},
		{"logger just past window", 3, loggedAt.Add(25 * time.Hour), false},
		{"logger exactly at boundary", 3, loggedAt.Add(24 * time.Hour), false},
		{"other user inside window", 4, loggedAt.Add(1 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, obs.CanEdit(tt.userID, tt.now))
		})
	}
}

func TestApplyEdit(t *testing.T) {
	loggedAt := biztime.NowUTC().Add(-1 * time.Hour)
	obs := ReconstructObservation(1, "obs_x", 1, 2, 3, "original", strPtr("positive"), loggedAt, loggedAt, loggedAt, loggedAt)

	newObservedAt := biztime.NowUTC().Add(-30 * time.Minute)
	err := obs.ApplyEdit("revised text", nil, newObservedAt)
	require.NoError(t, err)

	assert.Equal(t, "revised text", obs.Transcript())
	assert.Nil(t, obs.ObservationType())
	assert.Equal(t, newObservedAt.UTC(), obs.ObservedAt())
	// logged_at never moves on edit
	assert.Equal(t, loggedAt, obs.LoggedAt())
}

func TestApplyEdit_Validation(t *testing.T) {
	loggedAt := biztime.NowUTC().Add(-1 * time.Hour)
	obs := ReconstructObservation(1, "obs_x", 1, 2, 3, "original", nil, loggedAt, loggedAt, loggedAt, loggedAt)

	err := obs.ApplyEdit("  ", nil, loggedAt)
	assert.Error(t, err)

	err = obs.ApplyEdit("text", nil, biztime.NowUTC().Add(time.Hour))
	assert.ErrorIs(t, err, ErrFutureObservedAt)

	// entity unchanged after failed edits
	assert.Equal(t, "original", obs.Transcript())
}
