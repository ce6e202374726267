package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

type fakeObservationRepo struct {
	observation.Repository

	observations []*observation.Observation
	lastLoggedAt *time.Time
}

func (f *fakeObservationRepo) ListForSubject(ctx context.Context, subjectID uint, from *time.Time) ([]*observation.Observation, error) {
	var out []*observation.Observation
	for _, obs := range f.observations {
		if from != nil && obs.ObservedAt().Before(*from) {
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}

func (f *fakeObservationRepo) LastLoggedAtByUser(ctx context.Context, userID uint) (*time.Time, error) {
	return f.lastLoggedAt, nil
}

type fakeSubjectRepo struct {
	subject.Repository

	subjects map[string]*subject.Subject
}

func (f *fakeSubjectRepo) GetBySID(ctx context.Context, sid string) (*subject.Subject, error) {
	sub, ok := f.subjects[sid]
	if !ok {
		return nil, subject.ErrSubjectNotFound
	}
	return sub, nil
}

func strPtr(s string) *string { return &s }

func trendObservation(id uint, observedAt time.Time, tag *string) *observation.Observation {
	return observation.ReconstructObservation(
		id, "obs_x", 1, 2, 3, "text", tag,
		observedAt, observedAt, observedAt, observedAt,
	)
}

func newTrendsService(obsRepo *fakeObservationRepo) *Service {
	now := biztime.NowUTC()
	subjectRepo := &fakeSubjectRepo{subjects: map[string]*subject.Subject{
		"sbj_abc": subject.ReconstructSubject(1, "sbj_abc", "Lakshmi", authorization.SubjectRoleNanny, 2, true, now, now),
	}}
	return NewService(obsRepo, subjectRepo, nil, nil, nil, logger.NewLogger())
}

func TestWeekStart_IsMondayInBusinessTimezone(t *testing.T) {
	biztime.MustInit("")

	// Wednesday 2026-03-11 10:00 UTC
	wednesday := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	start := weekStart(wednesday)

	biz := biztime.ToBizTimezone(start)
	assert.Equal(t, time.Monday, biz.Weekday())
	assert.Equal(t, 0, biz.Hour())
	assert.Equal(t, 0, biz.Minute())

	// already Monday stays in the same week
	assert.Equal(t, start, weekStart(start.Add(time.Hour)))
}

func TestSubjectTrends_BucketsByWeek(t *testing.T) {
	biztime.MustInit("")

	now := biztime.NowUTC()
	thisWeek := weekStart(now).Add(26 * time.Hour)
	lastWeek := thisWeek.AddDate(0, 0, -7)

	obsRepo := &fakeObservationRepo{observations: []*observation.Observation{
		trendObservation(1, lastWeek, strPtr("positive")),
		trendObservation(2, lastWeek.Add(3*time.Hour), nil),
		trendObservation(3, thisWeek, strPtr("positive")),
	}}

	svc := newTrendsService(obsRepo)
	admin := access.Actor{UserID: 9, Role: authorization.RoleAdmin}

	trends, err := svc.SubjectTrends(context.Background(), admin, "sbj_abc")
	require.NoError(t, err)

	require.Len(t, trends.Buckets, TrendWeeks)
	assert.Equal(t, "sbj_abc", trends.SubjectID)

	last := trends.Buckets[TrendWeeks-1]
	secondLast := trends.Buckets[TrendWeeks-2]

	assert.Equal(t, 1, last.Total)
	assert.Equal(t, 1, last.ByType["positive"])

	assert.Equal(t, 2, secondLast.Total)
	assert.Equal(t, 1, secondLast.ByType["positive"])
	assert.Equal(t, 1, secondLast.ByType["untagged"])

	// empty weeks are still present with zero counts
	assert.Equal(t, 0, trends.Buckets[0].Total)
}

func TestSubjectTrends_HiddenSubjectIsNotFound(t *testing.T) {
	svc := newTrendsService(&fakeObservationRepo{})

	linked := uint(1)
	manager := access.Actor{
		UserID:          5,
		Role:            authorization.RoleManager,
		CenterIDs:       []uint{2},
		LinkedSubjectID: &linked,
	}

	_, err := svc.SubjectTrends(context.Background(), manager, "sbj_abc")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestInactivityStatus(t *testing.T) {
	manager := access.Actor{UserID: 5, Role: authorization.RoleManager, CenterIDs: []uint{2}}

	t.Run("never logged shows reminder", func(t *testing.T) {
		svc := newTrendsService(&fakeObservationRepo{})

		status, err := svc.InactivityStatus(context.Background(), manager)
		require.NoError(t, err)

		assert.Nil(t, status.LastLoggedAt)
		assert.True(t, status.ShowReminder)
	})

	t.Run("recent logging hides reminder", func(t *testing.T) {
		recent := biztime.NowUTC().Add(-24 * time.Hour)
		svc := newTrendsService(&fakeObservationRepo{lastLoggedAt: &recent})

		status, err := svc.InactivityStatus(context.Background(), manager)
		require.NoError(t, err)

		require.NotNil(t, status.DaysSince)
		assert.Equal(t, 1, *status.DaysSince)
		assert.False(t, status.ShowReminder)
	})

	t.Run("stale logging shows reminder", func(t *testing.T) {
		stale := biztime.NowUTC().Add(-96 * time.Hour)
		svc := newTrendsService(&fakeObservationRepo{lastLoggedAt: &stale})

		status, err := svc.InactivityStatus(context.Background(), manager)
		require.NoError(t, err)

		assert.True(t, status.ShowReminder)
	})
}
