package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ObservationModel{})
	require.NoError(t, err)

	return db
}

func seedObservation(t *testing.T, repo observation.Repository, sid string, subjectID, centerID, userID uint, tag *string, observedAt, loggedAt time.Time) *observation.Observation {
	obs := observation.ReconstructObservation(
		0, sid, subjectID, centerID, userID,
		"transcript for "+sid, tag,
		observedAt, loggedAt, loggedAt, loggedAt,
	)
	require.NoError(t, repo.Create(context.Background(), obs))
	return obs
}

func tagPtr(s string) *string { return &s }

func TestObservationRepository_CreateAndGet(t *testing.T) {
	biztime.MustInit("")

	repo := NewObservationRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	t.Run("create assigns an id", func(t *testing.T) {
		obs, err := observation.NewObservation(1, 2, 3, "slept through nap time", nil, biztime.NowUTC())
		require.NoError(t, err)

		err = repo.Create(ctx, obs)
		assert.NoError(t, err)
		assert.NotZero(t, obs.ID())
	})

	t.Run("round trips through the mapper", func(t *testing.T) {
		observedAt := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
		seeded := seedObservation(t, repo, "obs_roundtrip", 1, 2, 3, tagPtr("positive"), observedAt, observedAt)

		found, err := repo.GetBySID(ctx, "obs_roundtrip")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID(), found.ID())
		assert.Equal(t, seeded.Transcript(), found.Transcript())
		require.NotNil(t, found.ObservationType())
		assert.Equal(t, "positive", *found.ObservationType())
		assert.True(t, found.ObservedAt().Equal(observedAt))
	})

	t.Run("duplicate sid fails", func(t *testing.T) {
		now := biztime.NowUTC()
		seedObservation(t, repo, "obs_dup", 1, 2, 3, nil, now, now)

		dup := observation.ReconstructObservation(0, "obs_dup", 1, 2, 3, "second", nil, now, now, now, now)
		err := repo.Create(ctx, dup)
		assert.Error(t, err)
	})

	t.Run("unknown sid is not found", func(t *testing.T) {
		_, err := repo.GetBySID(ctx, "obs_missing")
		assert.ErrorIs(t, err, observation.ErrObservationNotFound)
	})
}

func TestObservationRepository_Update(t *testing.T) {
	biztime.MustInit("")

	repo := NewObservationRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	t.Run("persists edited fields", func(t *testing.T) {
		now := biztime.NowUTC()
		obs := seedObservation(t, repo, "obs_edit", 1, 2, 3, nil, now.Add(-2*time.Hour), now)

		err := obs.ApplyEdit("corrected transcript", tagPtr("concern"), now.Add(-time.Hour))
		require.NoError(t, err)

		err = repo.Update(ctx, obs)
		require.NoError(t, err)

		found, err := repo.GetBySID(ctx, "obs_edit")
		require.NoError(t, err)
		assert.Equal(t, "corrected transcript", found.Transcript())
		require.NotNil(t, found.ObservationType())
		assert.Equal(t, "concern", *found.ObservationType())
		assert.True(t, found.LoggedAt().Equal(obs.LoggedAt()))
	})

	t.Run("unsaved observation is not found", func(t *testing.T) {
		now := biztime.NowUTC()
		obs := observation.ReconstructObservation(999, "obs_ghost", 1, 2, 3, "text", nil, now, now, now, now)

		err := repo.Update(ctx, obs)
		assert.ErrorIs(t, err, observation.ErrObservationNotFound)
	})
}

func TestObservationRepository_List(t *testing.T) {
	biztime.MustInit("")

	repo := NewObservationRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	seedObservation(t, repo, "obs_a1", 1, 1, 3, tagPtr("positive"), base, base)
	seedObservation(t, repo, "obs_a2", 1, 1, 3, nil, base.Add(48*time.Hour), base.Add(48*time.Hour))
	seedObservation(t, repo, "obs_b1", 2, 2, 4, tagPtr("concern"), base.Add(24*time.Hour), base.Add(24*time.Hour))

	t.Run("full scope sees every center", func(t *testing.T) {
		list, err := repo.List(ctx, observation.ListFilter{Scope: access.Scope{All: true}})
		require.NoError(t, err)
		require.Len(t, list, 3)

		// newest observed first
		assert.Equal(t, "obs_a2", list[0].SID())
		assert.Equal(t, "obs_b1", list[1].SID())
	})

	t.Run("center scope filters rows", func(t *testing.T) {
		list, err := repo.List(ctx, observation.ListFilter{Scope: access.Scope{CenterIDs: []uint{2}}})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "obs_b1", list[0].SID())
	})

	t.Run("type and window filters combine", func(t *testing.T) {
		from := base.Add(-time.Hour)
		to := base.Add(time.Hour)
		list, err := repo.List(ctx, observation.ListFilter{
			Scope:           access.Scope{All: true},
			ObservationType: tagPtr("positive"),
			From:            &from,
			To:              &to,
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "obs_a1", list[0].SID())
	})

	t.Run("limit caps the result", func(t *testing.T) {
		list, err := repo.List(ctx, observation.ListFilter{Scope: access.Scope{All: true}, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("subject history is oldest first", func(t *testing.T) {
		list, err := repo.ListForSubject(ctx, 1, nil)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "obs_a1", list[0].SID())

		from := base.Add(time.Hour)
		list, err = repo.ListForSubject(ctx, 1, &from)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "obs_a2", list[0].SID())
	})
}

func TestObservationRepository_Counts(t *testing.T) {
	biztime.MustInit("")

	repo := NewObservationRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	seedObservation(t, repo, "obs_c1", 1, 1, 3, nil, base, base)
	seedObservation(t, repo, "obs_c2", 1, 1, 3, nil, base, base.Add(time.Hour))
	seedObservation(t, repo, "obs_c3", 2, 1, 4, nil, base, base.Add(2*time.Hour))

	t.Run("count honors the logged_at bound", func(t *testing.T) {
		count, err := repo.Count(ctx, access.Scope{All: true}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		since := base.Add(30 * time.Minute)
		count, err = repo.Count(ctx, access.Scope{All: true}, &since)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("count by subject is most observed first", func(t *testing.T) {
		counts, err := repo.CountBySubject(ctx, access.Scope{All: true}, base.Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, uint(1), counts[0].SubjectID)
		assert.Equal(t, int64(2), counts[0].Count)
	})

	t.Run("last logged at per user", func(t *testing.T) {
		last, err := repo.LastLoggedAtByUser(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.True(t, last.Equal(base.Add(time.Hour)))

		never, err := repo.LastLoggedAtByUser(ctx, 99)
		require.NoError(t, err)
		assert.Nil(t, never)
	})
}
