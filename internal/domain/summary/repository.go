package summary

import (
	"context"
	"time"
)

// Repository defines the interface for summary persistence
type Repository interface {
	// Create persists a new summary
	Create(ctx context.Context, s *ObservationSummary) error

	// LatestMatching retrieves the newest summary for the subject whose
	// last_observation_id equals lastObservationID and whose start_date is
	// at or before maxStartDate. Returns ErrSummaryNotFound when no cached
	// summary qualifies.
	LatestMatching(ctx context.Context, subjectID uint, lastObservationID uint, maxStartDate time.Time) (*ObservationSummary, error)

	// LatestForSubject retrieves the subject's newest summary regardless of
	// validity. Returns ErrSummaryNotFound when the subject has none.
	LatestForSubject(ctx context.Context, subjectID uint) (*ObservationSummary, error)
}
