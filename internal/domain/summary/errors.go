package summary

import "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"

var (
	// ErrSummaryNotFound indicates no summary exists for the request
	ErrSummaryNotFound = errors.NewNotFoundError("summary not found")

	// ErrNoObservations indicates there is nothing to summarize in the window
	ErrNoObservations = errors.NewValidationError("no observations in the requested period")
)
