package observation

import "errors"

var (
	// ErrObservationNotFound is returned when an observation does not exist
	ErrObservationNotFound = errors.New("observation not found")

	// ErrFutureObservedAt is returned when observed_at is later than now
	ErrFutureObservedAt = errors.New("observed_at cannot be in the future")

	// ErrEditNotAllowed is returned when someone other than the original
	// logger attempts an edit, or the 24-hour edit window has passed.
	// Callers surface this as an authorization failure, not a generic one.
	ErrEditNotAllowed = errors.New("observation can only be edited by its logger within 24 hours")

	// ErrTypeValueTaken is returned when creating an observation type
	// config with a value that already exists
	ErrTypeValueTaken = errors.New("observation type value already exists")

	// ErrTypeConfigNotFound is returned when a type config row does not exist
	ErrTypeConfigNotFound = errors.New("observation type not found")
)
