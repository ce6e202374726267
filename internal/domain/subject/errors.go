package subject

import "errors"

var (
	// ErrSubjectNotFound is returned when a subject does not exist
	ErrSubjectNotFound = errors.New("subject not found")
)
