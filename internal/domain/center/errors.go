package center

import "errors"

var (
	// ErrCenterNotFound is returned when a center does not exist
	ErrCenterNotFound = errors.New("center not found")

	// ErrCenterNameTaken is returned when creating or renaming a center
	// to a name that already exists
	ErrCenterNameTaken = errors.New("center name already exists")
)
