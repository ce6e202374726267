package user

import "errors"

var (
	// ErrUserNotFound is returned when a user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when creating a user with an email that
	// already exists
	ErrEmailTaken = errors.New("user email already exists")
)
