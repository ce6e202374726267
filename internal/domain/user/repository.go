package user

import "context"

// Repository defines the interface for user persistence. Center
// assignments travel with the user: reads hydrate them, writes replace
// them atomically.
type Repository interface {
	// Create persists a new user and their center assignments. Returns
	// ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by internal id, with center assignments
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetBySID retrieves a user by short id, with center assignments
	GetBySID(ctx context.Context, sid string) (*User, error)

	// GetByEmail retrieves a user by lowercased email, with center
	// assignments
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List retrieves all users ordered by email, with center assignments
	List(ctx context.Context) ([]*User, error)

	// Update persists user changes and replaces center assignments.
	// Returns ErrEmailTaken on a duplicate email.
	Update(ctx context.Context, u *User) error
}
