package center

import "context"

// Repository defines the interface for center persistence
type Repository interface {
	// Create persists a new center. Returns ErrCenterNameTaken on a
	// duplicate name.
	Create(ctx context.Context, c *Center) error

	// GetByID retrieves a center by internal id
	GetByID(ctx context.Context, id uint) (*Center, error)

	// GetBySID retrieves a center by short id
	GetBySID(ctx context.Context, sid string) (*Center, error)

	// GetByIDs retrieves the centers for a set of internal ids
	GetByIDs(ctx context.Context, ids []uint) ([]*Center, error)

	// List retrieves all centers ordered by name
	List(ctx context.Context) ([]*Center, error)

	// Update persists changes to an existing center. Returns
	// ErrCenterNameTaken on a duplicate name.
	Update(ctx context.Context, c *Center) error
}
