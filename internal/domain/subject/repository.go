package subject

import (
	"context"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
)

// ListFilter narrows subject listings. Scope is mandatory: every read
// passes through the resolved center scope.
type ListFilter struct {
	Scope      access.Scope
	Role       *authorization.SubjectRole
	ActiveOnly bool
	Query      string // substring match on name
}

// Repository defines the interface for subject persistence
type Repository interface {
	// Create persists a new subject
	Create(ctx context.Context, s *Subject) error

	// GetByID retrieves a subject by internal id
	GetByID(ctx context.Context, id uint) (*Subject, error)

	// GetBySID retrieves a subject by short id
	GetBySID(ctx context.Context, sid string) (*Subject, error)

	// List retrieves subjects matching the filter, ordered by name
	List(ctx context.Context, filter ListFilter) ([]*Subject, error)

	// CountActive counts active subjects within the scope
	CountActive(ctx context.Context, scope access.Scope) (int64, error)

	// Update persists changes to an existing subject
	Update(ctx context.Context, s *Subject) error
}
