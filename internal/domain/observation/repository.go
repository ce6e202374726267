package observation

import (
	"context"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
)

// ListFilter narrows observation listings. Scope is mandatory.
type ListFilter struct {
	Scope           access.Scope
	SubjectID       *uint
	ObservationType *string
	From            *time.Time // observed_at lower bound (inclusive)
	To              *time.Time // observed_at upper bound (inclusive)
	Limit           int
}

// SubjectCount pairs a subject id with an observation count.
type SubjectCount struct {
	SubjectID uint
	Count     int64
}

// Repository defines the interface for observation persistence
type Repository interface {
	// Create persists a new observation
	Create(ctx context.Context, o *Observation) error

	// GetBySID retrieves an observation by short id
	GetBySID(ctx context.Context, sid string) (*Observation, error)

	// Update persists edits to an existing observation
	Update(ctx context.Context, o *Observation) error

	// List retrieves observations matching the filter, newest observed first
	List(ctx context.Context, filter ListFilter) ([]*Observation, error)

	// ListForSubject retrieves all observations for a subject with
	// observed_at >= from (or all when from is nil), ordered by
	// observed_at ascending. Summary generation depends on this ordering.
	ListForSubject(ctx context.Context, subjectID uint, from *time.Time) ([]*Observation, error)

	// Recent retrieves the most recently logged observations within scope
	Recent(ctx context.Context, scope access.Scope, limit int) ([]*Observation, error)

	// Count counts observations within scope, optionally restricted to
	// logged_at >= loggedSince
	Count(ctx context.Context, scope access.Scope, loggedSince *time.Time) (int64, error)

	// CountBySubject returns per-subject observation counts within scope
	// for logged_at >= loggedSince
	CountBySubject(ctx context.Context, scope access.Scope, loggedSince time.Time) ([]SubjectCount, error)

	// LastLoggedAtByUser returns when the user last logged an observation,
	// or nil if they never have
	LastLoggedAtByUser(ctx context.Context, userID uint) (*time.Time, error)
}

// TypeConfigRepository defines the interface for the tag taxonomy
type TypeConfigRepository interface {
	// Create persists a new type config. Returns ErrTypeValueTaken on a
	// duplicate value.
	Create(ctx context.Context, t *TypeConfig) error

	// GetBySID retrieves a type config by short id
	GetBySID(ctx context.Context, sid string) (*TypeConfig, error)

	// List retrieves type configs ordered by sort_order then value.
	// activeOnly restricts to active tags (new-entry forms).
	List(ctx context.Context, activeOnly bool) ([]*TypeConfig, error)

	// Update persists changes to an existing type config
	Update(ctx context.Context, t *TypeConfig) error
}
