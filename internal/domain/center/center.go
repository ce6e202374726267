package center

import (
	"fmt"
	"strings"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/id"
)

// Center represents a physical site that scopes staff and observations.
type Center struct {
	id        uint
	sid       string // Stripe-style ID: ctr_xxx
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewCenter creates a new center. Names are unique; the uniqueness itself
// is enforced by the store's index and surfaced as a conflict.
func NewCenter(name string) (*Center, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("center name is required")
	}

	sid, err := id.NewCenterID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Center{
		sid:       sid,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCenter recreates a center from persisted state.
func ReconstructCenter(idVal uint, sid, name string, createdAt, updatedAt time.Time) *Center {
	return &Center{
		id:        idVal,
		sid:       sid,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Rename changes the center's name.
func (c *Center) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("center name is required")
	}
	c.name = name
	c.updatedAt = biztime.NowUTC()
	return nil
}

func (c *Center) ID() uint             { return c.id }
func (c *Center) SID() string          { return c.sid }
func (c *Center) Name() string         { return c.name }
func (c *Center) CreatedAt() time.Time { return c.createdAt }
func (c *Center) UpdatedAt() time.Time { return c.updatedAt }

// SetID sets the database-generated ID after insert.
func (c *Center) SetID(idVal uint) { c.id = idVal }
