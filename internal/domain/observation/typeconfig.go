package observation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/id"
)

var typeValuePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// TypeConfig is an admin-configurable tag in the observation taxonomy.
// Deactivating a tag hides it from new-entry forms without touching the
// history that already uses it.
type TypeConfig struct {
	id        uint
	sid       string // Stripe-style ID: otc_xxx
	value     string // machine value, e.g. "parent_feedback"
	label     string // display label, e.g. "Parent Feedback"
	isActive  bool
	sortOrder int
	createdAt time.Time
	updatedAt time.Time
}

// NewTypeConfig creates a new observation type tag.
func NewTypeConfig(value, label string, sortOrder int) (*TypeConfig, error) {
	value = strings.TrimSpace(value)
	label = strings.TrimSpace(label)
	if value == "" || label == "" {
		return nil, fmt.Errorf("value and label are required")
	}
	if !typeValuePattern.MatchString(value) {
		return nil, fmt.Errorf("value must be lowercase letters, digits and underscores")
	}

	sid, err := id.NewTypeConfigID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &TypeConfig{
		sid:       sid,
		value:     value,
		label:     label,
		isActive:  true,
		sortOrder: sortOrder,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructTypeConfig recreates a type config from persisted state.
func ReconstructTypeConfig(idVal uint, sid, value, label string, isActive bool, sortOrder int, createdAt, updatedAt time.Time) *TypeConfig {
	return &TypeConfig{
		id:        idVal,
		sid:       sid,
		value:     value,
		label:     label,
		isActive:  isActive,
		sortOrder: sortOrder,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Relabel updates the display label and sort order.
func (t *TypeConfig) Relabel(label string, sortOrder int) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("label is required")
	}
	t.label = label
	t.sortOrder = sortOrder
	t.updatedAt = biztime.NowUTC()
	return nil
}

func (t *TypeConfig) Activate() {
	t.isActive = true
	t.updatedAt = biztime.NowUTC()
}

func (t *TypeConfig) Deactivate() {
	t.isActive = false
	t.updatedAt = biztime.NowUTC()
}

func (t *TypeConfig) ID() uint             { return t.id }
func (t *TypeConfig) SID() string          { return t.sid }
func (t *TypeConfig) Value() string        { return t.value }
func (t *TypeConfig) Label() string        { return t.label }
func (t *TypeConfig) IsActive() bool       { return t.isActive }
func (t *TypeConfig) SortOrder() int       { return t.sortOrder }
func (t *TypeConfig) CreatedAt() time.Time { return t.createdAt }
func (t *TypeConfig) UpdatedAt() time.Time { return t.updatedAt }

// SetID sets the database-generated ID after insert.
func (t *TypeConfig) SetID(idVal uint) { t.id = idVal }
