package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/id"
)

// User is an operator account. Managers see only their assigned centers;
// admins bypass center assignments entirely. A user optionally links to a
// subject row representing the same person's staff record, which triggers
// the self-visibility restriction.
type User struct {
	id              uint
	sid             string // Stripe-style ID: usr_xxx
	email           string // stored lowercased
	name            *string
	role            authorization.UserRole
	isActive        bool
	linkedSubjectID *uint
	centerIDs       []uint // assigned centers (managers only)
	createdAt       time.Time
	updatedAt       time.Time
}

// NewUser creates a new user account. Email is normalized to lowercase.
func NewUser(email string, name *string, role authorization.UserRole) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	sid, err := id.NewUserID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &User{
		sid:       sid,
		email:     email,
		name:      name,
		role:      role,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser recreates a user from persisted state.
func ReconstructUser(
	idVal uint,
	sid string,
	email string,
	name *string,
	role authorization.UserRole,
	isActive bool,
	linkedSubjectID *uint,
	centerIDs []uint,
	createdAt time.Time,
	updatedAt time.Time,
) *User {
	return &User{
		id:              idVal,
		sid:             sid,
		email:           email,
		name:            name,
		role:            role,
		isActive:        isActive,
		linkedSubjectID: linkedSubjectID,
		centerIDs:       centerIDs,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (u *User) Activate() {
	u.isActive = true
	u.updatedAt = biztime.NowUTC()
}

func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = biztime.NowUTC()
}

// Rename updates the display name.
func (u *User) Rename(name *string) {
	u.name = name
	u.updatedAt = biztime.NowUTC()
}

// ChangeRole moves the account between the two roles.
func (u *User) ChangeRole(role authorization.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}
	u.role = role
	u.updatedAt = biztime.NowUTC()
	return nil
}

// LinkSubject links this account to the subject row tracking the same
// person. Passing nil clears the link.
func (u *User) LinkSubject(subjectID *uint) {
	u.linkedSubjectID = subjectID
	u.updatedAt = biztime.NowUTC()
}

// AssignCenters replaces the manager's center assignments.
func (u *User) AssignCenters(centerIDs []uint) {
	ids := make([]uint, len(centerIDs))
	copy(ids, centerIDs)
	u.centerIDs = ids
	u.updatedAt = biztime.NowUTC()
}

func (u *User) ID() uint                      { return u.id }
func (u *User) SID() string                   { return u.sid }
func (u *User) Email() string                 { return u.email }
func (u *User) Name() *string                 { return u.name }
func (u *User) Role() authorization.UserRole  { return u.role }
func (u *User) IsActive() bool                { return u.isActive }
func (u *User) LinkedSubjectID() *uint        { return u.linkedSubjectID }
func (u *User) CenterIDs() []uint             { return u.centerIDs }
func (u *User) CreatedAt() time.Time          { return u.createdAt }
func (u *User) UpdatedAt() time.Time          { return u.updatedAt }

// DisplayName returns the name if set, falling back to the email.
func (u *User) DisplayName() string {
	if u.name != nil && *u.name != "" {
		return *u.name
	}
	return u.email
}

// SetID sets the database-generated ID after insert.
func (u *User) SetID(idVal uint) { u.id = idVal }
