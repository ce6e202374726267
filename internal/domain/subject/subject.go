package subject

import (
	"fmt"
	"strings"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/id"
)

// Subject is a staff member being observed. current_center_id is mutable
// (staff transfer between centers); observations keep the center captured
// at logging time, so history never follows a transfer.
type Subject struct {
	id              uint
	sid             string // Stripe-style ID: sbj_xxx
	name            string
	role            authorization.SubjectRole
	currentCenterID uint
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSubject creates a new subject at the given center.
func NewSubject(name string, role authorization.SubjectRole, centerID uint) (*Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("subject name is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid subject role %q", role)
	}
	if centerID == 0 {
		return nil, fmt.Errorf("center is required")
	}

	sid, err := id.NewSubjectID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Subject{
		sid:             sid,
		name:            name,
		role:            role,
		currentCenterID: centerID,
		isActive:        true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructSubject recreates a subject from persisted state.
func ReconstructSubject(
	idVal uint,
	sid string,
	name string,
	role authorization.SubjectRole,
	currentCenterID uint,
	isActive bool,
	createdAt time.Time,
	updatedAt time.Time,
) *Subject {
	return &Subject{
		id:              idVal,
		sid:             sid,
		name:            name,
		role:            role,
		currentCenterID: currentCenterID,
		isActive:        isActive,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Rename changes the subject's name.
func (s *Subject) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("subject name is required")
	}
	s.name = name
	s.updatedAt = biztime.NowUTC()
	return nil
}

// ChangeRole moves the subject to another role in the closed set.
func (s *Subject) ChangeRole(role authorization.SubjectRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid subject role %q", role)
	}
	s.role = role
	s.updatedAt = biztime.NowUTC()
	return nil
}

// TransferTo moves the subject to another center. Existing observations
// are untouched; they keep the center id recorded when they were logged.
func (s *Subject) TransferTo(centerID uint) error {
	if centerID == 0 {
		return fmt.Errorf("center is required")
	}
	s.currentCenterID = centerID
	s.updatedAt = biztime.NowUTC()
	return nil
}

func (s *Subject) Activate() {
	s.isActive = true
	s.updatedAt = biztime.NowUTC()
}

func (s *Subject) Deactivate() {
	s.isActive = false
	s.updatedAt = biztime.NowUTC()
}

func (s *Subject) ID() uint                        { return s.id }
func (s *Subject) SID() string                     { return s.sid }
func (s *Subject) Name() string                    { return s.name }
func (s *Subject) Role() authorization.SubjectRole { return s.role }
func (s *Subject) CurrentCenterID() uint           { return s.currentCenterID }
func (s *Subject) IsActive() bool                  { return s.isActive }
func (s *Subject) CreatedAt() time.Time            { return s.createdAt }
func (s *Subject) UpdatedAt() time.Time            { return s.updatedAt }

// SetID sets the database-generated ID after insert.
func (s *Subject) SetID(idVal uint) { s.id = idVal }
