package observation

import (
	"fmt"
	"strings"
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/id"
)

// EditWindow is how long after logging the original logger may still edit
// an observation.
const EditWindow = 24 * time.Hour

// Observation is one free-text entry about a subject. center_id is fixed
// at creation to the subject's center at that moment and never follows
// later transfers. logged_at is set once and immutable; observed_at is
// user-supplied and may be backdated but never future-dated.
type Observation struct {
	id              uint
	sid             string // Stripe-style ID: obs_xxx
	subjectID       uint
	centerID        uint
	loggedByUserID  uint
	transcript      string
	observationType *string
	observedAt      time.Time
	loggedAt        time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewObservation creates a new observation. centerID must be the subject's
// current center at logging time; observedAt must not be in the future.
func NewObservation(subjectID, centerID, loggedByUserID uint, transcript string, observationType *string, observedAt time.Time) (*Observation, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, fmt.Errorf("transcript is required")
	}
	if subjectID == 0 || centerID == 0 || loggedByUserID == 0 {
		return nil, fmt.Errorf("subject, center and logger are required")
	}

	now := biztime.NowUTC()
	if observedAt.After(now) {
		return nil, ErrFutureObservedAt
	}

	sid, err := id.NewObservationID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	return &Observation{
		sid:             sid,
		subjectID:       subjectID,
		centerID:        centerID,
		loggedByUserID:  loggedByUserID,
		transcript:      transcript,
		observationType: observationType,
		observedAt:      observedAt.UTC(),
		loggedAt:        now,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructObservation recreates an observation from persisted state.
func ReconstructObservation(
	idVal uint,
	sid string,
	subjectID uint,
	centerID uint,
	loggedByUserID uint,
	transcript string,
	observationType *string,
	observedAt time.Time,
	loggedAt time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Observation {
	return &Observation{
		id:              idVal,
		sid:             sid,
		subjectID:       subjectID,
		centerID:        centerID,
		loggedByUserID:  loggedByUserID,
		transcript:      transcript,
		observationType: observationType,
		observedAt:      observedAt,
		loggedAt:        loggedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// CanEdit reports whether the given user may still edit this observation
// at the given instant: only the original logger, and only within the
// 24-hour window counted from logged_at.
func (o *Observation) CanEdit(userID uint, now time.Time) bool {
	if userID != o.loggedByUserID {
		return false
	}
	return now.Sub(o.loggedAt) < EditWindow
}

// ApplyEdit updates the editable fields. The caller must have already
// passed the CanEdit check; violations here are the data invariants only.
func (o *Observation) ApplyEdit(transcript string, observationType *string, observedAt time.Time) error {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return fmt.Errorf("transcript is required")
	}
	if observedAt.After(biztime.NowUTC()) {
		return ErrFutureObservedAt
	}

	o.transcript = transcript
	o.observationType = observationType
	o.observedAt = observedAt.UTC()
	o.updatedAt = biztime.NowUTC()
	return nil
}

func (o *Observation) ID() uint                 { return o.id }
func (o *Observation) SID() string              { return o.sid }
func (o *Observation) SubjectID() uint          { return o.subjectID }
func (o *Observation) CenterID() uint           { return o.centerID }
func (o *Observation) LoggedByUserID() uint     { return o.loggedByUserID }
func (o *Observation) Transcript() string       { return o.transcript }
func (o *Observation) ObservationType() *string { return o.observationType }
func (o *Observation) ObservedAt() time.Time    { return o.observedAt }
func (o *Observation) LoggedAt() time.Time      { return o.loggedAt }
func (o *Observation) CreatedAt() time.Time     { return o.createdAt }
func (o *Observation) UpdatedAt() time.Time     { return o.updatedAt }

// SetID sets the database-generated ID after insert.
func (o *Observation) SetID(idVal uint) { o.id = idVal }
