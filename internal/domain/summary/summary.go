package summary

import (
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/id"
)

// GenerationMeta records how a summary was produced.
type GenerationMeta struct {
	Model        string `json:"model"`
	PromptTokens int    `json:"prompt_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	DurationMS   int64  `json:"duration_ms,omitempty"`
}

// ObservationSummary is an AI-generated digest of a subject's observations
// over a date window. Summaries are immutable once stored; staleness is
// decided by comparing lastObservationID against the subject's newest
// observation.
type ObservationSummary struct {
	id                uint
	sid               string
	subjectID         uint
	summaryText       string
	startDate         time.Time
	endDate           time.Time
	observationCount  int
	lastObservationID uint
	requestedByUserID uint
	meta              GenerationMeta
	createdAt         time.Time
}

// NewObservationSummary creates a summary record for a completed generation.
func NewObservationSummary(
	subjectID uint,
	summaryText string,
	startDate, endDate time.Time,
	observationCount int,
	lastObservationID uint,
	requestedByUserID uint,
	meta GenerationMeta,
) (*ObservationSummary, error) {
	if subjectID == 0 {
		return nil, errors.NewValidationError("subject id is required")
	}
	if summaryText == "" {
		return nil, errors.NewValidationError("summary text is required")
	}
	if observationCount <= 0 {
		return nil, errors.NewValidationError("observation count must be positive")
	}
	if lastObservationID == 0 {
		return nil, errors.NewValidationError("last observation id is required")
	}
	if endDate.Before(startDate) {
		return nil, errors.NewValidationError("end date must not precede start date")
	}
	sid, err := id.NewSummaryID()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate SID", err.Error())
	}
	return &ObservationSummary{
		sid:               sid,
		subjectID:         subjectID,
		summaryText:       summaryText,
		startDate:         startDate,
		endDate:           endDate,
		observationCount:  observationCount,
		lastObservationID: lastObservationID,
		requestedByUserID: requestedByUserID,
		meta:              meta,
		createdAt:         time.Now().UTC(),
	}, nil
}

// ReconstructObservationSummary recreates a summary from storage.
func ReconstructObservationSummary(
	summaryID uint,
	sid string,
	subjectID uint,
	summaryText string,
	startDate, endDate time.Time,
	observationCount int,
	lastObservationID uint,
	requestedByUserID uint,
	meta GenerationMeta,
	createdAt time.Time,
) *ObservationSummary {
	return &ObservationSummary{
		id:                summaryID,
		sid:               sid,
		subjectID:         subjectID,
		summaryText:       summaryText,
		startDate:         startDate,
		endDate:           endDate,
		observationCount:  observationCount,
		lastObservationID: lastObservationID,
		requestedByUserID: requestedByUserID,
		meta:              meta,
		createdAt:         createdAt,
	}
}

func (s *ObservationSummary) ID() uint                { return s.id }
func (s *ObservationSummary) SID() string             { return s.sid }
func (s *ObservationSummary) SubjectID() uint         { return s.subjectID }
func (s *ObservationSummary) SummaryText() string     { return s.summaryText }
func (s *ObservationSummary) StartDate() time.Time    { return s.startDate }
func (s *ObservationSummary) EndDate() time.Time      { return s.endDate }
func (s *ObservationSummary) ObservationCount() int   { return s.observationCount }
func (s *ObservationSummary) LastObservationID() uint { return s.lastObservationID }
func (s *ObservationSummary) RequestedByUserID() uint { return s.requestedByUserID }
func (s *ObservationSummary) Meta() GenerationMeta    { return s.meta }
func (s *ObservationSummary) CreatedAt() time.Time    { return s.createdAt }

// SetID sets the database id after persistence.
func (s *ObservationSummary) SetID(summaryID uint) { s.id = summaryID }

// IsValidFor reports whether this cached summary can stand in for a fresh
// generation: it must already cover the subject's newest observation and
// its window must start at or before the requested start date.
func (s *ObservationSummary) IsValidFor(lastObservationID uint, startDate time.Time) bool {
	return s.lastObservationID == lastObservationID && !s.startDate.After(startDate)
}
