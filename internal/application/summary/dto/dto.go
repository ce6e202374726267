package dto

import "time"

// Outcome says how the summary in a response was obtained.
type Outcome string

const (
	// OutcomeCached means a stored summary was still valid and reused.
	OutcomeCached Outcome = "cached"
	// OutcomeGenerated means a fresh summary was produced and stored.
	OutcomeGenerated Outcome = "generated"
	// OutcomeGeneratedUnsaved means a fresh summary was produced but
	// storing it failed; the text is still returned.
	OutcomeGeneratedUnsaved Outcome = "generated_unsaved"
)

// SummaryResponse is the API shape of an observation summary.
type SummaryResponse struct {
	SubjectID        string    `json:"subject_id"`
	SummaryText      string    `json:"summary_text"`
	SummaryHTML      string    `json:"summary_html"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	ObservationCount int       `json:"observation_count"`
	Outcome          Outcome   `json:"outcome"`
	GeneratedAt      time.Time `json:"generated_at"`
}
