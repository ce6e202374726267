package dto

import "time"

// Ref is a named reference to a related record.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ObservationResponse is the API shape of a logged observation.
type ObservationResponse struct {
	ID         string    `json:"id"`
	Subject    Ref       `json:"subject"`
	Center     Ref       `json:"center"`
	LoggedBy   Ref       `json:"logged_by"`
	Transcript string    `json:"transcript"`
	Type       *string   `json:"type"`
	ObservedAt time.Time `json:"observed_at"`
	LoggedAt   time.Time `json:"logged_at"`
	CanEdit    bool      `json:"can_edit"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateObservationInput carries the fields for logging an observation.
type CreateObservationInput struct {
	SubjectID  string
	Transcript string
	Type       *string
	ObservedAt *time.Time // nil means now
}

// UpdateObservationInput carries the editable fields. Nil means
// unchanged; an empty Type clears the tag.
type UpdateObservationInput struct {
	Transcript *string
	Type       *string
	ObservedAt *time.Time
}

// ListFilter narrows observation listings at the API boundary.
type ListFilter struct {
	SubjectID *string
	CenterID  *string
	Type      *string
	From      *string // YYYY-MM-DD in the business timezone
	To        *string
	Limit     int
}

// TypeConfigResponse is the API shape of an observation tag.
type TypeConfigResponse struct {
	ID        string `json:"id"`
	Value     string `json:"value"`
	Label     string `json:"label"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// CreateTypeConfigInput carries the fields for adding a tag.
type CreateTypeConfigInput struct {
	Value     string
	Label     string
	SortOrder int
}

// UpdateTypeConfigInput carries the mutable tag fields.
type UpdateTypeConfigInput struct {
	Label     *string
	IsActive  *bool
	SortOrder *int
}
