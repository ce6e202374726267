package dto

import (
	"time"

	observationdto "github.com/rahul-raghavan/pep-ops-log/internal/application/observation/dto"
)

// CreateObservationRequest is the payload for logging an observation.
// ObservedAt defaults to now when omitted.
type CreateObservationRequest struct {
	SubjectID  string     `json:"subject_id" validate:"required"`
	Transcript string     `json:"transcript" validate:"required"`
	Type       *string    `json:"type"`
	ObservedAt *time.Time `json:"observed_at"`
}

func (r *CreateObservationRequest) ToApplicationDTO() observationdto.CreateObservationInput {
	return observationdto.CreateObservationInput{
		SubjectID:  r.SubjectID,
		Transcript: r.Transcript,
		Type:       r.Type,
		ObservedAt: r.ObservedAt,
	}
}

// UpdateObservationRequest is the payload for editing an observation
// within its edit window. An empty Type clears the tag.
type UpdateObservationRequest struct {
	Transcript *string    `json:"transcript"`
	Type       *string    `json:"type"`
	ObservedAt *time.Time `json:"observed_at"`
}

func (r *UpdateObservationRequest) ToApplicationDTO() observationdto.UpdateObservationInput {
	return observationdto.UpdateObservationInput{
		Transcript: r.Transcript,
		Type:       r.Type,
		ObservedAt: r.ObservedAt,
	}
}

// CreateTypeConfigRequest is the payload for adding an observation tag.
type CreateTypeConfigRequest struct {
	Value     string `json:"value" validate:"required,min=1,max=50"`
	Label     string `json:"label" validate:"required,min=1,max=100"`
	SortOrder int    `json:"sort_order"`
}

func (r *CreateTypeConfigRequest) ToApplicationDTO() observationdto.CreateTypeConfigInput {
	return observationdto.CreateTypeConfigInput{
		Value:     r.Value,
		Label:     r.Label,
		SortOrder: r.SortOrder,
	}
}

// UpdateTypeConfigRequest is the payload for editing an observation tag.
type UpdateTypeConfigRequest struct {
	Label     *string `json:"label" validate:"omitempty,min=1,max=100"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}

func (r *UpdateTypeConfigRequest) ToApplicationDTO() observationdto.UpdateTypeConfigInput {
	return observationdto.UpdateTypeConfigInput{
		Label:     r.Label,
		IsActive:  r.IsActive,
		SortOrder: r.SortOrder,
	}
}
