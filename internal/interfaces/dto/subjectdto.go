package dto

import (
	subjectdto "github.com/rahul-raghavan/pep-ops-log/internal/application/subject/dto"
)

// CreateSubjectRequest is the payload for adding a staff member.
type CreateSubjectRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Role     string `json:"role" validate:"required,oneof=nanny driver manager_as_subject"`
	CenterID string `json:"center_id" validate:"required"`
}

func (r *CreateSubjectRequest) ToApplicationDTO() subjectdto.CreateSubjectInput {
	return subjectdto.CreateSubjectInput{
		Name:     r.Name,
		Role:     r.Role,
		CenterID: r.CenterID,
	}
}

// UpdateSubjectRequest is the payload for editing a staff member.
// Omitted fields are left unchanged.
type UpdateSubjectRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=nanny driver manager_as_subject"`
	CenterID *string `json:"center_id"`
	IsActive *bool   `json:"is_active"`
}

func (r *UpdateSubjectRequest) ToApplicationDTO() subjectdto.UpdateSubjectInput {
	return subjectdto.UpdateSubjectInput{
		Name:     r.Name,
		Role:     r.Role,
		CenterID: r.CenterID,
		IsActive: r.IsActive,
	}
}
