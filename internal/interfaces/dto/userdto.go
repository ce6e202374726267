package dto

import (
	userdto "github.com/rahul-raghavan/pep-ops-log/internal/application/user/dto"
)

// CreateUserRequest is the payload for provisioning an account.
type CreateUserRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	Name            *string  `json:"name" validate:"omitempty,max=100"`
	Role            string   `json:"role" validate:"required,oneof=admin manager"`
	CenterIDs       []string `json:"center_ids"`
	LinkedSubjectID *string  `json:"linked_subject_id"`
}

func (r *CreateUserRequest) ToApplicationDTO() userdto.CreateUserInput {
	return userdto.CreateUserInput{
		Email:           r.Email,
		Name:            r.Name,
		Role:            r.Role,
		CenterIDs:       r.CenterIDs,
		LinkedSubjectID: r.LinkedSubjectID,
	}
}

// UpdateUserRequest is the payload for editing an account. Omitted
// fields are left unchanged.
type UpdateUserRequest struct {
	Name            *string  `json:"name" validate:"omitempty,max=100"`
	Role            *string  `json:"role" validate:"omitempty,oneof=admin manager"`
	IsActive        *bool    `json:"is_active"`
	CenterIDs       []string `json:"center_ids"`
	LinkedSubjectID *string  `json:"linked_subject_id"`
}

// SetUserActiveRequest is the payload for the activate/deactivate toggle.
type SetUserActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (r *UpdateUserRequest) ToApplicationDTO() userdto.UpdateUserInput {
	return userdto.UpdateUserInput{
		Name:            r.Name,
		Role:            r.Role,
		IsActive:        r.IsActive,
		CenterIDs:       r.CenterIDs,
		LinkedSubjectID: r.LinkedSubjectID,
	}
}
