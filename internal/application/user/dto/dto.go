package dto

import "time"

// CenterRef is a center reference embedded in user responses.
type CenterRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse is the API shape of an operator account.
type UserResponse struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	Name            *string     `json:"name"`
	Role            string      `json:"role"`
	IsActive        bool        `json:"is_active"`
	LinkedSubjectID *string     `json:"linked_subject_id,omitempty"`
	Centers         []CenterRef `json:"centers"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// CreateUserInput carries the fields for provisioning an account.
type CreateUserInput struct {
	Email           string
	Name            *string
	Role            string
	CenterIDs       []string
	LinkedSubjectID *string
}

// UpdateUserInput carries the mutable fields of an account. Nil means
// leave unchanged.
type UpdateUserInput struct {
	Name            *string
	Role            *string
	IsActive        *bool
	CenterIDs       []string // nil means unchanged, empty means clear
	LinkedSubjectID *string  // empty string clears the link
}
