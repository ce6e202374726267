package dto

import "time"

// CenterRef is a center reference embedded in subject responses.
type CenterRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubjectResponse is the API shape of a staff member.
type SubjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	Center    CenterRef `json:"center"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter narrows subject listings at the API boundary.
type ListFilter struct {
	CenterID   *string
	Role       *string
	ActiveOnly bool
	Query      string
}

// CreateSubjectInput carries the fields for adding a staff member.
type CreateSubjectInput struct {
	Name     string
	Role     string
	CenterID string
}

// UpdateSubjectInput carries the mutable fields. Nil means unchanged.
type UpdateSubjectInput struct {
	Name     *string
	Role     *string
	CenterID *string
	IsActive *bool
}
