package dto

// CreateCenterRequest is the payload for adding a center.
type CreateCenterRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateCenterRequest is the payload for renaming a center.
type UpdateCenterRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
