package dto

// UpdateMeRequest holds the profile fields a user may change themselves
type UpdateMeRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=40"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UpdateUserRequest holds the fields an admin may change on any user
type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=3,max=40"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	Photo  *string `json:"photo"`
	Active *bool   `json:"active"`
}
