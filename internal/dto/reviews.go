package dto

import "github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"

// CreateReviewRequest represents the payload to create a review. Tour
// defaults to the route's tour; the author is always the logged in user.
type CreateReviewRequest struct {
	Review string  `json:"review" validate:"required"`
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
	Tour   string  `json:"tour"`
}

// UpdateReviewRequest represents fields allowed to update a review
type UpdateReviewRequest struct {
	Review *string  `json:"review" validate:"omitempty,min=1"`
	Rating *float64 `json:"rating" validate:"omitempty,min=1,max=5"`
}

// ReviewResponse is a review with its author populated
type ReviewResponse struct {
	models.Review
	User any `json:"user"`
}
