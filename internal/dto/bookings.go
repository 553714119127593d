package dto

// CheckoutSession is the payment session handed to the browser
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutSessionResponse wraps a checkout session
type CheckoutSessionResponse struct {
	Status  string          `json:"status"`
	Session CheckoutSession `json:"session"`
}

// CreateBookingRequest represents the admin payload to create a booking
type CreateBookingRequest struct {
	Tour  string  `json:"tour" validate:"required"`
	User  string  `json:"user" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
	Paid  *bool   `json:"paid"`
}

// UpdateBookingRequest represents fields allowed to update a booking
type UpdateBookingRequest struct {
	Price *float64 `json:"price" validate:"omitempty,gt=0"`
	Paid  *bool    `json:"paid"`
}
