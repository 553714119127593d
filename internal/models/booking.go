package models

import "time"

// Booking records a paid tour purchase.
type Booking struct {
	ID        string    `json:"_id" bson:"_id"`
	Tour      string    `json:"tour" bson:"tour"`
	User      string    `json:"user" bson:"user"`
	Price     float64   `json:"price" bson:"price"`
	Paid      bool      `json:"paid" bson:"paid"`
	SessionID string    `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	V         int       `json:"__v" bson:"__v"`
}
