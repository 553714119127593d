package models

import "time"

// Review is a user's rating of a tour. A user reviews a tour at most once.
type Review struct {
	ID        string    `json:"_id" bson:"_id"`
	Review    string    `json:"review" bson:"review"`
	Rating    float64   `json:"rating" bson:"rating"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Tour      string    `json:"tour" bson:"tour"`
	User      string    `json:"user" bson:"user"`
	V         int       `json:"__v" bson:"__v"`
}
