package models

import "time"

// Difficulty levels accepted for a tour.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// DefaultRatingsAverage is the rating of a tour without reviews.
const DefaultRatingsAverage = 4.5

// Location is a GeoJSON point with a description. Coordinates are
// [longitude, latitude].
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty"`
}

// Lng returns the longitude, zero for a malformed point.
func (l Location) Lng() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[0]
}

// Lat returns the latitude, zero for a malformed point.
func (l Location) Lat() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[1]
}

// Tour is a bookable tour. Guides holds user ids.
type Tour struct {
	ID              string      `json:"_id" bson:"_id"`
	Name            string      `json:"name" bson:"name"`
	Slug            string      `json:"slug" bson:"slug"`
	Duration        int         `json:"duration" bson:"duration"`
	MaxGroupSize    int         `json:"maxGroupSize" bson:"maxGroupSize"`
	Difficulty      string      `json:"difficulty" bson:"difficulty"`
	RatingsAverage  float64     `json:"ratingsAverage" bson:"ratingsAverage"`
	RatingsQuantity int         `json:"ratingsQuantity" bson:"ratingsQuantity"`
	Price           float64     `json:"price" bson:"price"`
	PriceDiscount   *float64    `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty"`
	Summary         string      `json:"summary" bson:"summary"`
	Description     string      `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string      `json:"imageCover" bson:"imageCover"`
	Images          []string    `json:"images" bson:"images"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	StartDates      []time.Time `json:"startDates" bson:"startDates"`
	SecretTour      bool        `json:"secretTour" bson:"secretTour"`
	StartLocation   *Location   `json:"startLocation,omitempty" bson:"startLocation,omitempty"`
	Locations       []Location  `json:"locations" bson:"locations"`
	Guides          []string    `json:"guides" bson:"guides"`
	V               int         `json:"__v" bson:"__v"`
}

// DurationWeeks is the tour duration in weeks.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}
