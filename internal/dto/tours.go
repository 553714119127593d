package dto

import (
	"time"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
)

// LocationRequest is a GeoJSON point in requests
type LocationRequest struct {
	Type        string    `json:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"len=2"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Day         int       `json:"day"`
}

// ToModel converts the request to a stored location
func (l LocationRequest) ToModel() models.Location {
	return models.Location{
		Type:        "Point",
		Coordinates: l.Coordinates,
		Address:     l.Address,
		Description: l.Description,
		Day:         l.Day,
	}
}

// CreateTourRequest represents the payload to create a tour
type CreateTourRequest struct {
	Name          string            `json:"name" validate:"required,min=10,max=40"`
	Duration      int               `json:"duration" validate:"required,gt=0"`
	MaxGroupSize  int               `json:"maxGroupSize" validate:"required,gt=0"`
	Difficulty    string            `json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price         float64           `json:"price" validate:"required,gt=0"`
	PriceDiscount *float64          `json:"priceDiscount" validate:"omitempty,gte=0,ltfield=Price"`
	Summary       string            `json:"summary" validate:"required"`
	Description   string            `json:"description"`
	ImageCover    string            `json:"imageCover" validate:"required"`
	Images        []string          `json:"images"`
	StartDates    []time.Time       `json:"startDates"`
	SecretTour    bool              `json:"secretTour"`
	StartLocation *LocationRequest  `json:"startLocation" validate:"omitempty"`
	Locations     []LocationRequest `json:"locations" validate:"dive"`
	Guides        []string          `json:"guides"`
}

// UpdateTourRequest represents fields allowed to update a tour
// All fields are optional; only provided ones will be updated
type UpdateTourRequest struct {
	Name          *string           `json:"name" validate:"omitempty,min=10,max=40"`
	Duration      *int              `json:"duration" validate:"omitempty,gt=0"`
	MaxGroupSize  *int              `json:"maxGroupSize" validate:"omitempty,gt=0"`
	Difficulty    *string           `json:"difficulty" validate:"omitempty,oneof=easy medium difficult"`
	Price         *float64          `json:"price" validate:"omitempty,gt=0"`
	PriceDiscount *float64          `json:"priceDiscount" validate:"omitempty,gte=0"`
	Summary       *string           `json:"summary"`
	Description   *string           `json:"description"`
	ImageCover    *string           `json:"imageCover"`
	Images        []string          `json:"images"`
	StartDates    []time.Time       `json:"startDates"`
	SecretTour    *bool             `json:"secretTour"`
	StartLocation *LocationRequest  `json:"startLocation"`
	Locations     []LocationRequest `json:"locations" validate:"omitempty,dive"`
	Guides        []string          `json:"guides"`
}

// TourResponse is a tour as returned by the API. Guides holds ids in
// listings and user summaries on single tour reads.
type TourResponse struct {
	models.Tour
	DurationWeeks float64          `json:"durationWeeks"`
	Guides        any              `json:"guides"`
	Reviews       []ReviewResponse `json:"reviews,omitempty"`
}

// NewTourResponse converts a tour, leaving guides as ids
func NewTourResponse(t *models.Tour) TourResponse {
	guides := t.Guides
	if guides == nil {
		guides = []string{}
	}
	return TourResponse{Tour: *t, DurationWeeks: t.DurationWeeks(), Guides: guides}
}
