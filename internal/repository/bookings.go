package repository

import (
	"context"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// Bookings accesses the bookings collection.
type Bookings struct {
	col store.Collection
	now Clock
}

func NewBookings(s store.Store) *Bookings {
	return &Bookings{col: s.Collection(store.Bookings), now: utcNow}
}

// Create stores a booking. Bookings are paid unless stated otherwise.
func (r *Bookings) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = newID()
	}
	b.CreatedAt = r.now()
	return translate(r.col.Insert(ctx, b), "booking")
}

func (r *Bookings) Get(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.col.FindOne(ctx, []query.Predicate{byID(id)}, &b); err != nil {
		return nil, translate(err, "booking")
	}
	return &b, nil
}

// FindBySession returns the booking created for a checkout session.
func (r *Bookings) FindBySession(ctx context.Context, sessionID string) (*models.Booking, error) {
	var b models.Booking
	if err := r.col.FindOne(ctx, []query.Predicate{query.Eq("sessionId", sessionID)}, &b); err != nil {
		return nil, translate(err, "booking")
	}
	return &b, nil
}

func (r *Bookings) List(ctx context.Context, spec query.Spec) ([]models.Booking, error) {
	return list[models.Booking](ctx, r.col, spec)
}

// ByUser returns every booking of a user.
func (r *Bookings) ByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return findAll[models.Booking](ctx, r.col, all(query.Eq("user", userID)))
}

func (r *Bookings) Update(ctx context.Context, b *models.Booking) error {
	return translate(r.col.Replace(ctx, b.ID, b), "booking")
}

func (r *Bookings) Delete(ctx context.Context, id string) error {
	return translate(r.col.Delete(ctx, id), "booking")
}
