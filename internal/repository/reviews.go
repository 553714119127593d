package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// Reviews accesses the reviews collection and keeps the rating aggregates
// of the reviewed tours current.
type Reviews struct {
	col   store.Collection
	tours *Tours
	users *Users
	log   *zap.Logger
	now   Clock
}

func NewReviews(s store.Store, tours *Tours, users *Users, log *zap.Logger) *Reviews {
	return &Reviews{
		col:   s.Collection(store.Reviews),
		tours: tours,
		users: users,
		log:   log,
		now:   utcNow,
	}
}

// Create stores a review and recalculates the tour's ratings. A user reviews
// a tour once.
func (r *Reviews) Create(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = newID()
	}
	rv.CreatedAt = r.now()
	if err := r.col.Insert(ctx, rv); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperror.Conflict("You have already reviewed this tour").Wrap(err)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	r.recalculate(ctx, rv.Tour)
	return nil
}

// Get returns a review by id.
func (r *Reviews) Get(ctx context.Context, id string) (*models.Review, error) {
	var rv models.Review
	if err := r.col.FindOne(ctx, []query.Predicate{byID(id)}, &rv); err != nil {
		return nil, translate(err, "review")
	}
	return &rv, nil
}

// List runs a client query over reviews. Scope it to a tour with
// spec.Where(query.Eq("tour", id)).
func (r *Reviews) List(ctx context.Context, spec query.Spec) ([]models.Review, error) {
	return list[models.Review](ctx, r.col, spec)
}

// ForTour returns every review of a tour, newest first.
func (r *Reviews) ForTour(ctx context.Context, tourID string) ([]models.Review, error) {
	return findAll[models.Review](ctx, r.col, all(query.Eq("tour", tourID)).Sort())
}

// Update overwrites a review and recalculates the tour's ratings.
func (r *Reviews) Update(ctx context.Context, rv *models.Review) error {
	if err := r.col.Replace(ctx, rv.ID, rv); err != nil {
		return translate(err, "review")
	}
	r.recalculate(ctx, rv.Tour)
	return nil
}

// Delete removes a review and recalculates the tour's ratings.
func (r *Reviews) Delete(ctx context.Context, id string) error {
	rv, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.col.Delete(ctx, id); err != nil {
		return translate(err, "review")
	}
	r.recalculate(ctx, rv.Tour)
	return nil
}

// RecalculateRatings stores the number of reviews of a tour and their mean
// rating rounded to one decimal. A tour without reviews gets the default
// average.
func (r *Reviews) RecalculateRatings(ctx context.Context, tourID string) error {
	reviews, err := findAll[models.Review](ctx, r.col, all(query.Eq("tour", tourID)))
	if err != nil {
		return err
	}

	quantity, average := 0, models.DefaultRatingsAverage
	if len(reviews) > 0 {
		var sum float64
		for _, rv := range reviews {
			sum += rv.Rating
		}
		quantity = len(reviews)
		average = math.Round(sum/float64(quantity)*10) / 10
	}
	return r.tours.SetRatings(ctx, tourID, quantity, average)
}

// recalculate runs RecalculateRatings after a write. The write has already
// succeeded, so a failure here is logged rather than returned.
func (r *Reviews) recalculate(ctx context.Context, tourID string) {
	if err := r.RecalculateRatings(ctx, tourID); err != nil {
		r.log.Warn("recalculate tour ratings",
			zap.String("tour_id", tourID),
			zap.Error(err),
		)
	}
}

// Authored is a review with its author.
type Authored struct {
	models.Review
	Author *models.User
}

// WithAuthors attaches the author of every review. Authors that no longer
// exist are left nil.
func (r *Reviews) WithAuthors(ctx context.Context, reviews []models.Review) ([]Authored, error) {
	ids := make([]string, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.User)
	}
	authors, err := r.users.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Authored, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, Authored{Review: rv, Author: authors[rv.User]})
	}
	return out, nil
}
