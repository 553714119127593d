// Package repository holds the typed data access for users, tours, reviews
// and bookings on top of a document store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// Clock returns the current time. Repositories stamp createdAt with it.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func newID() string { return uuid.NewString() }

// translate maps store sentinels to client facing errors. The sentinel stays
// in the chain for errors.Is.
func translate(err error, noun string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound("No %s found with that ID", noun).Wrap(err)
	case errors.Is(err, store.ErrDuplicate):
		return apperror.Conflict("Duplicate %s. Please use another value!", noun).Wrap(err)
	}
	return err
}

func byID(id string) query.Predicate { return query.Eq("_id", id) }

// all builds an unpaginated spec over the given predicates.
func all(preds ...query.Predicate) query.Spec {
	return query.New(nil).Where(preds...)
}

func findAll[T any](ctx context.Context, c store.Collection, spec query.Spec) ([]T, error) {
	out := []T{}
	if err := c.Find(ctx, spec, &out); err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return out, nil
}

func list[T any](ctx context.Context, c store.Collection, spec query.Spec) ([]T, error) {
	out := []T{}
	if err := query.Execute(ctx, c, spec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func idsOf(ids []string) []any {
	out := make([]any, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
