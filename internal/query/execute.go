package query

import (
	"context"
	"fmt"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
)

// ErrPageNotFound is returned by Execute when an explicitly requested page
// starts beyond the last matching record.
var ErrPageNotFound = apperror.NotFound("This page does not exist")

// Collection is the queryable side of a document store.
type Collection interface {
	// Count returns the number of documents matching all predicates.
	Count(ctx context.Context, preds []Predicate) (int64, error)
	// Find decodes the documents selected by spec into dst, a pointer to a slice.
	Find(ctx context.Context, spec Spec, dst any) error
}

// Execute runs spec against c. When the client asked for a page explicitly
// and that page starts at or past the number of matching documents, it
// fails with ErrPageNotFound instead of returning an empty page.
func Execute(ctx context.Context, c Collection, spec Spec, dst any) error {
	if page, ok := spec.Pagination(); ok && page.Explicit {
		n, err := c.Count(ctx, spec.Predicates())
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		if int64(page.Skip()) >= n {
			return ErrPageNotFound
		}
	}

	if err := c.Find(ctx, spec, dst); err != nil {
		return fmt.Errorf("find documents: %w", err)
	}
	return nil
}
