// Package store defines the document store used by the repositories.
package store

import (
	"context"
	"errors"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Collection names.
const (
	Users    = "users"
	Tours    = "tours"
	Reviews  = "reviews"
	Bookings = "bookings"
)

// UniqueIndexes lists the field sets that must be unique per collection.
var UniqueIndexes = map[string][][]string{
	Users:   {{"email"}},
	Tours:   {{"name"}, {"slug"}},
	Reviews: {{"tour", "user"}},
}

// Collection is a named set of JSON-shaped documents keyed by "_id".
// Documents are structs whose json (and bson) field names match.
type Collection interface {
	query.Collection

	// Insert stores a new document; ErrDuplicate on a unique key clash.
	Insert(ctx context.Context, doc any) error
	// FindOne decodes the first document matching all predicates into dst.
	FindOne(ctx context.Context, preds []query.Predicate, dst any) error
	// Replace overwrites the document with the given id.
	Replace(ctx context.Context, id string, doc any) error
	// Delete removes the document with the given id.
	Delete(ctx context.Context, id string) error
	// DeleteMany removes every document matching all predicates.
	DeleteMany(ctx context.Context, preds []query.Predicate) (int64, error)
}

// Store hands out collections and owns the connection.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
