package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// Collection adapts a mongo collection to store.Collection.
type Collection struct {
	col *mongo.Collection
}

var _ store.Collection = (*Collection)(nil)

// wrapError maps driver errors onto the store sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	return err
}

func (c *Collection) Insert(ctx context.Context, doc any) error {
	_, err := c.col.InsertOne(ctx, doc)
	return wrapError(err)
}

func (c *Collection) FindOne(ctx context.Context, preds []query.Predicate, dst any) error {
	return wrapError(c.col.FindOne(ctx, Filter(preds)).Decode(dst))
}

func (c *Collection) Find(ctx context.Context, spec query.Spec, dst any) error {
	opts := options.Find()
	if keys := spec.SortKeys(); len(keys) > 0 {
		opts.SetSort(Sort(keys))
	}
	if p := spec.Projection(); !p.IsZero() {
		opts.SetProjection(Projection(p))
	}
	if skip := spec.Skip(); skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit := spec.Limit(); limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.col.Find(ctx, Filter(spec.Predicates()), opts)
	if err != nil {
		return wrapError(err)
	}
	return cursor.All(ctx, dst)
}

func (c *Collection) Count(ctx context.Context, preds []query.Predicate) (int64, error) {
	n, err := c.col.CountDocuments(ctx, Filter(preds))
	return n, wrapError(err)
}

func (c *Collection) Replace(ctx context.Context, id string, doc any) error {
	res, err := c.col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	res, err := c.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Collection) DeleteMany(ctx context.Context, preds []query.Predicate) (int64, error) {
	res, err := c.col.DeleteMany(ctx, Filter(preds))
	if err != nil {
		return 0, wrapError(err)
	}
	return res.DeletedCount, nil
}
