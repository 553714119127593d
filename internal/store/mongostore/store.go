// Package mongostore implements store.Store on MongoDB with mongo-go-driver v2.
// Documents are encoded through their bson tags, which match their json tags.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// Store is a MongoDB backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// NewStore connects to uri, pings the server and ensures indexes. A failed
// index build is logged, not fatal.
func NewStore(ctx context.Context, uri, dbName string, log *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(pingCtx); err != nil {
		log.Warn("mongostore: ensure indexes failed", zap.Error(err))
	}
	return s, nil
}

// Collection returns the named collection.
func (s *Store) Collection(name string) store.Collection {
	return &Collection{col: s.db.Collection(name)}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	var indexes []idx
	for col, sets := range store.UniqueIndexes {
		for _, fields := range sets {
			keys := bson.D{}
			for _, f := range fields {
				keys = append(keys, bson.E{Key: f, Value: 1})
			}
			indexes = append(indexes, idx{col, keys, true})
		}
	}
	indexes = append(indexes,
		idx{store.Tours, bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}, false},
		idx{store.Reviews, bson.D{{Key: "tour", Value: 1}}, false},
		idx{store.Bookings, bson.D{{Key: "user", Value: 1}}, false},
		idx{store.Users, bson.D{{Key: "passwordResetToken", Value: 1}}, false},
	)

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.db.Collection(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}
