package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		assert.Equal(t, ".", dir)
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err := RunMigrations(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunMigrations_EmbedsFiles(t *testing.T) {
	orig := gooseUpContext
	called := false
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, RunMigrations(context.Background(), nil))
	assert.True(t, called)
}

type reviewDoc struct {
	ID     string  `json:"_id"`
	Tour   string  `json:"tour"`
	User   string  `json:"user"`
	Rating float64 `json:"rating"`
}

func TestCollection_Postgres(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	s, err := NewStore(ctx, dsn, config.PostgresConfig{MaxConns: 2}, zap.NewNop())
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })

	c := s.Collection(store.Reviews)
	_, err = c.DeleteMany(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, c.Insert(ctx, reviewDoc{ID: "r1", Tour: "t1", User: "u1", Rating: 5}))
	require.NoError(t, c.Insert(ctx, reviewDoc{ID: "r2", Tour: "t1", User: "u2", Rating: 3}))
	require.NoError(t, c.Insert(ctx, reviewDoc{ID: "r3", Tour: "t2", User: "u1", Rating: 4}))
	assert.ErrorIs(t, c.Insert(ctx, reviewDoc{ID: "r4", Tour: "t1", User: "u1", Rating: 1}), store.ErrDuplicate)

	params, _ := url.ParseQuery("rating[gte]=4&sort=-rating")
	var got []reviewDoc
	require.NoError(t, c.Find(ctx, query.New(params).Filter().Sort().Where(query.Eq("tour", "t1")), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)

	n, err := c.Count(ctx, []query.Predicate{query.Eq("user", "u1")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var one reviewDoc
	require.NoError(t, c.FindOne(ctx, []query.Predicate{query.Eq("_id", "r2")}, &one))
	one.Rating = 1
	require.NoError(t, c.Replace(ctx, "r2", one))
	require.NoError(t, c.Delete(ctx, "r2"))
	assert.ErrorIs(t, c.Delete(ctx, "r2"), store.ErrNotFound)
}
