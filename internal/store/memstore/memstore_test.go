package memstore

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

type doc struct {
	ID         string      `json:"_id"`
	Name       string      `json:"name"`
	Duration   float64     `json:"duration"`
	Difficulty string      `json:"difficulty"`
	Secret     *bool       `json:"secretTour,omitempty"`
	StartDates []time.Time `json:"startDates,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func seed(t *testing.T) store.Collection {
	t.Helper()
	ctx := context.Background()
	c := New().Collection(store.Tours)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	yes := true
	docs := []doc{
		{ID: "1", Name: "Forest Hiker", Duration: 5, Difficulty: "easy", CreatedAt: base,
			StartDates: []time.Time{time.Date(2021, 4, 25, 9, 0, 0, 0, time.UTC)}},
		{ID: "2", Name: "Sea Explorer", Duration: 7, Difficulty: "medium", CreatedAt: base.Add(time.Hour)},
		{ID: "3", Name: "Snow Adventurer", Duration: 4, Difficulty: "difficult", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Name: "City Wanderer", Duration: 9, Difficulty: "easy", CreatedAt: base.Add(3 * time.Hour), Secret: &yes},
	}
	for _, d := range docs {
		require.NoError(t, c.Insert(ctx, d))
	}
	return c
}

func TestCollection_FindWithSpec(t *testing.T) {
	t.Parallel()
	c := seed(t)

	params, err := url.ParseQuery("duration[gte]=5&sort=-duration&limit=2")
	require.NoError(t, err)
	spec := query.New(params).Filter().Sort().Paginate()

	var got []doc
	require.NoError(t, c.Find(context.Background(), spec, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "4", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestCollection_DefaultSortNewestFirst(t *testing.T) {
	t.Parallel()
	c := seed(t)

	var got []doc
	require.NoError(t, c.Find(context.Background(), query.New(nil).Sort(), &got))
	ids := []string{}
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids)
}

func TestCollection_Predicates(t *testing.T) {
	t.Parallel()
	c := seed(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		preds []query.Predicate
		want  int64
	}{
		{"eq", []query.Predicate{query.Eq("difficulty", "easy")}, 2},
		{"ne missing counts", []query.Predicate{query.Ne("secretTour", true)}, 3},
		{"in", []query.Predicate{query.In("difficulty", "easy", "medium")}, 3},
		{"type mismatch", []query.Predicate{query.Eq("duration", "5")}, 0},
		{"array element", []query.Predicate{{Field: "startDates", Op: query.OpGte, Value: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}}, 1},
		{"missing field", []query.Predicate{{Field: "price", Op: query.OpLt, Value: float64(100)}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := c.Count(ctx, tt.preds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestCollection_UniqueAndCRUD(t *testing.T) {
	t.Parallel()
	c := seed(t)
	ctx := context.Background()

	err := c.Insert(ctx, doc{ID: "5", Name: "Forest Hiker"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	var d doc
	require.NoError(t, c.FindOne(ctx, []query.Predicate{query.Eq("_id", "2")}, &d))
	d.Name = "Sea Explorer II"
	require.NoError(t, c.Replace(ctx, d.ID, d))

	d.Name = "Forest Hiker"
	assert.ErrorIs(t, c.Replace(ctx, d.ID, d), store.ErrDuplicate)

	require.NoError(t, c.Delete(ctx, "2"))
	assert.ErrorIs(t, c.Delete(ctx, "2"), store.ErrNotFound)
	assert.ErrorIs(t, c.FindOne(ctx, []query.Predicate{query.Eq("_id", "2")}, &d), store.ErrNotFound)

	n, err := c.DeleteMany(ctx, []query.Predicate{query.Eq("difficulty", "easy")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := c.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), left)
}

func TestCollection_FindEmptyDecodesToEmptySlice(t *testing.T) {
	t.Parallel()
	c := New().Collection(store.Reviews)

	var got []doc
	require.NoError(t, c.Find(context.Background(), query.New(nil), &got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
