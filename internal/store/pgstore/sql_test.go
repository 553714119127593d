package pgstore

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
)

func TestBuilder_Where(t *testing.T) {
	t.Parallel()

	var b builder
	where, err := b.where("tours", []query.Predicate{
		query.Eq("_id", "abc"),
		query.Eq("difficulty", "easy"),
		{Field: "duration", Op: query.OpGte, Value: float64(5)},
	})
	require.NoError(t, err)

	assert.Contains(t, where, "collection = $1")
	assert.Contains(t, where, "id = $2")
	assert.Contains(t, where, "e.v = $4::jsonb")
	assert.Contains(t, where, "jsonb_typeof(e.v) = jsonb_typeof($6::jsonb) AND e.v >= $6::jsonb")
	assert.Equal(t, []any{
		"tours",
		"abc",
		[]string{"difficulty"},
		json.RawMessage(`"easy"`),
		[]string{"duration"},
		json.RawMessage(`5`),
	}, b.args)
}

func TestBuilder_NeAndIn(t *testing.T) {
	t.Parallel()

	var b builder
	where, err := b.where("tours", []query.Predicate{
		query.Ne("secretTour", true),
		query.In("difficulty", "easy", "medium"),
		query.In("price"),
	})
	require.NoError(t, err)

	assert.Contains(t, where, "NOT EXISTS (SELECT 1 FROM jsonb_array_elements(")
	assert.Contains(t, where, "(e.v = $5::jsonb OR e.v = $6::jsonb)")
	assert.Contains(t, where, "FALSE")
	assert.Equal(t, json.RawMessage(`true`), b.args[2])
}

func TestBuilder_TimeComparison(t *testing.T) {
	t.Parallel()

	ts := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	var b builder
	cond, err := b.predicate(query.Predicate{Field: "startDates", Op: query.OpGte, Value: ts})
	require.NoError(t, err)

	assert.Contains(t, cond, "::timestamptz >= $2::timestamptz")
	assert.Equal(t, ts, b.args[1])
}

func TestBuilder_SelectSQL(t *testing.T) {
	t.Parallel()

	params, err := url.ParseQuery("difficulty=easy&sort=-price,name&page=3&limit=5")
	require.NoError(t, err)
	spec := query.New(params).Filter().Sort().Paginate()

	var b builder
	sql, err := b.selectSQL("tours", spec)
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT body FROM documents WHERE collection = $1")
	assert.Contains(t, sql, "ORDER BY body #> $4::text[] DESC NULLS LAST, body #> $5::text[] ASC NULLS FIRST, seq ASC")
	assert.Contains(t, sql, "OFFSET $6 LIMIT $7")
	assert.Equal(t, 10, b.args[5])
	assert.Equal(t, 5, b.args[6])
}

func TestBuilder_NoPagination(t *testing.T) {
	t.Parallel()

	var b builder
	sql, err := b.selectSQL("reviews", query.New(nil))
	require.NoError(t, err)
	assert.NotContains(t, sql, "OFFSET")
	assert.NotContains(t, sql, "LIMIT")
	assert.Contains(t, sql, "ORDER BY seq ASC")
}
