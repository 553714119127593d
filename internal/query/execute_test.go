package query_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/memstore"
)

type item struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func seedItems(t *testing.T, n int) store.Collection {
	t.Helper()
	c := memstore.New().Collection("items")
	for i := 0; i < n; i++ {
		require.NoError(t, c.Insert(context.Background(), item{
			ID:    fmt.Sprintf("id-%02d", i),
			Name:  fmt.Sprintf("item %02d", i),
			Price: float64(100 + i),
		}))
	}
	return c
}

func run(t *testing.T, c store.Collection, raw string) ([]item, error) {
	t.Helper()
	params, err := url.ParseQuery(raw)
	require.NoError(t, err)
	spec := query.New(params).Filter().Sort().LimitFields().Paginate()
	var out []item
	err = query.Execute(context.Background(), c, spec, &out)
	return out, err
}

func TestExecute_PageWindow(t *testing.T) {
	t.Parallel()
	c := seedItems(t, 23)

	for _, tc := range []struct{ page, limit int }{{1, 10}, {2, 10}, {3, 10}, {4, 5}, {1, 50}} {
		t.Run(fmt.Sprintf("page=%d&limit=%d", tc.page, tc.limit), func(t *testing.T) {
			got, err := run(t, c, fmt.Sprintf("sort=price&page=%d&limit=%d", tc.page, tc.limit))
			require.NoError(t, err)

			skip := (tc.page - 1) * tc.limit
			assert.LessOrEqual(t, len(got), tc.limit)
			for i, it := range got {
				assert.Equal(t, float64(100+skip+i), it.Price)
			}
		})
	}
}

func TestExecute_PageDoesNotExist(t *testing.T) {
	t.Parallel()
	c := seedItems(t, 20)

	_, err := run(t, c, "page=3&limit=10")
	require.ErrorIs(t, err, query.ErrPageNotFound)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = run(t, c, "page=2&limit=10")
	assert.NoError(t, err)
}

func TestExecute_HugePagesDoNotWrapAround(t *testing.T) {
	t.Parallel()
	c := seedItems(t, 2)

	for _, raw := range []string{
		"page=4611686018427387905&limit=4",
		"page=4611686018427387904&limit=2",
		"page=9223372036854775807&limit=9223372036854775807",
	} {
		t.Run(raw, func(t *testing.T) {
			got, err := run(t, c, raw)
			require.ErrorIs(t, err, query.ErrPageNotFound)
			assert.Empty(t, got)
		})
	}
}

func TestExecute_PageGuardCountsMatchingDocuments(t *testing.T) {
	t.Parallel()
	c := seedItems(t, 20)

	_, err := run(t, c, "price[gte]=115&page=2&limit=5")
	require.ErrorIs(t, err, query.ErrPageNotFound)
}

func TestExecute_ImplicitPageNeverFails(t *testing.T) {
	t.Parallel()
	c := seedItems(t, 3)

	got, err := run(t, c, "price[gt]=1000")
	require.NoError(t, err)
	assert.Empty(t, got)
}
