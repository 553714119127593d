package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/auth"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/memstore"
)

const toursJSON = `[
  {
    "_id": "5c88fa8cf4afda39709c2951",
    "name": "The Forest Hiker",
    "duration": 5,
    "maxGroupSize": 25,
    "difficulty": "easy",
    "price": 397,
    "summary": "Breathtaking hike through the Canadian Banff National Park",
    "imageCover": "tour-1-cover.jpg",
    "startDates": ["2021-04-25,10:00", "2021-07-20T10:00:00Z"]
  }
]`

const usersYAML = `
- _id: 5c8a1d5b0190b214360dc057
  name: Jonas Schmedtmann
  email: ADMIN@natours.io
  role: admin
  password: test1234
- _id: 5c8a1dfa2f8fb814b56fa181
  name: Lourdes Browning
  email: loulou@example.com
  password: $2a$12$Q0grHjH9PXc6SxivC8m12.2mZJ9BbKcgFpwSG4Y1ZEII8HJVzWeyS
`

const reviewsJSON = `[
  {"_id": "5c8a34ed14eb5c17645c9108", "review": "Cras mollis nisi parturient mi nec aliquet suspendisse sagittis eros condimentum scelerisque taciti mattis praesent feugiat eu nascetur a tincidunt", "rating": 5, "tour": "5c88fa8cf4afda39709c2951", "user": "5c8a1dfa2f8fb814b56fa181"},
  {"_id": "5c8a355b14eb5c17645c9109", "review": "Tempus curabitur faucibus auctor bibendum duis gravida tincidunt litora himenaeos facilisis vivamus vehicula", "rating": 4, "tour": "5c88fa8cf4afda39709c2951", "user": "5c8a1d5b0190b214360dc057"}
]`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tours.json"), []byte(toursJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.yaml"), []byte(usersYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reviews.json"), []byte(reviewsJSON), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	f, err := Load(writeFixtures(t))
	require.NoError(t, err)

	require.Len(t, f.Tours, 1)
	require.Len(t, f.Users, 2)
	require.Len(t, f.Reviews, 2)

	tour := f.Tours[0]
	assert.Equal(t, "The Forest Hiker", tour.Name)
	assert.Equal(t, 397.0, tour.Price)
	require.Len(t, tour.StartDates, 2)
	assert.Equal(t, time.Date(2021, 4, 25, 10, 0, 0, 0, time.UTC), tour.StartDates[0].UTC())
	assert.Equal(t, time.Date(2021, 7, 20, 10, 0, 0, 0, time.UTC), tour.StartDates[1].UTC())

	assert.Equal(t, models.RoleAdmin, f.Users[0].Role)
	assert.Equal(t, "5c88fa8cf4afda39709c2951", f.Reviews[0].Tour)
}

func TestLoadMissingSetsAreEmpty(t *testing.T) {
	f, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, f.Tours)
	assert.Empty(t, f.Users)
	assert.Empty(t, f.Reviews)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tours.json"), []byte(`[{"name": `), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "tours.json")
}

func TestImportAndDelete(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	im := NewImporter(s, zap.NewNop())

	f, err := Load(writeFixtures(t))
	require.NoError(t, err)
	require.NoError(t, im.Import(ctx, f))

	users := repository.NewUsers(s)
	admin, err := users.FindActiveByEmail(ctx, "admin@natours.io")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(admin.Password, "test1234"), "plain passwords are hashed")

	lou, err := users.FindActiveByEmail(ctx, "loulou@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$12$Q0grHjH9PXc6SxivC8m12.2mZJ9BbKcgFpwSG4Y1ZEII8HJVzWeyS", lou.Password)

	tour, err := repository.NewTours(s).Get(ctx, "5c88fa8cf4afda39709c2951")
	require.NoError(t, err)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, 2, tour.RatingsQuantity)
	assert.Equal(t, 4.5, tour.RatingsAverage)

	require.NoError(t, im.Delete(ctx))
	_, err = users.FindActiveByEmail(ctx, "admin@natours.io")
	assert.Error(t, err)
}
