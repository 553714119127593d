package repository

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/geo"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/memstore"
)

type repos struct {
	users    *Users
	tours    *Tours
	reviews  *Reviews
	bookings *Bookings
}

func newRepos() repos {
	s := memstore.New()
	users := NewUsers(s)
	tours := NewTours(s)
	return repos{
		users:    users,
		tours:    tours,
		reviews:  NewReviews(s, tours, users, zap.NewNop()),
		bookings: NewBookings(s),
	}
}

func newTour(name string, price float64) *models.Tour {
	return &models.Tour{
		Name:         name,
		Duration:     5,
		MaxGroupSize: 10,
		Difficulty:   models.DifficultyEasy,
		Price:        price,
		Summary:      "A tour",
		ImageCover:   "cover.jpg",
	}
}

func TestUsers_CreateAndFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	u := &models.User{Name: "Jonas Schmedtmann", Email: " Jonas@Example.com ", Password: "hash"}
	require.NoError(t, r.users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "jonas@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, models.DefaultPhoto, u.Photo)
	assert.True(t, u.Active)

	got, err := r.users.FindActiveByEmail(ctx, "JONAS@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = r.users.Create(ctx, &models.User{Name: "Other", Email: "jonas@example.com"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUsers_InactiveAreHidden(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	u := &models.User{Name: "Leo", Email: "leo@example.com"}
	require.NoError(t, r.users.Create(ctx, u))
	u.Active = false
	require.NoError(t, r.users.Save(ctx, u))

	_, err := r.users.FindActiveByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	list, err := r.users.List(ctx, query.New(nil).Filter())
	require.NoError(t, err)
	assert.Empty(t, list)

	byID, err := r.users.ByIDs(ctx, []string{u.ID})
	require.NoError(t, err)
	assert.Empty(t, byID)
}

func TestUsers_FindByResetTokenHash(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	exp := time.Now().Add(10 * time.Minute)
	u := &models.User{Name: "Kate", Email: "kate@example.com", PasswordResetToken: "abc123", PasswordResetExpires: &exp}
	require.NoError(t, r.users.Create(ctx, u))

	got, err := r.users.FindByResetTokenHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.users.FindByResetTokenHash(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTours_CreateSlugAndSecret(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	public := newTour("The Forest Hiker", 397)
	require.NoError(t, r.tours.Create(ctx, public))
	assert.Equal(t, "the-forest-hiker", public.Slug)
	assert.Equal(t, models.DefaultRatingsAverage, public.RatingsAverage)

	secret := newTour("The Secret Escape", 997)
	secret.SecretTour = true
	require.NoError(t, r.tours.Create(ctx, secret))

	got, err := r.tours.GetBySlug(ctx, "the-forest-hiker")
	require.NoError(t, err)
	assert.Equal(t, public.ID, got.ID)

	_, err = r.tours.Get(ctx, secret.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := r.tours.List(ctx, query.New(nil).Filter().Sort().Paginate())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, public.ID, list[0].ID)

	err = r.tours.Create(ctx, newTour("The Forest Hiker", 1))
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestTours_ListPageNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()
	require.NoError(t, r.tours.Create(ctx, newTour("The Forest Hiker", 397)))

	params := url.Values{"page": {"2"}, "limit": {"1"}}
	_, err := r.tours.List(ctx, query.New(params).Filter().Sort().Paginate())
	assert.ErrorIs(t, err, query.ErrPageNotFound)
}

func TestTours_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	specs := []struct {
		name       string
		difficulty string
		price      float64
		rating     float64
		quantity   int
	}{
		{"The Forest Hiker", models.DifficultyEasy, 400, 4.8, 10},
		{"The Sea Explorer", models.DifficultyEasy, 600, 4.6, 5},
		{"The Snow Adventurer", models.DifficultyDifficult, 1000, 4.5, 2},
		{"The Park Camper", models.DifficultyMedium, 100, 4.0, 7},
	}
	for _, s := range specs {
		tour := newTour(s.name, s.price)
		tour.Difficulty = s.difficulty
		tour.RatingsAverage = s.rating
		tour.RatingsQuantity = s.quantity
		require.NoError(t, r.tours.Create(ctx, tour))
	}

	stats, err := r.tours.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "EASY", stats[0].Difficulty)
	assert.Equal(t, 2, stats[0].NumTours)
	assert.Equal(t, 15, stats[0].NumRatings)
	assert.InDelta(t, 4.7, stats[0].AvgRating, 1e-9)
	assert.InDelta(t, 500, stats[0].AvgPrice, 1e-9)
	assert.Equal(t, 400.0, stats[0].MinPrice)
	assert.Equal(t, 600.0, stats[0].MaxPrice)

	assert.Equal(t, "DIFFICULT", stats[1].Difficulty)
}

func TestTours_MonthlyPlan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	a := newTour("The Forest Hiker", 397)
	a.StartDates = []time.Time{
		time.Date(2021, 4, 25, 9, 0, 0, 0, time.UTC),
		time.Date(2021, 7, 20, 9, 0, 0, 0, time.UTC),
		time.Date(2022, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	b := newTour("The Sea Explorer", 497)
	b.StartDates = []time.Time{time.Date(2021, 4, 2, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, r.tours.Create(ctx, a))
	require.NoError(t, r.tours.Create(ctx, b))

	plan, err := r.tours.MonthlyPlan(ctx, 2021)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 4, plan[0].Month)
	assert.Equal(t, 2, plan[0].NumTourStarts)
	assert.ElementsMatch(t, []string{"The Forest Hiker", "The Sea Explorer"}, plan[0].Tours)
	assert.Equal(t, 7, plan[1].Month)
}

func TestTours_WithinAndDistances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	la := newTour("The Los Angeles Tour", 100)
	la.StartLocation = &models.Location{Coordinates: []float64{-118.2437, 34.0522}}
	sf := newTour("The San Francisco Tour", 100)
	sf.StartLocation = &models.Location{Coordinates: []float64{-122.4194, 37.7749}}
	nowhere := newTour("The Virtual Tour Online", 100)
	for _, tour := range []*models.Tour{la, sf, nowhere} {
		require.NoError(t, r.tours.Create(ctx, tour))
	}

	center := geo.Point{Lat: 34.1, Lng: -118.2}
	near, err := r.tours.Within(ctx, center, 100, geo.Miles)
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, la.ID, near[0].ID)

	far, err := r.tours.Within(ctx, center, 1000, geo.Kilometers)
	require.NoError(t, err)
	assert.Len(t, far, 2)

	dists, err := r.tours.Distances(ctx, center, geo.Kilometers)
	require.NoError(t, err)
	require.Len(t, dists, 2)
	assert.Equal(t, la.ID, dists[0].ID)
	assert.Less(t, dists[0].Distance, dists[1].Distance)
	assert.InDelta(t, 550, dists[1].Distance, 20)
}

func TestReviews_RatingsFollowWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	tour := newTour("The Forest Hiker", 397)
	require.NoError(t, r.tours.Create(ctx, tour))

	first := &models.Review{Review: "Great", Rating: 5, Tour: tour.ID, User: "u1"}
	second := &models.Review{Review: "Fine", Rating: 4, Tour: tour.ID, User: "u2"}
	third := &models.Review{Review: "Meh", Rating: 4, Tour: tour.ID, User: "u3"}
	require.NoError(t, r.reviews.Create(ctx, first))
	require.NoError(t, r.reviews.Create(ctx, second))
	require.NoError(t, r.reviews.Create(ctx, third))

	got, err := r.tours.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RatingsQuantity)
	assert.Equal(t, 4.3, got.RatingsAverage)

	third.Rating = 1
	require.NoError(t, r.reviews.Update(ctx, third))
	got, err = r.tours.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.3, got.RatingsAverage)

	for _, rv := range []*models.Review{first, second, third} {
		require.NoError(t, r.reviews.Delete(ctx, rv.ID))
	}
	got, err = r.tours.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RatingsQuantity)
	assert.Equal(t, models.DefaultRatingsAverage, got.RatingsAverage)
}

func TestReviews_OnePerUserAndTour(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	tour := newTour("The Forest Hiker", 397)
	require.NoError(t, r.tours.Create(ctx, tour))
	require.NoError(t, r.reviews.Create(ctx, &models.Review{Review: "Great", Rating: 5, Tour: tour.ID, User: "u1"}))

	err := r.reviews.Create(ctx, &models.Review{Review: "Again", Rating: 1, Tour: tour.ID, User: "u1"})
	require.Error(t, err)
	e, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, e.Kind)
	assert.Equal(t, "You have already reviewed this tour", e.Message)
}

func TestReviews_WithAuthors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	u := &models.User{Name: "Lourdes Browning", Email: "lourdes@example.com"}
	require.NoError(t, r.users.Create(ctx, u))
	tour := newTour("The Forest Hiker", 397)
	require.NoError(t, r.tours.Create(ctx, tour))
	require.NoError(t, r.reviews.Create(ctx, &models.Review{Review: "Great", Rating: 5, Tour: tour.ID, User: u.ID}))
	require.NoError(t, r.reviews.Create(ctx, &models.Review{Review: "Ghost", Rating: 3, Tour: tour.ID, User: "gone"}))

	reviews, err := r.reviews.ForTour(ctx, tour.ID)
	require.NoError(t, err)
	authored, err := r.reviews.WithAuthors(ctx, reviews)
	require.NoError(t, err)
	require.Len(t, authored, 2)

	byUser := map[string]*models.User{}
	for _, a := range authored {
		byUser[a.User] = a.Author
	}
	require.NotNil(t, byUser[u.ID])
	assert.Equal(t, "Lourdes Browning", byUser[u.ID].Name)
	assert.Nil(t, byUser["gone"])
}

func TestBookings_ByUserAndSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRepos()

	require.NoError(t, r.bookings.Create(ctx, &models.Booking{Tour: "t1", User: "u1", Price: 397, Paid: true, SessionID: "cs_1"}))
	require.NoError(t, r.bookings.Create(ctx, &models.Booking{Tour: "t2", User: "u1", Price: 497, Paid: true}))
	require.NoError(t, r.bookings.Create(ctx, &models.Booking{Tour: "t1", User: "u2", Price: 397, Paid: true}))

	mine, err := r.bookings.ByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	b, err := r.bookings.FindBySession(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "t1", b.Tour)

	require.NoError(t, r.bookings.Delete(ctx, b.ID))
	_, err = r.bookings.Get(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
