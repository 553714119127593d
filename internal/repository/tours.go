package repository

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/geo"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// publicOnly hides secret tours from every read.
var publicOnly = query.Ne("secretTour", true)

// Tours accesses the tours collection.
type Tours struct {
	col store.Collection
	now Clock
}

func NewTours(s store.Store) *Tours {
	return &Tours{col: s.Collection(store.Tours), now: utcNow}
}

// Create stores a new tour, deriving its slug from the name.
func (r *Tours) Create(ctx context.Context, t *models.Tour) error {
	if t.ID == "" {
		t.ID = newID()
	}
	t.Slug = models.Slugify(t.Name)
	t.CreatedAt = r.now()
	if t.RatingsAverage == 0 {
		t.RatingsAverage = models.DefaultRatingsAverage
	}
	normalizeTour(t)
	return translate(r.col.Insert(ctx, t), "tour name")
}

// Get returns a public tour by id.
func (r *Tours) Get(ctx context.Context, id string) (*models.Tour, error) {
	var t models.Tour
	if err := r.col.FindOne(ctx, []query.Predicate{byID(id), publicOnly}, &t); err != nil {
		return nil, translate(err, "tour")
	}
	return &t, nil
}

// GetBySlug returns a public tour by slug.
func (r *Tours) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	var t models.Tour
	if err := r.col.FindOne(ctx, []query.Predicate{query.Eq("slug", slug), publicOnly}, &t); err != nil {
		return nil, translate(err, "tour")
	}
	return &t, nil
}

// List runs a client query over public tours.
func (r *Tours) List(ctx context.Context, spec query.Spec) ([]models.Tour, error) {
	return list[models.Tour](ctx, r.col, spec.Where(publicOnly))
}

// ByIDs returns the public tours among ids, in store order.
func (r *Tours) ByIDs(ctx context.Context, ids []string) ([]models.Tour, error) {
	keys := idsOf(ids)
	if len(keys) == 0 {
		return []models.Tour{}, nil
	}
	return findAll[models.Tour](ctx, r.col, all(query.In("_id", keys...), publicOnly))
}

// Update overwrites the stored tour. The slug follows the name.
func (r *Tours) Update(ctx context.Context, t *models.Tour) error {
	t.Slug = models.Slugify(t.Name)
	normalizeTour(t)
	return translate(r.col.Replace(ctx, t.ID, t), "tour")
}

// SetRatings stores review aggregates on a tour, secret or not.
func (r *Tours) SetRatings(ctx context.Context, id string, quantity int, average float64) error {
	var t models.Tour
	if err := r.col.FindOne(ctx, []query.Predicate{byID(id)}, &t); err != nil {
		return translate(err, "tour")
	}
	t.RatingsQuantity = quantity
	t.RatingsAverage = average
	return translate(r.col.Replace(ctx, id, &t), "tour")
}

// Delete removes a tour.
func (r *Tours) Delete(ctx context.Context, id string) error {
	return translate(r.col.Delete(ctx, id), "tour")
}

// TourStats aggregates the well rated tours of one difficulty.
type TourStats struct {
	Difficulty string  `json:"_id"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// Stats groups tours rated 4.5 or better by difficulty, cheapest average
// price first.
func (r *Tours) Stats(ctx context.Context) ([]TourStats, error) {
	tours, err := findAll[models.Tour](ctx, r.col, all(publicOnly, query.Predicate{Field: "ratingsAverage", Op: query.OpGte, Value: 4.5}))
	if err != nil {
		return nil, err
	}

	groups := map[string]*TourStats{}
	sums := map[string][2]float64{}
	for _, t := range tours {
		key := strings.ToUpper(t.Difficulty)
		g, ok := groups[key]
		if !ok {
			g = &TourStats{Difficulty: key, MinPrice: t.Price, MaxPrice: t.Price}
			groups[key] = g
		}
		g.NumTours++
		g.NumRatings += t.RatingsQuantity
		g.MinPrice = math.Min(g.MinPrice, t.Price)
		g.MaxPrice = math.Max(g.MaxPrice, t.Price)
		s := sums[key]
		sums[key] = [2]float64{s[0] + t.RatingsAverage, s[1] + t.Price}
	}

	out := make([]TourStats, 0, len(groups))
	for key, g := range groups {
		n := float64(g.NumTours)
		g.AvgRating = sums[key][0] / n
		g.AvgPrice = sums[key][1] / n
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgPrice != out[j].AvgPrice {
			return out[i].AvgPrice < out[j].AvgPrice
		}
		return out[i].Difficulty < out[j].Difficulty
	})
	return out, nil
}

// MonthPlan counts the tour starts in one month.
type MonthPlan struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"numTourStarts"`
	Tours         []string `json:"tours"`
}

// MonthlyPlan returns, per month of year, how many tours start and which,
// busiest month first.
func (r *Tours) MonthlyPlan(ctx context.Context, year int) ([]MonthPlan, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	tours, err := findAll[models.Tour](ctx, r.col, all(publicOnly))
	if err != nil {
		return nil, err
	}

	months := map[int]*MonthPlan{}
	for _, t := range tours {
		for _, d := range t.StartDates {
			d = d.UTC()
			if d.Before(from) || !d.Before(to) {
				continue
			}
			m := int(d.Month())
			p, ok := months[m]
			if !ok {
				p = &MonthPlan{Month: m}
				months[m] = p
			}
			p.NumTourStarts++
			p.Tours = append(p.Tours, t.Name)
		}
	}

	out := make([]MonthPlan, 0, len(months))
	for _, p := range months {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NumTourStarts != out[j].NumTourStarts {
			return out[i].NumTourStarts > out[j].NumTourStarts
		}
		return out[i].Month < out[j].Month
	})
	if len(out) > 12 {
		out = out[:12]
	}
	return out, nil
}

// Within returns the public tours starting within distance (in unit) of
// center.
func (r *Tours) Within(ctx context.Context, center geo.Point, distance float64, unit geo.Unit) ([]models.Tour, error) {
	tours, err := findAll[models.Tour](ctx, r.col, all(publicOnly))
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(tours, func(t models.Tour) bool {
		start, ok := startPoint(t)
		return !ok || !geo.Within(center, start, distance, unit)
	}), nil
}

// TourDistance is a tour's distance from a point.
type TourDistance struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// Distances returns every public tour with a start location and its
// distance from center in unit, nearest first.
func (r *Tours) Distances(ctx context.Context, center geo.Point, unit geo.Unit) ([]TourDistance, error) {
	tours, err := findAll[models.Tour](ctx, r.col, all(publicOnly))
	if err != nil {
		return nil, err
	}

	out := make([]TourDistance, 0, len(tours))
	for _, t := range tours {
		start, ok := startPoint(t)
		if !ok {
			continue
		}
		out = append(out, TourDistance{
			ID:       t.ID,
			Name:     t.Name,
			Distance: geo.DistanceMeters(center, start) * unit.FromMeters(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

func startPoint(t models.Tour) (geo.Point, bool) {
	if t.StartLocation == nil || len(t.StartLocation.Coordinates) < 2 {
		return geo.Point{}, false
	}
	return geo.Point{Lat: t.StartLocation.Lat(), Lng: t.StartLocation.Lng()}, true
}

func normalizeTour(t *models.Tour) {
	if t.Images == nil {
		t.Images = []string{}
	}
	if t.StartDates == nil {
		t.StartDates = []time.Time{}
	}
	if t.Locations == nil {
		t.Locations = []models.Location{}
	}
	if t.Guides == nil {
		t.Guides = []string{}
	}
	if t.StartLocation != nil && t.StartLocation.Type == "" {
		t.StartLocation.Type = "Point"
	}
}
