// Package seed loads fixture files into the store and clears it again.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/auth"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// Fixtures is the data set read from a fixture directory.
type Fixtures struct {
	Tours   []models.Tour
	Users   []models.User
	Reviews []models.Review
}

var extensions = []string{".json", ".yaml", ".yml"}

// Load reads tours, users and reviews from dir. Each set is read from the
// first of <name>.json, <name>.yaml or <name>.yml present; missing sets are
// left empty.
func Load(dir string) (*Fixtures, error) {
	var f Fixtures
	sets := []struct {
		name string
		dst  any
	}{
		{"tours", &f.Tours},
		{"users", &f.Users},
		{"reviews", &f.Reviews},
	}
	for _, s := range sets {
		if err := loadSet(dir, s.name, s.dst); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func loadSet(dir, name string, dst any) error {
	for _, ext := range extensions {
		path := filepath.Join(dir, name+ext)
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := decode(raw, dst, name == "tours"); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// Decode parses JSON or YAML into dst using dst's json field names.
func Decode(raw []byte, dst any) error {
	return decode(raw, dst, false)
}

func decode(raw []byte, dst any, tours bool) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if tours {
		normalizeStartDates(doc)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// legacyDateLayout is the "2021-04-25,10:00" form used by older fixtures.
const legacyDateLayout = "2006-01-02,15:04"

// normalizeStartDates rewrites legacy start dates to RFC 3339 in place.
func normalizeStartDates(doc any) {
	list, _ := doc.([]any)
	for _, item := range list {
		tour, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dates, _ := tour["startDates"].([]any)
		for i, d := range dates {
			s, ok := d.(string)
			if !ok {
				continue
			}
			if t, err := time.Parse(legacyDateLayout, s); err == nil {
				dates[i] = t.UTC().Format(time.RFC3339)
			}
		}
	}
}

// Importer writes fixtures through the repositories.
type Importer struct {
	store   store.Store
	users   *repository.Users
	tours   *repository.Tours
	reviews *repository.Reviews
	log     *zap.Logger
}

func NewImporter(s store.Store, log *zap.Logger) *Importer {
	users := repository.NewUsers(s)
	tours := repository.NewTours(s)
	return &Importer{
		store:   s,
		users:   users,
		tours:   tours,
		reviews: repository.NewReviews(s, tours, users, log),
		log:     log,
	}
}

// Import stores users, then tours, then reviews. Plain text passwords are
// hashed; bcrypt hashes are kept as given. Creating each review refreshes
// its tour's ratings.
func (im *Importer) Import(ctx context.Context, f *Fixtures) error {
	for i := range f.Users {
		u := &f.Users[i]
		if u.Password != "" && !strings.HasPrefix(u.Password, "$2") {
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			u.Password = hash
		}
		if err := im.users.Create(ctx, u); err != nil {
			return fmt.Errorf("import user %s: %w", u.Email, err)
		}
	}
	for i := range f.Tours {
		if err := im.tours.Create(ctx, &f.Tours[i]); err != nil {
			return fmt.Errorf("import tour %q: %w", f.Tours[i].Name, err)
		}
	}
	for i := range f.Reviews {
		if err := im.reviews.Create(ctx, &f.Reviews[i]); err != nil {
			return fmt.Errorf("import review %s: %w", f.Reviews[i].ID, err)
		}
	}
	im.log.Info("data successfully loaded",
		zap.Int("users", len(f.Users)),
		zap.Int("tours", len(f.Tours)),
		zap.Int("reviews", len(f.Reviews)))
	return nil
}

// Delete removes every document from all collections.
func (im *Importer) Delete(ctx context.Context) error {
	for _, name := range []string{store.Reviews, store.Bookings, store.Tours, store.Users} {
		n, err := im.store.Collection(name).DeleteMany(ctx, nil)
		if err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		im.log.Info("collection cleared", zap.String("collection", name), zap.Int64("deleted", n))
	}
	return nil
}
