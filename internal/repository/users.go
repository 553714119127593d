package repository

import (
	"context"
	"strings"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// activeOnly hides deactivated accounts. Documents without the field count
// as active.
var activeOnly = query.Ne("active", false)

// Users accesses the users collection.
type Users struct {
	col store.Collection
	now Clock
}

func NewUsers(s store.Store) *Users {
	return &Users{col: s.Collection(store.Users), now: utcNow}
}

// Create stores a new user. The email is lower-cased and the account is
// active; the caller sets the password hash.
func (r *Users) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Photo == "" {
		u.Photo = models.DefaultPhoto
	}
	u.Active = true
	u.CreatedAt = r.now()
	return translate(r.col.Insert(ctx, u), "email")
}

// FindActiveByID returns an active user.
func (r *Users) FindActiveByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, []query.Predicate{byID(id), activeOnly}, &u); err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// FindActiveByEmail returns the active user with the given email.
func (r *Users) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u models.User
	if err := r.col.FindOne(ctx, []query.Predicate{query.Eq("email", email), activeOnly}, &u); err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// FindByResetTokenHash returns the active user holding the hashed reset
// token. Expiry is left to the caller.
func (r *Users) FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	var u models.User
	preds := []query.Predicate{query.Eq("passwordResetToken", hash), activeOnly}
	if err := r.col.FindOne(ctx, preds, &u); err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// ByIDs returns the active users among ids keyed by id.
func (r *Users) ByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	keys := idsOf(ids)
	if len(keys) == 0 {
		return out, nil
	}
	users, err := findAll[models.User](ctx, r.col, all(query.In("_id", keys...), activeOnly))
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// Save overwrites the stored user.
func (r *Users) Save(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(r.col.Replace(ctx, u.ID, u), "user")
}

// Delete removes the user for good.
func (r *Users) Delete(ctx context.Context, id string) error {
	return translate(r.col.Delete(ctx, id), "user")
}

// List runs a client query over active users.
func (r *Users) List(ctx context.Context, spec query.Spec) ([]models.User, error) {
	return list[models.User](ctx, r.col, spec.Where(activeOnly))
}
