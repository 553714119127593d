package middleware

import (
	"context"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
