package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/auth"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// CookieName is the cookie carrying the session token.
const CookieName = "jwt"

const (
	MsgNotLoggedIn     = "You are not logged in! Please log in to get access."
	MsgInvalidToken    = "Invalid token. Please log in again!"
	MsgExpiredToken    = "Your token has expired! Please log in again."
	MsgUserGone        = "The user belonging to this token no longer exists."
	MsgPasswordChanged = "User recently changed password! Please log in again."
	MsgForbidden       = "You do not have permission to perform this action"
)

// UserFinder loads the principal named by a token.
type UserFinder interface {
	FindActiveByID(ctx context.Context, id string) (*models.User, error)
}

// RejectFunc answers a request the guard turned away.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// Guard authenticates requests from their session token.
type Guard struct {
	tokens *auth.Tokens
	users  UserFinder
	log    *zap.Logger
}

func NewGuard(tokens *auth.Tokens, users UserFinder, log *zap.Logger) *Guard {
	return &Guard{tokens: tokens, users: users, log: log}
}

// Authenticate runs the credential checks in order: a token must be present,
// carry a valid signature and expiry, name an active user, and predate that
// user's last password change. The first failing check decides the error.
func (g *Guard) Authenticate(r *http.Request) (*models.User, error) {
	token := extractToken(r)
	if token == "" {
		return nil, apperror.Unauthenticated(MsgNotLoggedIn)
	}

	claims, err := g.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperror.Unauthenticated(MsgExpiredToken).Wrap(err)
		}
		return nil, apperror.Unauthenticated(MsgInvalidToken).Wrap(err)
	}

	u, err := g.users.FindActiveByID(r.Context(), claims.UserID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.Unauthenticated(MsgUserGone).Wrap(err)
		}
		return nil, err
	}

	if u.ChangedPasswordAfter(claims.IssuedAtTime()) {
		return nil, apperror.Unauthenticated(MsgPasswordChanged)
	}
	return u, nil
}

// Protect rejects unauthenticated requests with a JSON error and attaches
// the user to the context of the others.
func (g *Guard) Protect(next http.Handler) http.Handler {
	return g.Require(func(w http.ResponseWriter, _ *http.Request, err error) {
		utils.WriteError(w, g.log, err)
	})(next)
}

// Require is Protect with a custom rejection, e.g. an HTML error page.
func (g *Guard) Require(reject RejectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := g.Authenticate(r)
			if err != nil {
				reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// IsLoggedIn attaches the user when the request is authenticated and lets
// every request through.
func (g *Guard) IsLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := g.Authenticate(r)
		if err != nil {
			if !apperror.Is(err, apperror.KindUnauthenticated) {
				g.log.Warn("soft authentication failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RestrictTo lets through users holding one of roles. It runs after Protect.
func RestrictTo(log *zap.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				utils.WriteError(w, log, apperror.Unauthenticated(MsgNotLoggedIn))
				return
			}
			if !slices.Contains(roles, u.Role) {
				utils.WriteError(w, log, apperror.Forbidden(MsgForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads a Bearer token, falling back to the session cookie.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
