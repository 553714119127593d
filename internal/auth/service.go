package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// UserStore is the user persistence the account flows need.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindActiveByID(ctx context.Context, id string) (*models.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// Mailer sends the account emails.
type Mailer interface {
	Welcome(ctx context.Context, u *models.User, url string) error
	PasswordReset(ctx context.Context, u *models.User, url string) error
}

// Session is a signed-in user with their token.
type Session struct {
	User  *models.User
	Token string
}

// Service implements the account flows.
type Service struct {
	users    UserStore
	tokens   *Tokens
	mailer   Mailer
	log      *zap.Logger
	resetTTL time.Duration
	now      func() time.Time
}

// NewService creates the account service.
func NewService(users UserStore, tokens *Tokens, mailer Mailer, resetTTL time.Duration, log *zap.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		log:      log,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// SignupInput is a validated signup request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Photo    string
}

// Signup creates an account with the "user" role and signs it in. The
// welcome email is best-effort.
func (s *Service) Signup(ctx context.Context, in SignupInput, accountURL string) (*Session, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Photo:    in.Photo,
		Role:     models.RoleUser,
		Password: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.mailer.Welcome(ctx, u, accountURL); err != nil {
		s.log.Warn("send welcome email", zap.String("user_id", u.ID), zap.Error(err))
	}
	return s.session(u)
}

// Login checks an email and password pair.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperror.Validation("Please provide email and password!")
	}

	u, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.Unauthenticated("Incorrect email or password")
		}
		return nil, err
	}
	if !CheckPassword(u.Password, password) {
		return nil, apperror.Unauthenticated("Incorrect email or password")
	}
	return s.session(u)
}

// ForgotPassword stores a reset token for the user and mails it. resetURL
// builds the link from the plain token. When the email cannot be sent the
// token is dropped again.
func (s *Service) ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error {
	u, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.NotFound("There is no user with that email address.")
		}
		return err
	}

	token, hash, err := NewResetToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.resetTTL).UTC()
	u.PasswordResetToken = hash
	u.PasswordResetExpires = &expires
	if err := s.users.Save(ctx, u); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.PasswordReset(ctx, u, resetURL(token)); err != nil {
		u.ClearPasswordReset()
		if serr := s.users.Save(ctx, u); serr != nil {
			s.log.Error("clear reset token", zap.String("user_id", u.ID), zap.Error(serr))
		}
		return apperror.Internal(err, "There was an error sending the email. Try again later!")
	}
	return nil
}

// ResetPassword sets a new password with a reset token. The token is good
// once and only before it expires.
func (s *Service) ResetPassword(ctx context.Context, token, password string) (*Session, error) {
	invalid := apperror.Validation("Token is invalid or has expired")

	u, err := s.users.FindByResetTokenHash(ctx, HashResetToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if u.PasswordResetExpires == nil || !s.now().Before(*u.PasswordResetExpires) {
		return nil, invalid
	}

	if err := s.setPassword(u, password); err != nil {
		return nil, err
	}
	u.ClearPasswordReset()
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

// UpdatePassword changes the password of a signed-in user after checking
// the current one.
func (s *Service) UpdatePassword(ctx context.Context, userID, current, password string) (*Session, error) {
	u, err := s.users.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.Password, current) {
		return nil, apperror.Unauthenticated("Your current password is incorrect.")
	}

	if err := s.setPassword(u, password); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

// GoogleProfile is the identity returned by Google sign-in.
type GoogleProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
	// Verified is Google's verified_email flag; unverified profiles are
	// rejected.
	Verified bool
}

// LoginWithGoogle signs in the account with the profile's email, creating
// one when none exists.
func (s *Service) LoginWithGoogle(ctx context.Context, p GoogleProfile) (*Session, error) {
	if p.Email == "" {
		return nil, apperror.Validation("Google account has no email address")
	}
	if !p.Verified {
		return nil, apperror.Unauthenticated("Your Google email address is not verified")
	}

	u, err := s.users.FindActiveByEmail(ctx, p.Email)
	switch {
	case err == nil:
		if u.GoogleID == "" {
			u.GoogleID = p.ID
			if err := s.users.Save(ctx, u); err != nil {
				return nil, err
			}
		}
		return s.session(u)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	// Google accounts get an unusable random password.
	random, _, err := NewResetToken()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(random)
	if err != nil {
		return nil, err
	}
	u = &models.User{
		Name:     p.Name,
		Email:    p.Email,
		Photo:    p.Picture,
		Role:     models.RoleUser,
		Password: hash,
		GoogleID: p.ID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *Service) setPassword(u *models.User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	changed := s.now().UTC()
	u.Password = hash
	u.PasswordChangedAt = &changed
	return nil
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}
