package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/memstore"
)

type fakeMailer struct {
	mu      sync.Mutex
	fail    error
	welcome []string
	resets  []string
}

func (m *fakeMailer) Welcome(_ context.Context, u *models.User, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcome = append(m.welcome, u.Email+" "+url)
	return m.fail
}

func (m *fakeMailer) PasswordReset(_ context.Context, _ *models.User, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.resets = append(m.resets, url)
	return nil
}

func newService(t *testing.T) (*Service, *repository.Users, *fakeMailer) {
	t.Helper()
	users := repository.NewUsers(memstore.New())
	mailer := &fakeMailer{}
	svc := NewService(users, testTokens(time.Now()), mailer, 10*time.Minute, zap.NewNop())
	return svc, users, mailer
}

func signup(t *testing.T, svc *Service) *Session {
	t.Helper()
	sess, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Jonas Schmedtmann",
		Email:    "jonas@example.com",
		Password: "pass1234",
	}, "http://localhost/me")
	require.NoError(t, err)
	return sess
}

func TestService_SignupAndLogin(t *testing.T) {
	t.Parallel()
	svc, _, mailer := newService(t)
	ctx := context.Background()

	sess := signup(t, svc)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, models.RoleUser, sess.User.Role)
	assert.NotEqual(t, "pass1234", sess.User.Password)
	assert.Equal(t, []string{"jonas@example.com http://localhost/me"}, mailer.welcome)

	got, err := svc.Login(ctx, "jonas@example.com", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, got.User.ID)

	_, err = svc.Login(ctx, "jonas@example.com", "wrong-password")
	assertAppError(t, err, apperror.KindUnauthenticated, "Incorrect email or password")

	_, err = svc.Login(ctx, "nobody@example.com", "pass1234")
	assertAppError(t, err, apperror.KindUnauthenticated, "Incorrect email or password")

	_, err = svc.Login(ctx, "", "pass1234")
	assertAppError(t, err, apperror.KindValidation, "Please provide email and password!")
}

func TestService_SignupSurvivesWelcomeFailure(t *testing.T) {
	t.Parallel()
	svc, users, mailer := newService(t)
	mailer.fail = errors.New("smtp down")

	sess := signup(t, svc)
	_, err := users.FindActiveByID(context.Background(), sess.User.ID)
	assert.NoError(t, err)
}

func TestService_ForgotAndResetPassword(t *testing.T) {
	t.Parallel()
	svc, users, mailer := newService(t)
	ctx := context.Background()
	sess := signup(t, svc)

	var plain string
	require.NoError(t, svc.ForgotPassword(ctx, "jonas@example.com", func(token string) string {
		plain = token
		return "http://localhost/api/v1/users/resetPassword/" + token
	}))
	require.Len(t, mailer.resets, 1)

	stored, err := users.FindActiveByID(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, HashResetToken(plain), stored.PasswordResetToken)
	require.NotNil(t, stored.PasswordResetExpires)

	reset, err := svc.ResetPassword(ctx, plain, "newpass123")
	require.NoError(t, err)
	assert.NotEmpty(t, reset.Token)
	assert.NotNil(t, reset.User.PasswordChangedAt)
	assert.Empty(t, reset.User.PasswordResetToken)

	_, err = svc.Login(ctx, "jonas@example.com", "newpass123")
	require.NoError(t, err)

	// A token works once.
	_, err = svc.ResetPassword(ctx, plain, "another123")
	assertAppError(t, err, apperror.KindValidation, "Token is invalid or has expired")
}

func TestService_ResetTokenExpires(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()
	signup(t, svc)

	var plain string
	require.NoError(t, svc.ForgotPassword(ctx, "jonas@example.com", func(token string) string {
		plain = token
		return token
	}))

	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	_, err := svc.ResetPassword(ctx, plain, "newpass123")
	assertAppError(t, err, apperror.KindValidation, "Token is invalid or has expired")
}

func TestService_ForgotPasswordMailFailureClearsToken(t *testing.T) {
	t.Parallel()
	svc, users, mailer := newService(t)
	ctx := context.Background()
	sess := signup(t, svc)
	mailer.fail = errors.New("smtp down")

	err := svc.ForgotPassword(ctx, "jonas@example.com", func(token string) string { return token })
	assertAppError(t, err, apperror.KindInternal, "There was an error sending the email. Try again later!")

	stored, err := users.FindActiveByID(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpires)
}

func TestService_ForgotPasswordUnknownEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com", func(token string) string { return token })
	assertAppError(t, err, apperror.KindNotFound, "There is no user with that email address.")
}

func TestService_UpdatePassword(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()
	sess := signup(t, svc)

	_, err := svc.UpdatePassword(ctx, sess.User.ID, "wrong-password", "newpass123")
	assertAppError(t, err, apperror.KindUnauthenticated, "Your current password is incorrect.")

	updated, err := svc.UpdatePassword(ctx, sess.User.ID, "pass1234", "newpass123")
	require.NoError(t, err)
	assert.NotNil(t, updated.User.PasswordChangedAt)

	_, err = svc.Login(ctx, "jonas@example.com", "newpass123")
	assert.NoError(t, err)
}

func TestService_LoginWithGoogle(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()
	profile := GoogleProfile{ID: "g-1", Email: "kate@example.com", Name: "Kate Morrison", Picture: "https://example.com/kate.jpg", Verified: true}

	first, err := svc.LoginWithGoogle(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "g-1", first.User.GoogleID)

	second, err := svc.LoginWithGoogle(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	// An existing password account is linked, not duplicated.
	sess := signup(t, svc)
	linked, err := svc.LoginWithGoogle(ctx, GoogleProfile{ID: "g-2", Email: "jonas@example.com", Name: "Jonas", Verified: true})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, linked.User.ID)
	assert.Equal(t, "g-2", linked.User.GoogleID)
}

func TestService_LoginWithGoogleRejectsUnverifiedEmail(t *testing.T) {
	t.Parallel()
	svc, users, _ := newService(t)
	ctx := context.Background()
	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Password: "not-a-real-hash"}
	require.NoError(t, users.Create(ctx, admin))

	_, err := svc.LoginWithGoogle(ctx, GoogleProfile{ID: "g-9", Email: "admin@example.com", Name: "Mallory"})
	assertAppError(t, err, apperror.KindUnauthenticated, "Your Google email address is not verified")

	stored, err := users.FindActiveByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.GoogleID)

	// No account is created for an unknown unverified address either.
	_, err = svc.LoginWithGoogle(ctx, GoogleProfile{ID: "g-10", Email: "new@example.com", Name: "New"})
	require.Error(t, err)
	_, err = users.FindActiveByEmail(ctx, "new@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func assertAppError(t *testing.T, err error, kind apperror.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	e, ok := apperror.As(err)
	require.True(t, ok, "not an operational error: %v", err)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, msg, e.Message)
}
