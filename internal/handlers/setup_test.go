package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/auth"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/email"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/handlers"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/middleware"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/objstore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/payment"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/routes"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/memstore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/views"
)

const webhookSecret = "whsec_test"

// mailbox records outgoing mail.
type mailbox struct {
	mu   sync.Mutex
	msgs []email.Message
}

func (m *mailbox) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mailbox) last(t *testing.T) email.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.msgs, "no mail sent")
	return m.msgs[len(m.msgs)-1]
}

// fakeStripe answers checkout session requests and keeps the last form.
type fakeStripe struct {
	mu   sync.Mutex
	form url.Values
}

func (s *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
		http.NotFound(w, r)
		return
	}
	_ = r.ParseForm()
	s.mu.Lock()
	s.form = r.PostForm
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`)
}

func (s *fakeStripe) lastForm() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// env is a fully wired application over the in-memory store.
type env struct {
	t        *testing.T
	handler  http.Handler
	users    *repository.Users
	tours    *repository.Tours
	reviews  *repository.Reviews
	bookings *repository.Bookings
	tokens   *auth.Tokens
	mail     *mailbox
	stripe   *fakeStripe
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := zap.NewNop()

	stripe := &fakeStripe{}
	stripeSrv := httptest.NewServer(stripe)
	t.Cleanup(stripeSrv.Close)

	cfg := &config.Config{
		Env: "development",
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			ExpiresIn:     time.Hour,
			CookieExpires: time.Hour,
			ResetTokenTTL: 10 * time.Minute,
		},
		Stripe: config.StripeConfig{
			SecretKey:     "sk_test",
			WebhookSecret: webhookSecret,
			APIBase:       stripeSrv.URL,
			Currency:      "usd",
		},
	}

	s := memstore.New()
	users := repository.NewUsers(s)
	tours := repository.NewTours(s)
	reviews := repository.NewReviews(s, tours, users, log)
	bookings := repository.NewBookings(s)

	mail := &mailbox{}
	mailer, err := email.NewMailer(mail)
	require.NoError(t, err)
	tokens := auth.NewTokens(cfg.JWT)
	svc := auth.NewService(users, tokens, mailer, cfg.JWT.ResetTokenTTL, log)

	bucket, err := objstore.NewLocal(t.TempDir())
	require.NoError(t, err)
	renderer, err := views.New()
	require.NoError(t, err)

	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(svc, cfg, log),
		Health:   handlers.NewHealthHandler(s),
		Users:    handlers.NewUserHandler(users, bucket, log),
		Tours:    handlers.NewTourHandler(tours, reviews, users, bucket, log),
		Reviews:  handlers.NewReviewHandler(reviews, tours, log),
		Bookings: handlers.NewBookingHandler(bookings, tours, users, payment.New(cfg.Stripe, log), log),
		Images:   handlers.NewImageHandler(bucket, log),
		Views:    handlers.NewViewHandler(renderer, tours, reviews, users, bookings, log),
	}
	opts := routes.Options{
		Guard:        middleware.NewGuard(tokens, users, log),
		MaxBodyBytes: 10 * 1024,
		Log:          log,
	}

	return &env{
		t:        t,
		handler:  routes.SetupRoutes(h, opts),
		users:    users,
		tours:    tours,
		reviews:  reviews,
		bookings: bookings,
		tokens:   tokens,
		mail:     mail,
		stripe:   stripe,
	}
}

// request builds a request with an optional JSON body and bearer token.
func request(method, target string, body any, token string) *http.Request {
	var rdr io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rdr = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, target, rdr)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func (e *env) serve(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

func (e *env) do(method, target string, body any, token string) *httptest.ResponseRecorder {
	return e.serve(request(method, target, body, token))
}

// user stores an active user and returns it with a session token.
func (e *env) user(role models.Role, emailAddr string) (*models.User, string) {
	e.t.Helper()
	u := &models.User{
		Name:     "Test " + strings.Split(emailAddr, "@")[0],
		Email:    emailAddr,
		Role:     role,
		Password: "not-a-real-hash",
	}
	require.NoError(e.t, e.users.Create(context.Background(), u))
	token, err := e.tokens.Generate(u.ID)
	require.NoError(e.t, err)
	return u, token
}

// tour stores a public tour.
func (e *env) tour(name string, price float64, edit ...func(*models.Tour)) *models.Tour {
	e.t.Helper()
	t := &models.Tour{
		Name:         name,
		Duration:     5,
		MaxGroupSize: 10,
		Difficulty:   models.DifficultyEasy,
		Price:        price,
		Summary:      "A summary of " + name,
		ImageCover:   "tour-cover.jpg",
	}
	for _, fn := range edit {
		fn(t)
	}
	require.NoError(e.t, e.tours.Create(context.Background(), t))
	return t
}

// body decodes a JSON response.
func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// dataList returns data.data of a list response.
func dataList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	data, ok := body(t, rec)["data"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	list, ok := data["data"].([]any)
	require.True(t, ok, rec.Body.String())
	return list
}

// dataObject returns data.<key> of a response.
func dataObject(t *testing.T, rec *httptest.ResponseRecorder, key string) map[string]any {
	t.Helper()
	data, ok := body(t, rec)["data"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	obj, ok := data[key].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return obj
}

func assertFail(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	b := body(t, rec)
	want := "fail"
	if status >= 500 {
		want = "error"
	}
	require.Equal(t, want, b["status"])
	require.Equal(t, message, b["message"])
}
