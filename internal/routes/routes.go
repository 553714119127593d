// Package routes wires the handlers into the HTTP router.
package routes

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/handlers"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/middleware"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/ratelimit"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Google   *handlers.GoogleAuthHandler
	Health   *handlers.HealthHandler
	Users    *handlers.UserHandler
	Tours    *handlers.TourHandler
	Reviews  *handlers.ReviewHandler
	Bookings *handlers.BookingHandler
	Images   *handlers.ImageHandler
	Views    *handlers.ViewHandler
}

// Options configures the middleware around the handlers.
type Options struct {
	Guard *middleware.Guard

	// Limiter limits /api requests per client IP; nil disables it.
	Limiter ratelimit.Limiter

	// IPs resolves client addresses; nil trusts no proxy.
	IPs *middleware.IPResolver

	Metrics *middleware.Metrics

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	MaxBodyBytes   int64
	Log            *zap.Logger
}

type mw = func(http.Handler) http.Handler

// chain wraps h in mws, the first being the outermost.
func chain(h http.HandlerFunc, mws ...mw) http.Handler {
	var out http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, o Options) http.Handler {
	log := o.Log
	protect := o.Guard.Protect
	restrictTo := func(roles ...models.Role) mw { return middleware.RestrictTo(log, roles...) }
	admin := restrictTo(models.RoleAdmin)
	staff := restrictTo(models.RoleAdmin, models.RoleLeadGuide)

	r := mux.NewRouter()
	if o.Metrics != nil {
		r.Use(o.Metrics.Middleware)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		err := apperror.NotFound("Can't find %s on this server!", req.URL.Path)
		if strings.HasPrefix(req.URL.Path, "/api") || h.Views == nil {
			utils.WriteError(w, log, err)
			return
		}
		h.Views.RenderError(w, req, err)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		utils.WriteJSONResponse(w, http.StatusMethodNotAllowed, map[string]string{
			"status":  "fail",
			"message": "Method not allowed",
		})
	})

	// Health check routes
	r.HandleFunc("/healthz", h.Health.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.Health.LivenessCheck).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Health.ReadinessCheck).Methods(http.MethodGet)
	if o.MetricsHandler != nil {
		r.Handle("/metrics", o.MetricsHandler).Methods(http.MethodGet)
	}
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	r.HandleFunc("/img/{folder:users|tours}/{name}", h.Images.ServeImage).Methods(http.MethodGet)

	// Stripe posts raw events that may exceed the JSON body limit.
	r.HandleFunc("/api/v1/bookings/webhook", h.Bookings.Webhook).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	if o.Limiter != nil {
		api.Use(middleware.RateLimit(o.Limiter, o.IPs, log))
	}
	api.Use(middleware.BodyLimit(o.MaxBodyBytes, handlers.MaxUploadBytes))
	v1 := api.PathPrefix("/v1").Subrouter()

	// Tours
	v1.Handle("/tours/top-5-tours", handlers.AliasTopTours(http.HandlerFunc(h.Tours.GetAllTours))).Methods(http.MethodGet)
	v1.HandleFunc("/tours/tour-stats", h.Tours.GetTourStats).Methods(http.MethodGet)
	v1.Handle("/tours/monthly-plans/{year}", chain(h.Tours.GetMonthlyPlan, protect,
		restrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide))).Methods(http.MethodGet)
	v1.HandleFunc("/tours/tours-within/{distance}/center/{latlng}/unit/{unit}", h.Tours.GetToursWithin).Methods(http.MethodGet)
	v1.HandleFunc("/tours/distances/{latlng}/unit/{unit}", h.Tours.GetDistances).Methods(http.MethodGet)
	v1.HandleFunc("/tours", h.Tours.GetAllTours).Methods(http.MethodGet)
	v1.Handle("/tours", chain(h.Tours.CreateTour, protect, staff)).Methods(http.MethodPost)
	v1.HandleFunc("/tours/{id}", h.Tours.GetTour).Methods(http.MethodGet)
	v1.Handle("/tours/{id}", chain(h.Tours.UpdateTour, protect, staff)).Methods(http.MethodPatch)
	v1.Handle("/tours/{id}", chain(h.Tours.DeleteTour, protect, staff)).Methods(http.MethodDelete)

	// Reviews, standalone and nested under a tour
	for _, prefix := range []string{"/reviews", "/tours/{tourId}/reviews"} {
		v1.Handle(prefix, chain(h.Reviews.GetAllReviews, protect)).Methods(http.MethodGet)
		v1.Handle(prefix, chain(h.Reviews.CreateReview, protect, restrictTo(models.RoleUser))).Methods(http.MethodPost)
	}
	v1.Handle("/reviews/{id}", chain(h.Reviews.GetReview, protect)).Methods(http.MethodGet)
	v1.Handle("/reviews/{id}", chain(h.Reviews.UpdateReview, protect, restrictTo(models.RoleUser, models.RoleAdmin))).Methods(http.MethodPatch)
	v1.Handle("/reviews/{id}", chain(h.Reviews.DeleteReview, protect, restrictTo(models.RoleUser, models.RoleAdmin))).Methods(http.MethodDelete)

	// Users
	v1.HandleFunc("/users/signup", h.Auth.Signup).Methods(http.MethodPost)
	v1.HandleFunc("/users/login", h.Auth.Login).Methods(http.MethodPost)
	v1.HandleFunc("/users/logout", h.Auth.Logout).Methods(http.MethodGet)
	v1.HandleFunc("/users/forgotPassword", h.Auth.ForgotPassword).Methods(http.MethodPost)
	v1.HandleFunc("/users/resetPassword/{token}", h.Auth.ResetPassword).Methods(http.MethodPatch)
	v1.Handle("/users/updateMyPassword", chain(h.Auth.UpdatePassword, protect)).Methods(http.MethodPatch)
	v1.Handle("/users/me", chain(h.Users.GetMe, protect)).Methods(http.MethodGet)
	v1.Handle("/users/updateMe", chain(h.Users.UpdateMe, protect)).Methods(http.MethodPatch)
	v1.Handle("/users/deleteMe", chain(h.Users.DeleteMe, protect)).Methods(http.MethodDelete)
	v1.Handle("/users", chain(h.Users.GetAllUsers, protect, admin)).Methods(http.MethodGet)
	v1.Handle("/users", chain(h.Users.CreateUser, protect, admin)).Methods(http.MethodPost)
	v1.Handle("/users/{id}", chain(h.Users.GetUser, protect, admin)).Methods(http.MethodGet)
	v1.Handle("/users/{id}", chain(h.Users.UpdateUser, protect, admin)).Methods(http.MethodPatch)
	v1.Handle("/users/{id}", chain(h.Users.DeleteUser, protect, admin)).Methods(http.MethodDelete)

	// Bookings
	v1.Handle("/bookings/checkout-session/{tourId}", chain(h.Bookings.GetCheckoutSession, protect)).Methods(http.MethodGet)
	v1.Handle("/bookings", chain(h.Bookings.GetAllBookings, protect, staff)).Methods(http.MethodGet)
	v1.Handle("/bookings", chain(h.Bookings.CreateBooking, protect, staff)).Methods(http.MethodPost)
	v1.Handle("/bookings/{id}", chain(h.Bookings.GetBooking, protect, staff)).Methods(http.MethodGet)
	v1.Handle("/bookings/{id}", chain(h.Bookings.UpdateBooking, protect, staff)).Methods(http.MethodPatch)
	v1.Handle("/bookings/{id}", chain(h.Bookings.DeleteBooking, protect, staff)).Methods(http.MethodDelete)

	// Google OAuth
	if h.Google != nil {
		v1.HandleFunc("/auth/google/login", h.Google.GoogleLogin).Methods(http.MethodGet)
		v1.HandleFunc("/auth/google/callback", h.Google.GoogleCallback).Methods(http.MethodGet)
	}

	// Views
	if h.Views != nil {
		soft := o.Guard.IsLoggedIn
		requireView := o.Guard.Require(h.Views.RenderError)
		r.Handle("/", chain(h.Views.Overview, soft)).Methods(http.MethodGet)
		r.Handle("/tour/{slug}", chain(h.Views.Tour, soft)).Methods(http.MethodGet)
		r.Handle("/login", chain(h.Views.Login, soft)).Methods(http.MethodGet)
		r.Handle("/signup", chain(h.Views.Signup, soft)).Methods(http.MethodGet)
		r.Handle("/me", chain(h.Views.Account, requireView)).Methods(http.MethodGet)
		r.Handle("/my-tours", chain(h.Views.MyTours, requireView)).Methods(http.MethodGet)
	}

	return chain(r.ServeHTTP,
		middleware.RequestID,
		middleware.Recoverer(log),
		middleware.Logger(log, o.IPs),
		middleware.SecureHeaders,
	)
}
