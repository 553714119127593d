package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/middleware"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/views"
)

// Alert shown after a successful checkout.
const bookingAlert = "Your booking was successful! Please check your email for a confirmation. If your booking doesn't show up here immediately, please come back later."

// ViewHandler renders the site.
type ViewHandler struct {
	renderer *views.Renderer
	tours    *repository.Tours
	reviews  *repository.Reviews
	users    *repository.Users
	bookings *repository.Bookings
	log      *zap.Logger
}

func NewViewHandler(renderer *views.Renderer, tours *repository.Tours, reviews *repository.Reviews, users *repository.Users, bookings *repository.Bookings, log *zap.Logger) *ViewHandler {
	return &ViewHandler{renderer: renderer, tours: tours, reviews: reviews, users: users, bookings: bookings, log: log}
}

func (h *ViewHandler) page(r *http.Request, title string) views.Page {
	p := views.Page{Title: title}
	if u, ok := middleware.UserFromContext(r.Context()); ok {
		p.User = u
	}
	if r.URL.Query().Get("alert") == "booking" {
		p.Alert = bookingAlert
	}
	return p
}

func (h *ViewHandler) render(w http.ResponseWriter, r *http.Request, name string, p views.Page) {
	if err := h.renderer.Render(w, http.StatusOK, name, p); err != nil {
		h.RenderError(w, r, err)
	}
}

// RenderError renders the error page for err. Messages of operational
// errors are shown; anything else is logged.
func (h *ViewHandler) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Please try again later."
	if e, ok := apperror.As(err); ok {
		status, msg = e.Status(), e.Message
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("render page", zap.String("path", r.URL.Path), zap.Error(err))
	}

	p := h.page(r, "Something went wrong!")
	p.Msg = msg
	if rerr := h.renderer.Render(w, status, views.Error, p); rerr != nil {
		h.log.Error("render error page", zap.Error(rerr))
		http.Error(w, msg, status)
	}
}

// Overview lists every tour.
func (h *ViewHandler) Overview(w http.ResponseWriter, r *http.Request) {
	tours, err := h.tours.List(r.Context(), query.New(nil).Sort())
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	p := h.page(r, "All Tours")
	p.Tours = tours
	h.render(w, r, views.Overview, p)
}

// Tour shows one tour by slug.
func (h *ViewHandler) Tour(w http.ResponseWriter, r *http.Request) {
	t, err := h.tours.GetBySlug(r.Context(), pathID(r, "slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = apperror.NotFound("There is no tour with that name.")
		}
		h.RenderError(w, r, err)
		return
	}

	resp, err := populateTour(r.Context(), t, h.users, h.reviews)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	guides, _ := resp.Guides.([]dto.UserSummary)

	p := h.page(r, t.Name)
	p.Tour = &views.TourDetail{Tour: *t, Guides: guides, Reviews: resp.Reviews}
	h.render(w, r, views.Tour, p)
}

func (h *ViewHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.Login, h.page(r, "Log into your account"))
}

func (h *ViewHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.Signup, h.page(r, "Create your account"))
}

// Account shows the settings of the logged in user.
func (h *ViewHandler) Account(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.Account, h.page(r, "Your account"))
}

// MyTours lists the tours the logged in user booked. A request carrying
// tour, user and price records that booking first and redirects to the
// clean URL.
func (h *ViewHandler) MyTours(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	q := r.URL.Query()
	if tour, user, price := q.Get("tour"), q.Get("user"), q.Get("price"); tour != "" && user != "" && price != "" {
		if err := h.bookFromQuery(r, u, tour, user, price); err != nil {
			h.RenderError(w, r, err)
			return
		}
		http.Redirect(w, r, "/my-tours", http.StatusFound)
		return
	}

	bookings, err := h.bookings.ByUser(r.Context(), u.ID)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.Tour)
	}
	tours, err := h.tours.ByIDs(r.Context(), ids)
	if err != nil {
		h.RenderError(w, r, err)
		return
	}

	p := h.page(r, "My Tours")
	p.Tours = tours
	h.render(w, r, views.Overview, p)
}

func (h *ViewHandler) bookFromQuery(r *http.Request, u *models.User, tour, user, price string) error {
	if user != u.ID {
		return apperror.Forbidden(middleware.MsgForbidden)
	}
	amount, err := strconv.ParseFloat(price, 64)
	if err != nil || amount <= 0 {
		return apperror.Validation("Invalid booking price")
	}
	if _, err := h.tours.Get(r.Context(), tour); err != nil {
		return err
	}
	return h.bookings.Create(r.Context(), &models.Booking{Tour: tour, User: user, Price: amount, Paid: true})
}
