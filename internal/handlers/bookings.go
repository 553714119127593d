package handlers

import (
	"errors"
	"io"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/payment"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// maxWebhookBytes caps a Stripe event payload.
const maxWebhookBytes = 64 << 10

// BookingHandler handles checkout and the booking endpoints.
type BookingHandler struct {
	bookings *repository.Bookings
	tours    *repository.Tours
	users    *repository.Users
	payments *payment.Client
	log      *zap.Logger
}

func NewBookingHandler(bookings *repository.Bookings, tours *repository.Tours, users *repository.Users, payments *payment.Client, log *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, tours: tours, users: users, payments: payments, log: log}
}

// GetCheckoutSession starts a Stripe checkout for a tour
// @Summary Create a checkout session
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param tourId path string true "Tour ID"
// @Success 200 {object} dto.CheckoutSessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/bookings/checkout-session/{tourId} [get]
func (h *BookingHandler) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	t, err := h.tours.Get(r.Context(), pathID(r, "tourId"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	base := baseURL(r)
	sess, err := h.payments.CreateCheckoutSession(r.Context(), payment.CheckoutParams{
		SuccessURL:        base + "/my-tours?alert=booking",
		CancelURL:         base + "/tour/" + t.Slug,
		CustomerEmail:     u.Email,
		ClientReferenceID: t.ID,
		Name:              t.Name + " Tour",
		Description:       t.Summary,
		Images:            []string{base + "/img/tours/" + t.ImageCover},
		Amount:            int64(math.Round(t.Price * 100)),
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			err = apperror.Internal(err, "Payments are not available right now. Try again later!")
		}
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.CheckoutSessionResponse{
		Status:  "success",
		Session: dto.CheckoutSession{ID: sess.ID, URL: sess.URL},
	})
}

// Webhook records the booking of a completed checkout
// @Summary Stripe webhook
// @Tags bookings
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/bookings/webhook [post]
func (h *BookingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		utils.WriteError(w, h.log, apperror.Validation("Webhook error: %v", err))
		return
	}

	event, err := h.payments.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		utils.WriteError(w, h.log, apperror.Validation("Webhook error: %v", err))
		return
	}

	if event.Type == payment.EventCheckoutCompleted {
		sess, err := event.Session()
		if err != nil {
			utils.WriteError(w, h.log, apperror.Validation("Webhook error: %v", err))
			return
		}
		if err := h.bookCheckout(r, sess); err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]bool{"received": true})
}

// bookCheckout creates the booking of a paid session once.
func (h *BookingHandler) bookCheckout(r *http.Request, sess *payment.Session) error {
	if _, err := h.bookings.FindBySession(r.Context(), sess.ID); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	u, err := h.users.FindActiveByEmail(r.Context(), sess.CustomerEmail)
	if err != nil {
		return err
	}
	b := &models.Booking{
		Tour:      sess.ClientReferenceID,
		User:      u.ID,
		Price:     float64(sess.AmountTotal) / 100,
		Paid:      true,
		SessionID: sess.ID,
	}
	if err := h.bookings.Create(r.Context(), b); err != nil {
		return err
	}
	h.log.Info("booking created from checkout",
		zap.String("booking_id", b.ID),
		zap.String("session_id", sess.ID),
	)
	return nil
}

// GetAllBookings lists bookings
// @Summary List bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=[]models.Booking}
// @Router /api/v1/bookings [get]
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	spec := listSpec(r.URL.Query())
	bookings, err := h.bookings.List(r.Context(), spec)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	writeProjected(w, h.log, spec, len(bookings), bookings)
}

// GetBooking returns a booking
// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.SuccessResponse{data=models.Booking}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": b})
}

// CreateBooking records a booking by hand
// @Summary Create a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Booking"
// @Success 201 {object} dto.SuccessResponse{data=models.Booking}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	b := &models.Booking{Tour: req.Tour, User: req.User, Price: req.Price, Paid: true}
	if req.Paid != nil {
		b.Paid = *req.Paid
	}
	if err := h.bookings.Create(r.Context(), b); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, data{"data": b})
}

// UpdateBooking changes a booking
// @Summary Update a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Fields to update"
// @Success 200 {object} dto.SuccessResponse{data=models.Booking}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/bookings/{id} [patch]
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBookingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	b, err := h.bookings.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if req.Price != nil {
		b.Price = *req.Price
	}
	if req.Paid != nil {
		b.Paid = *req.Paid
	}
	if err := h.bookings.Update(r.Context(), b); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": b})
}

// DeleteBooking removes a booking
// @Summary Delete a booking
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Delete(r.Context(), pathID(r, "id")); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteNoContent(w)
}
