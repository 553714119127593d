package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// ReviewHandler handles the review endpoints, standalone and nested under
// a tour.
type ReviewHandler struct {
	reviews *repository.Reviews
	tours   *repository.Tours
	log     *zap.Logger
}

func NewReviewHandler(reviews *repository.Reviews, tours *repository.Tours, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, tours: tours, log: log}
}

// GetAllReviews lists reviews, scoped to the tour when nested
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param tourId path string false "Tour ID when nested under /tours/{tourId}/reviews"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.ReviewResponse}
// @Router /api/v1/reviews [get]
// @Router /api/v1/tours/{tourId}/reviews [get]
func (h *ReviewHandler) GetAllReviews(w http.ResponseWriter, r *http.Request) {
	spec := listSpec(r.URL.Query())
	if tourID := pathID(r, "tourId"); tourID != "" {
		spec = spec.Where(query.Eq("tour", tourID))
	}

	reviews, err := h.reviews.List(r.Context(), spec)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	authored, err := h.reviews.WithAuthors(r.Context(), reviews)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	out := reviewResponses(authored)
	writeProjected(w, h.log, spec, len(out), out)
}

// GetReview returns a review
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.ReviewResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reviews/{id} [get]
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.reviews.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	h.writeReview(w, r, http.StatusOK, rv)
}

// CreateReview adds a review by the logged in user
// @Summary Create a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tourId path string false "Tour ID when nested"
// @Param request body dto.CreateReviewRequest true "Review"
// @Success 201 {object} dto.SuccessResponse{data=dto.ReviewResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Tour already reviewed"
// @Router /api/v1/reviews [post]
// @Router /api/v1/tours/{tourId}/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if tourID := pathID(r, "tourId"); tourID != "" {
		req.Tour = tourID
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if req.Tour == "" {
		utils.WriteError(w, h.log, apperror.Validation("Review must belong to a tour."))
		return
	}
	if _, err := h.tours.Get(r.Context(), req.Tour); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	rv := &models.Review{
		Review: strings.TrimSpace(req.Review),
		Rating: req.Rating,
		Tour:   req.Tour,
		User:   u.ID,
	}
	if err := h.reviews.Create(r.Context(), rv); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, data{"data": dto.ReviewResponse{Review: *rv, User: authorSummary(u)}})
}

// UpdateReview changes a review
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body dto.UpdateReviewRequest true "Fields to update"
// @Success 200 {object} dto.SuccessResponse{data=dto.ReviewResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reviews/{id} [patch]
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	rv, err := h.ownReview(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if req.Review != nil {
		rv.Review = strings.TrimSpace(*req.Review)
	}
	if req.Rating != nil {
		rv.Rating = *req.Rating
	}
	if err := h.reviews.Update(r.Context(), rv); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	h.writeReview(w, r, http.StatusOK, rv)
}

// DeleteReview removes a review
// @Summary Delete a review
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.ownReview(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := h.reviews.Delete(r.Context(), rv.ID); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteNoContent(w)
}

// ownReview loads the review named in the path. Users may only touch their
// own reviews; admins any.
func (h *ReviewHandler) ownReview(r *http.Request) (*models.Review, error) {
	u, err := currentUser(r)
	if err != nil {
		return nil, err
	}
	rv, err := h.reviews.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleAdmin && rv.User != u.ID {
		return nil, apperror.Forbidden("You can only change your own reviews")
	}
	return rv, nil
}

func (h *ReviewHandler) writeReview(w http.ResponseWriter, r *http.Request, status int, rv *models.Review) {
	authored, err := h.reviews.WithAuthors(r.Context(), []models.Review{*rv})
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, status, data{"data": reviewResponses(authored)[0]})
}
