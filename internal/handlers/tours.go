package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/geo"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/imaging"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/objstore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// maxTourImages is the number of gallery images a tour holds.
const maxTourImages = 3

// TourHandler handles the tour endpoints.
type TourHandler struct {
	tours   *repository.Tours
	reviews *repository.Reviews
	users   *repository.Users
	bucket  objstore.Bucket
	log     *zap.Logger
	now     func() time.Time
}

func NewTourHandler(tours *repository.Tours, reviews *repository.Reviews, users *repository.Users, bucket objstore.Bucket, log *zap.Logger) *TourHandler {
	return &TourHandler{tours: tours, reviews: reviews, users: users, bucket: bucket, log: log, now: time.Now}
}

// AliasTopTours presets the query of the five best rated, cheapest tours.
func AliasTopTours(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("limit", "5")
		q.Set("sort", "-ratingsAverage,price")
		q.Set("fields", "name,price,ratingsAverage,summary,difficulty")

		r2 := r.Clone(r.Context())
		u := *r.URL
		u.RawQuery = q.Encode()
		r2.URL = &u
		next.ServeHTTP(w, r2)
	})
}

// GetAllTours lists tours
// @Summary List tours
// @Description Filter with field=value or field[gte|gt|lte|lt]=value; sort, fields, page and limit control the result
// @Tags tours
// @Produce json
// @Param sort query string false "Comma separated sort fields, - for descending"
// @Param fields query string false "Comma separated fields to include, or -field to exclude"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.TourResponse}
// @Failure 404 {object} dto.ErrorResponse "This page does not exist"
// @Router /api/v1/tours [get]
func (h *TourHandler) GetAllTours(w http.ResponseWriter, r *http.Request) {
	spec := listSpec(r.URL.Query())
	tours, err := h.tours.List(r.Context(), spec)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	out := make([]dto.TourResponse, 0, len(tours))
	for i := range tours {
		out = append(out, dto.NewTourResponse(&tours[i]))
	}
	writeProjected(w, h.log, spec, len(out), out)
}

// GetTour returns a tour with its guides and reviews
// @Summary Get a tour
// @Tags tours
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.TourResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/tours/{id} [get]
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	t, err := h.tours.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	resp, err := populateTour(r.Context(), t, h.users, h.reviews)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": resp})
}

// CreateTour adds a tour
// @Summary Create a tour
// @Tags tours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTourRequest true "Tour"
// @Success 201 {object} dto.SuccessResponse{data=dto.TourResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Duplicate tour name"
// @Router /api/v1/tours [post]
func (h *TourHandler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTourRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	t := &models.Tour{
		Name:          req.Name,
		Duration:      req.Duration,
		MaxGroupSize:  req.MaxGroupSize,
		Difficulty:    req.Difficulty,
		Price:         req.Price,
		PriceDiscount: req.PriceDiscount,
		Summary:       req.Summary,
		Description:   req.Description,
		ImageCover:    req.ImageCover,
		Images:        req.Images,
		StartDates:    req.StartDates,
		SecretTour:    req.SecretTour,
		Guides:        req.Guides,
	}
	if req.StartLocation != nil {
		loc := req.StartLocation.ToModel()
		t.StartLocation = &loc
	}
	for _, l := range req.Locations {
		t.Locations = append(t.Locations, l.ToModel())
	}

	if err := h.tours.Create(r.Context(), t); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, data{"data": dto.NewTourResponse(t)})
}

// UpdateTour changes a tour
// @Summary Update a tour
// @Description JSON fields, or multipart/form-data with "imageCover" and up to three "images"
// @Tags tours
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour ID"
// @Param request body dto.UpdateTourRequest false "Fields to update"
// @Success 200 {object} dto.SuccessResponse{data=dto.TourResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/tours/{id} [patch]
func (h *TourHandler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTourRequest
	multipartBody := isMultipart(r)
	if multipartBody {
		if err := parseMultipart(r); err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
	} else if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	t, err := h.tours.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	applyTourUpdate(t, req)
	if t.PriceDiscount != nil && *t.PriceDiscount >= t.Price {
		utils.WriteError(w, h.log, apperror.Validation("Invalid input data. Discount price should be below regular price"))
		return
	}

	if multipartBody {
		if err := h.saveTourImages(r, t); err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
	}

	if err := h.tours.Update(r.Context(), t); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": dto.NewTourResponse(t)})
}

func applyTourUpdate(t *models.Tour, req dto.UpdateTourRequest) {
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Duration != nil {
		t.Duration = *req.Duration
	}
	if req.MaxGroupSize != nil {
		t.MaxGroupSize = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		t.Difficulty = *req.Difficulty
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.PriceDiscount != nil {
		t.PriceDiscount = req.PriceDiscount
	}
	if req.Summary != nil {
		t.Summary = *req.Summary
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.ImageCover != nil {
		t.ImageCover = *req.ImageCover
	}
	if req.Images != nil {
		t.Images = req.Images
	}
	if req.StartDates != nil {
		t.StartDates = req.StartDates
	}
	if req.SecretTour != nil {
		t.SecretTour = *req.SecretTour
	}
	if req.StartLocation != nil {
		loc := req.StartLocation.ToModel()
		t.StartLocation = &loc
	}
	if req.Locations != nil {
		t.Locations = t.Locations[:0]
		for _, l := range req.Locations {
			t.Locations = append(t.Locations, l.ToModel())
		}
	}
	if req.Guides != nil {
		t.Guides = req.Guides
	}
}

// saveTourImages stores the uploaded cover and gallery images of t.
func (h *TourHandler) saveTourImages(r *http.Request, t *models.Tour) error {
	covers, err := formFiles(r, "imageCover", 1)
	if err != nil {
		return err
	}
	images, err := formFiles(r, "images", maxTourImages)
	if err != nil {
		return err
	}

	stamp := h.now().Unix()
	if len(covers) == 1 {
		name := fmt.Sprintf("tour-%s-%d-cover.jpeg", t.ID, stamp)
		if err := saveImage(r.Context(), h.bucket, covers[0], imaging.TourImage, folderTours, name); err != nil {
			return err
		}
		t.ImageCover = name
	}
	if len(images) > 0 {
		names := make([]string, 0, len(images))
		for i, fh := range images {
			name := fmt.Sprintf("tour-%s-%d-%d.jpeg", t.ID, stamp, i+1)
			if err := saveImage(r.Context(), h.bucket, fh, imaging.TourImage, folderTours, name); err != nil {
				return err
			}
			names = append(names, name)
		}
		t.Images = names
	}
	return nil
}

// DeleteTour removes a tour
// @Summary Delete a tour
// @Tags tours
// @Security BearerAuth
// @Param id path string true "Tour ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/tours/{id} [delete]
func (h *TourHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	if err := h.tours.Delete(r.Context(), pathID(r, "id")); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteNoContent(w)
}

// GetTourStats aggregates well rated tours by difficulty
// @Summary Tour statistics
// @Tags tours
// @Produce json
// @Success 200 {object} dto.SuccessResponse{data=[]repository.TourStats}
// @Router /api/v1/tours/tour-stats [get]
func (h *TourHandler) GetTourStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tours.Stats(r.Context())
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"stats": stats})
}

// GetMonthlyPlan counts tour starts per month of a year
// @Summary Monthly plan
// @Tags tours
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Success 200 {object} dto.SuccessResponse{data=[]repository.MonthPlan}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/tours/monthly-plans/{year} [get]
func (h *TourHandler) GetMonthlyPlan(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(pathID(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		utils.WriteError(w, h.log, apperror.Validation("Please provide a valid year"))
		return
	}
	plan, err := h.tours.MonthlyPlan(r.Context(), year)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"plan": plan})
}

// GetToursWithin lists tours starting within a distance of a point
// @Summary Tours within a radius
// @Tags tours
// @Produce json
// @Param distance path number true "Radius"
// @Param latlng path string true "Center as lat,lng"
// @Param unit path string true "mi or km"
// @Success 200 {object} dto.SuccessResponse{data=[]dto.TourResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/tours/tours-within/{distance}/center/{latlng}/unit/{unit} [get]
func (h *TourHandler) GetToursWithin(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(pathID(r, "distance"), 64)
	if err != nil || distance < 0 {
		utils.WriteError(w, h.log, apperror.Validation("Please provide a valid distance"))
		return
	}
	center, unit, err := parseCenter(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	tours, err := h.tours.Within(r.Context(), center, distance, unit)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	out := make([]dto.TourResponse, 0, len(tours))
	for i := range tours {
		out = append(out, dto.NewTourResponse(&tours[i]))
	}
	utils.WriteList(w, len(out), data{"data": out})
}

// GetDistances lists every tour with its distance from a point
// @Summary Distances to tours
// @Tags tours
// @Produce json
// @Param latlng path string true "Point as lat,lng"
// @Param unit path string true "mi or km"
// @Success 200 {object} dto.SuccessResponse{data=[]repository.TourDistance}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/tours/distances/{latlng}/unit/{unit} [get]
func (h *TourHandler) GetDistances(w http.ResponseWriter, r *http.Request) {
	center, unit, err := parseCenter(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	distances, err := h.tours.Distances(r.Context(), center, unit)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": distances})
}

func parseCenter(r *http.Request) (geo.Point, geo.Unit, error) {
	center, err := geo.ParsePoint(pathID(r, "latlng"))
	if err != nil {
		return geo.Point{}, "", apperror.Validation("Please provide latitude and longitude in the format lat,lng.").Wrap(err)
	}
	return center, geo.ParseUnit(pathID(r, "unit")), nil
}
