package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/imaging"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/objstore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/repository"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// UserHandler serves the profile of the logged in user and the admin user
// endpoints.
type UserHandler struct {
	users  *repository.Users
	bucket objstore.Bucket
	log    *zap.Logger
	now    func() time.Time
}

func NewUserHandler(users *repository.Users, bucket objstore.Bucket, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, bucket: bucket, log: log, now: time.Now}
}

// updateMeBody accepts the password fields only to reject them.
type updateMeBody struct {
	dto.UpdateMeRequest
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

// GetMe returns the logged in user
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": dto.NewUserResponse(u)})
}

// UpdateMe changes the name, email or photo of the logged in user
// @Summary Update my profile
// @Description Accepts JSON, or multipart/form-data with an optional "photo" image
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateMeRequest false "Profile fields"
// @Success 200 {object} dto.SuccessResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/users/updateMe [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	var body updateMeBody
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
		body = updateMeFromForm(r.MultipartForm.Value)
	} else if err := utils.DecodeJSON(r, &body); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if body.Password != nil || body.PasswordConfirm != nil {
		utils.WriteError(w, h.log, apperror.Validation("This route is not for password updates. Please use /updateMyPassword."))
		return
	}
	if err := dto.Validate(body.UpdateMeRequest); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	if body.Name != nil {
		u.Name = strings.TrimSpace(*body.Name)
	}
	if body.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*body.Email))
	}

	photos, err := formFiles(r, "photo", 1)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if len(photos) == 1 {
		name := fmt.Sprintf("user-%s-%d.jpeg", u.ID, h.now().Unix())
		if err := saveImage(r.Context(), h.bucket, photos[0], imaging.UserPhoto, folderUsers, name); err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
		u.Photo = name
	}

	if err := h.users.Save(r.Context(), u); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"user": dto.NewUserResponse(u)})
}

func updateMeFromForm(values url.Values) updateMeBody {
	var body updateMeBody
	field := func(key string) *string {
		if v, ok := values[key]; ok && len(v) > 0 {
			return &v[len(v)-1]
		}
		return nil
	}
	body.Name = field("name")
	body.Email = field("email")
	body.Password = field("password")
	body.PasswordConfirm = field("passwordConfirm")
	return body
}

// DeleteMe deactivates the logged in user
// @Summary Deactivate my account
// @Tags users
// @Security BearerAuth
// @Success 204
// @Router /api/v1/users/deleteMe [delete]
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	u.Active = false
	if err := h.users.Save(r.Context(), u); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteNoContent(w)
}

// GetAllUsers lists users
// @Summary List users
// @Description Supports filtering, sort, fields, page and limit query parameters
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=[]dto.UserResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	spec := listSpec(withoutPasswordFields(r.URL.Query()))
	users, err := h.users.List(r.Context(), spec)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	writeProjected(w, h.log, spec, len(out), out)
}

// withoutPasswordFields drops query parameters that would filter or sort on
// password material.
func withoutPasswordFields(params url.Values) url.Values {
	out := make(url.Values, len(params))
	for k, v := range params {
		if strings.HasPrefix(strings.ToLower(k), "password") {
			continue
		}
		out[k] = v
	}
	for _, key := range []string{"sort", "fields"} {
		if vals, ok := out[key]; ok {
			out[key] = []string{stripPasswordFields(vals)}
		}
	}
	return out
}

func stripPasswordFields(vals []string) string {
	var kept []string
	for _, v := range vals {
		for _, f := range strings.Split(v, ",") {
			name := strings.TrimLeft(strings.TrimSpace(f), "+-")
			if strings.HasPrefix(strings.ToLower(name), "password") {
				continue
			}
			kept = append(kept, strings.TrimSpace(f))
		}
	}
	return strings.Join(kept, ",")
}

// GetUser returns a user
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.UserResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.FindActiveByID(r.Context(), pathID(r, "id"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": dto.NewUserResponse(u)})
}

// CreateUser is not available; accounts are created through signup
// @Summary Create a user (not available)
// @Tags users
// @Security BearerAuth
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, h.log, apperror.Internal(nil, "This route is not defined! Please use /signup instead"))
}

// UpdateUser changes any user; passwords cannot be changed here
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.SuccessResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{id} [patch]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	u, err := h.users.FindActiveByID(r.Context(), pathID(r, "id"))
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		u.Role = models.Role(*req.Role)
	}
	if req.Photo != nil {
		u.Photo = *req.Photo
	}
	if req.Active != nil {
		u.Active = *req.Active
	}

	if err := h.users.Save(r.Context(), u); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, data{"data": dto.NewUserResponse(u)})
}

// DeleteUser removes a user
// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), pathID(r, "id")); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	utils.WriteNoContent(w)
}
