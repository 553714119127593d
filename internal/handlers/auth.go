package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/auth"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/middleware"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// LoggedOutCookieTTL is how long the logout marker cookie lives.
const LoggedOutCookieTTL = 10 * time.Second

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	svc *auth.Service
	cfg *config.Config
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(svc *auth.Service, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg, log: log}
}

// Signup handles user registration
// @Summary Sign up
// @Description Create a user account and sign it in
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /api/v1/users/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	sess, err := h.svc.Signup(r.Context(), auth.SignupInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
	}, baseURL(r)+"/me")
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	h.sendToken(w, r, http.StatusCreated, sess)
}

// Login handles user login
// @Summary Log in
// @Description Authenticate user with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing email or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /api/v1/users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	h.sendToken(w, r, http.StatusOK, sess)
}

// Logout replaces the session cookie with a short lived marker
// @Summary Log out
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /api/v1/users/logout [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "loggedout",
		Path:     "/",
		Expires:  time.Now().Add(LoggedOutCookieTTL),
		HttpOnly: true,
	})
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Status: "success"})
}

// UpdatePassword changes the password of the logged in user
// @Summary Update my password
// @Tags authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Current password is incorrect"
// @Router /api/v1/users/updateMyPassword [patch]
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	var req dto.UpdatePasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	sess, err := h.svc.UpdatePassword(r.Context(), u.ID, req.PasswordCurrent, req.Password)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	h.sendToken(w, r, http.StatusOK, sess)
}

// sendToken sets the session cookie and returns the token with the user.
func (h *AuthHandler) sendToken(w http.ResponseWriter, r *http.Request, status int, sess *auth.Session) {
	setSessionCookie(w, r, h.cfg, sess.Token)
	utils.WriteJSONResponse(w, status, dto.AuthResponse{
		Status: "success",
		Token:  sess.Token,
		Data:   dto.AuthUserData{User: dto.NewUserResponse(sess.User)},
	})
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, cfg *config.Config, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.JWT.CookieExpires),
		HttpOnly: true,
		Secure:   cfg.IsProduction() || isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}
