package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/auth"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

const oauthStateCookie = "oauthstate"

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	svc          *auth.Service
	oauth2Config *oauth2.Config
	config       *config.Config
	log          *zap.Logger

	// userInfo fetches the Google profile for an access token.
	userInfo func(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error)
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(svc *auth.Service, cfg *config.Config, log *zap.Logger) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	h := &GoogleAuthHandler{
		svc:          svc,
		oauth2Config: oauth2Config,
		config:       cfg,
		log:          log,
	}
	h.userInfo = h.getGoogleUserInfo
	return h
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Initiate Google OAuth login flow
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Router /api/v1/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.config.IsGoogleOAuthConfigured() {
		utils.WriteError(w, h.log, apperror.Internal(nil, "Google sign-in is not available"))
		return
	}

	// State parameter for CSRF protection, checked against the cookie on callback
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Handle Google OAuth callback with authorization code
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by the login endpoint"
// @Success 302 "Redirect to the site with the session cookie set"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Router /api/v1/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteError(w, h.log, apperror.Validation("Authorization code is required"))
		return
	}

	c, err := r.Cookie(oauthStateCookie)
	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		utils.WriteError(w, h.log, apperror.Validation("Invalid OAuth state"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	token, err := h.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		utils.WriteError(w, h.log, apperror.Unauthenticated("Invalid authorization code").Wrap(err))
		return
	}

	info, err := h.userInfo(r.Context(), token)
	if err != nil {
		utils.WriteError(w, h.log, fmt.Errorf("get google user info: %w", err))
		return
	}

	sess, err := h.svc.LoginWithGoogle(r.Context(), auth.GoogleProfile{
		ID:       info.ID,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
		Verified: info.Verified,
	})
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	setSessionCookie(w, r, h.config, sess.Token)
	http.Redirect(w, r, "/", http.StatusFound)
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		Verified: verified,
	}, nil
}
