package handlers

import (
	"net/http"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// ForgotPassword mails a password reset link
// @Summary Forgot password
// @Description Send a password reset token, valid for 10 minutes, to the user's email
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.MessageResponse "Token sent to email!"
// @Failure 404 {object} dto.ErrorResponse "No user with that email"
// @Failure 500 {object} dto.ErrorResponse "Email could not be sent"
// @Router /api/v1/users/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	base := baseURL(r)
	err := h.svc.ForgotPassword(r.Context(), req.Email, func(token string) string {
		return base + "/api/v1/users/resetPassword/" + token
	})
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{
		Status:  "success",
		Message: "Token sent to email!",
	})
}

// ResetPassword sets a new password using a reset token
// @Summary Reset password
// @Tags authentication
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Token is invalid or has expired"
// @Router /api/v1/users/resetPassword/{token} [patch]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	sess, err := h.svc.ResetPassword(r.Context(), pathID(r, "token"), req.Password)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	h.sendToken(w, r, http.StatusOK, sess)
}
