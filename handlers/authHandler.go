package handlers

import (
	"ChemoOrder/middlewares"
	"ChemoOrder/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, result, http.StatusOK)
}

type resetCodeRequest struct {
	Username string `json:"username"`
}

// SendResetCode handles POST /api/auth/send-reset-code. The response is the same
// whether or not the username exists.
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var req resetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		middlewares.HttpError(c, "Username is required", http.StatusBadRequest, err)
		return
	}

	if err := h.auth.SendResetCode(c.Request.Context(), req.Username); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Reset code sent if the account exists"}, http.StatusOK)
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	ResetCode   string `json:"resetCode"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), req.Username, req.ResetCode, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Password changed successfully"}, http.StatusOK)
}
