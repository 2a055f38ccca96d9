package controllers

import (
	"ChemoOrder/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/api/auth/login", ac.Handler.Login)
	router.POST("/api/auth/send-reset-code", ac.Handler.SendResetCode)
	router.POST("/api/auth/change-password", ac.Handler.ChangePassword)
}
