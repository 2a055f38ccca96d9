package handlers

import (
	"ChemoOrder/middlewares"
	"ChemoOrder/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.List(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, notifications, http.StatusOK)
}

// MarkRead handles PATCH /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), identity.UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Notification marked as read"}, http.StatusOK)
}

// Delete handles DELETE /api/notifications/:id.
func (h *NotificationHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), identity.UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Notification deleted"}, http.StatusOK)
}
