package handlers

import (
	"ChemoOrder/config"
	"ChemoOrder/middlewares"
	"ChemoOrder/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	share  *services.ShareService
	config *config.AppConfig
}

func NewShareHandler(share *services.ShareService, config *config.AppConfig) *ShareHandler {
	return &ShareHandler{share: share, config: config}
}

type shareImageRequest struct {
	ImageBase64 string `json:"imageBase64"`
	FileName    string `json:"fileName"`
}

// Create handles POST /api/share/images: publishes an order snapshot as a
// static image plus a link-preview page.
func (h *ShareHandler) Create(c *gin.Context) {
	var req shareImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	result, err := h.share.SaveSharedImage(req.ImageBase64, req.FileName, h.baseURL(c))
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, result, http.StatusCreated)
}

// baseURL prefers the configured public base so share links survive reverse
// proxies, falling back to the request host.
func (h *ShareHandler) baseURL(c *gin.Context) string {
	if base := h.config.GetPublicBase(); base != "" {
		return base
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
