package handlers

import (
	"ChemoOrder/config"
	"ChemoOrder/middlewares"
	"ChemoOrder/models"
	"ChemoOrder/services"
	"ChemoOrder/utils"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// maxUploadSize bounds each attachment file.
const maxUploadSize = 10 << 20

type OrderHandler struct {
	orders *services.OrderService
	config *config.AppConfig
}

func NewOrderHandler(orders *services.OrderService, config *config.AppConfig) *OrderHandler {
	return &OrderHandler{orders: orders, config: config}
}

// parseOrderForm decodes the multipart create/update payload: JSON-encoded
// patient, drugs, otherData and existingAttachments fields plus uploaded
// attachment files.
func (h *OrderHandler) parseOrderForm(c *gin.Context) (services.OrderInput, bool) {
	var input services.OrderInput

	if raw := c.PostForm("patient"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Patient); err != nil {
			middlewares.HttpError(c, "Invalid patient data", http.StatusBadRequest, err)
			return input, false
		}
	}
	if raw := c.PostForm("drugs"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Drugs); err != nil {
			middlewares.HttpError(c, "Invalid drugs data", http.StatusBadRequest, err)
			return input, false
		}
	}
	if raw := c.PostForm("otherData"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Other); err != nil {
			middlewares.HttpError(c, "Invalid otherData", http.StatusBadRequest, err)
			return input, false
		}
	}
	if raw := c.PostForm("existingAttachments"); raw != "" {
		// Stale client state must not fail the whole request; an unreadable
		// list just drops to empty.
		if err := json.Unmarshal([]byte(raw), &input.ExistingAttachments); err != nil {
			log.Printf("Ignoring malformed existingAttachments: %v", err)
			input.ExistingAttachments = nil
		}
	}
	input.Notes = c.PostForm("notes")

	form, err := c.MultipartForm()
	if err != nil {
		return input, true
	}

	for _, file := range form.File["attachments"] {
		attachment, ok := h.saveUpload(c, file)
		if !ok {
			return input, false
		}
		input.NewAttachments = append(input.NewAttachments, attachment)
	}
	return input, true
}

// saveUpload stores one attachment under the public uploads directory and
// returns its descriptor.
func (h *OrderHandler) saveUpload(c *gin.Context, file *multipart.FileHeader) (models.Attachment, bool) {
	mimeType := file.Header.Get("Content-Type")
	if !utils.AllowedUploadType(mimeType, file.Filename) {
		middlewares.HttpError(c, "Only image and PDF attachments are allowed", http.StatusBadRequest, nil)
		return models.Attachment{}, false
	}
	if file.Size > maxUploadSize {
		middlewares.HttpError(c, "Attachment exceeds the 10MB limit", http.StatusBadRequest, nil)
		return models.Attachment{}, false
	}

	storedName := utils.CreateUploadFileName(mimeType, file.Filename)
	destination := filepath.Join(h.config.GetPublicDir(), utils.UploadsDirName, storedName)
	if err := c.SaveUploadedFile(file, destination); err != nil {
		middlewares.HttpError(c, "Failed to store attachment", http.StatusInternalServerError, err)
		return models.Attachment{}, false
	}

	return models.Attachment{
		FileName: file.Filename,
		FileURL:  "/public/" + utils.UploadsDirName + "/" + storedName,
		FileType: mimeType,
		FileSize: file.Size,
	}, true
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	input, ok := h.parseOrderForm(c)
	if !ok {
		return
	}

	view, err := h.orders.Create(c.Request.Context(), identity, input)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, view, http.StatusCreated)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	query := services.ListQuery{
		PatientID: c.Query("patientId"),
		Latest:    c.Query("latest") == "true",
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	views, err := h.orders.List(c.Request.Context(), identity, query)
	if err != nil {
		respondError(c, err)
		return
	}

	// latest with a patient narrows the response to a single object, or null
	// when the patient has no orders yet; absence is not an error here.
	if query.Latest && query.PatientID != "" {
		if len(views) == 0 {
			middlewares.RespondJSON(c, nil, http.StatusOK)
			return
		}
		middlewares.RespondJSON(c, views[0], http.StatusOK)
		return
	}
	middlewares.RespondJSON(c, views, http.StatusOK)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	view, err := h.orders.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, view, http.StatusOK)
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	input, ok := h.parseOrderForm(c)
	if !ok {
		return
	}

	view, err := h.orders.Update(c.Request.Context(), identity, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, view, http.StatusOK)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/orders/:id/status. The route carries the
// pharmacist role check.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	view, err := h.orders.UpdateStatus(c.Request.Context(), identity, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, view, http.StatusOK)
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Order deleted successfully"}, http.StatusOK)
}
