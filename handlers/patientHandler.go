package handlers

import (
	"ChemoOrder/middlewares"
	"ChemoOrder/models"
	"ChemoOrder/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patients *services.PatientService
}

func NewPatientHandler(patients *services.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

// List handles GET /api/patients. ?status= filters by treatment status.
func (h *PatientHandler) List(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	patients, err := h.patients.List(c.Request.Context(), identity, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patients, http.StatusOK)
}

// Get handles GET /api/patients/:id.
func (h *PatientHandler) Get(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	patient, err := h.patients.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

// Complete handles PATCH /api/patients/:id/complete.
func (h *PatientHandler) Complete(c *gin.Context) {
	h.setStatus(c, models.PatientStatusCompleted)
}

// Activate handles PATCH /api/patients/:id/activate.
func (h *PatientHandler) Activate(c *gin.Context) {
	h.setStatus(c, models.PatientStatusActive)
}

func (h *PatientHandler) setStatus(c *gin.Context, status string) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	patient, err := h.patients.SetStatus(c.Request.Context(), identity, c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}
