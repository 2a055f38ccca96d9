package handlers

import (
	"ChemoOrder/middlewares"
	"ChemoOrder/services"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DrugHandler struct {
	drugs *services.DrugService
}

func NewDrugHandler(drugs *services.DrugService) *DrugHandler {
	return &DrugHandler{drugs: drugs}
}

// List handles GET /api/drugs.
func (h *DrugHandler) List(c *gin.Context) {
	drugs, err := h.drugs.GetAllDrugs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, drugs, http.StatusOK)
}

// regimenView is the response shape of a regimen with its stored JSON text
// columns decoded.
type regimenView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Drugs        json.RawMessage `json:"drugs"`
	Instructions string          `json:"instructions"`
	SideEffects  json.RawMessage `json:"sideEffects"`
	Precautions  json.RawMessage `json:"precautions"`
}

// ListRegimens handles GET /api/regimens.
func (h *DrugHandler) ListRegimens(c *gin.Context) {
	regimens, err := h.drugs.GetAllRegimens(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]regimenView, len(regimens))
	for i, regimen := range regimens {
		views[i] = regimenView{
			ID:           regimen.ID,
			Name:         regimen.Name,
			Drugs:        rawJSONList(regimen.Drugs),
			Instructions: regimen.Instructions,
			SideEffects:  rawJSONList(regimen.SideEffects),
			Precautions:  rawJSONList(regimen.Precautions),
		}
	}
	middlewares.RespondJSON(c, views, http.StatusOK)
}

// rawJSONList passes a stored JSON column through untouched, recovering an
// empty array when the stored text is not valid JSON.
func rawJSONList(raw string) json.RawMessage {
	if raw == "" || !json.Valid([]byte(raw)) {
		return json.RawMessage("[]")
	}
	return json.RawMessage(raw)
}
