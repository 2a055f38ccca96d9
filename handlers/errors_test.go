package handlers

import (
	"ChemoOrder/models"
	"ChemoOrder/services"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respondStatus(err error) int {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)
	return recorder.Code
}

func TestRespondErrorMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, respondStatus(fmt.Errorf("%w: bad drugs", models.ErrValidation)))
	assert.Equal(t, http.StatusUnauthorized, respondStatus(services.ErrInvalidCredentials))
	assert.Equal(t, http.StatusForbidden, respondStatus(fmt.Errorf("%w: other ward", models.ErrForbidden)))
	assert.Equal(t, http.StatusNotFound, respondStatus(models.ErrNotFound))
	assert.Equal(t, http.StatusConflict, respondStatus(fmt.Errorf("%w: already COMPLETED", models.ErrConflict)))
	assert.Equal(t, http.StatusInternalServerError, respondStatus(errors.New("connection refused")))
}

func TestRawJSONList(t *testing.T) {
	assert.Equal(t, `["a","b"]`, string(rawJSONList(`["a","b"]`)))
	assert.Equal(t, "[]", string(rawJSONList("")))
	assert.Equal(t, "[]", string(rawJSONList("{broken")))
}
