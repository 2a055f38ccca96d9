package handlers

import (
	"ChemoOrder/middlewares"
	"ChemoOrder/models"
	"ChemoOrder/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps service outcome sentinels to the HTTP taxonomy. Anything
// unmapped is an internal error with a generic body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		middlewares.HttpError(c, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		middlewares.HttpError(c, err.Error(), http.StatusUnauthorized, err)
	case errors.Is(err, models.ErrForbidden):
		middlewares.HttpError(c, err.Error(), http.StatusForbidden, err)
	case errors.Is(err, models.ErrNotFound):
		middlewares.HttpError(c, "Record not found", http.StatusNotFound, err)
	case errors.Is(err, models.ErrConflict):
		middlewares.HttpError(c, err.Error(), http.StatusConflict, err)
	default:
		middlewares.HttpError(c, "Internal server error", http.StatusInternalServerError, err)
	}
}

// requireIdentity pulls the resolved identity out of the request context,
// answering 401 itself when the auth middleware did not run.
func requireIdentity(c *gin.Context) (middlewares.Identity, bool) {
	identity, err := middlewares.ExtractIdentity(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, "Not authorized", http.StatusUnauthorized, err)
		return middlewares.Identity{}, false
	}
	return identity, true
}
