package handlers

import (
	"errors"
	"net/http"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrReasonRequired):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrAffiliateNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidTransition):
		status, message = http.StatusConflict, err.Error()
	default:
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{"error": message})
}
