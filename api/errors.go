package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy onto HTTP statuses. Unknown
// errors become an opaque 500 so storage details never leak to callers.
func writeError(c *gin.Context, err error) {
	var notFound *domain.NotFoundError
	var capacity *domain.InsufficientCapacityError
	var rule *domain.BusinessRuleError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &capacity):
		c.JSON(http.StatusConflict, gin.H{
			"error":     capacity.Error(),
			"requested": capacity.Requested,
			"available": capacity.Available,
		})
	case errors.As(err, &rule):
		c.JSON(http.StatusBadRequest, gin.H{"error": rule.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
