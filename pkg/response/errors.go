package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bzt-portal/training-scheduler/pkg/apperror"
)

// Error maps a classified error to its transport status code. Unclassified
// errors use the fallback message with a 500.
func Error(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		Unauthorized(c, err.Error())
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(c, fallback)
	case errors.Is(err, apperror.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, apperror.ErrSessionFull):
		Conflict(c, "session full")
	default:
		Internal(c, fallback)
	}
}
