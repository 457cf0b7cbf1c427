package handlers

import (
	"context"
	"errors"
	"net/http"

	"bond-tc-sim/internal/api/models"
	"bond-tc-sim/internal/model"

	"github.com/gin-gonic/gin"
)

// errorStatus maps a simulation error to an HTTP status and error code.
// Configuration errors are the caller's fault; anything else is ours.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidFactorSelection):
		return http.StatusBadRequest, "INVALID_FACTOR_SELECTION"
	case errors.Is(err, model.ErrInvalidDimension):
		return http.StatusBadRequest, "INVALID_DIMENSION"
	case errors.Is(err, model.ErrNonPositiveDefinite):
		return http.StatusBadRequest, "NON_POSITIVE_DEFINITE"
	case errors.Is(err, model.ErrInvalidParameter):
		return http.StatusBadRequest, "INVALID_PARAMETER"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "SIMULATION_CANCELED"
	default:
		return http.StatusInternalServerError, "SIMULATION_ERROR"
	}
}

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
