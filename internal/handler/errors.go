package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trafficlab/speeds-backend-go/internal/models"
	"github.com/trafficlab/speeds-backend-go/pkg/response"
)

// writeError maps domain errors onto HTTP statuses. Unknown segments on
// ingest are 422 (the payload is well-formed but references nothing);
// plain lookup misses are 404.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		response.Error(c, http.StatusBadRequest, "Invalid input", err)
	case errors.Is(err, models.ErrUnknownSegment):
		response.Error(c, http.StatusUnprocessableEntity, "Unknown segment", err)
	case errors.Is(err, models.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Not found", err)
	case errors.Is(err, models.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "Store unavailable", err)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal error", err)
	}
}
