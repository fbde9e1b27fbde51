package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trafficlab/speeds-backend-go/internal/models"
	"github.com/trafficlab/speeds-backend-go/internal/service"
	"github.com/trafficlab/speeds-backend-go/pkg/response"
)

// ObservationHandler handles HTTP requests for observation ingest and queries
type ObservationHandler struct {
	service *service.ObservationService
}

// NewObservationHandler creates a new observation handler
func NewObservationHandler(service *service.ObservationService) *ObservationHandler {
	return &ObservationHandler{service: service}
}

// Record handles POST /api/v1/observations
func (h *ObservationHandler) Record(c *gin.Context) {
	var input models.ObservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	obs, err := h.service.Record(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, obs)
}

// RecordBatch handles POST /api/v1/observations/batch
func (h *ObservationHandler) RecordBatch(c *gin.Context) {
	var inputs []models.ObservationInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.RecordBatch(c.Request.Context(), inputs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// Query handles GET /api/v1/segments/:id/observations
func (h *ObservationHandler) Query(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid segment ID", err)
		return
	}

	var filter models.ObservationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	observations, err := h.service.Query(c.Request.Context(), id, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"data":  observations,
		"total": len(observations),
	})
}
