package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trafficlab/speeds-backend-go/internal/service"
	"github.com/trafficlab/speeds-backend-go/pkg/response"
)

// LatestHandler serves the materialized latest-speed view. Responses
// reflect the last completed refresh, not the live observation log.
type LatestHandler struct {
	service *service.LatestService
}

// NewLatestHandler creates a new latest-value handler
func NewLatestHandler(service *service.LatestService) *LatestHandler {
	return &LatestHandler{service: service}
}

// Refresh handles POST /api/v1/latest/refresh
func (h *LatestHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}

	stats, err := h.service.Stats()
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, stats)
}

// Get handles GET /api/v1/segments/:id/latest
func (h *LatestHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid segment ID", err)
		return
	}

	latest, err := h.service.GetLatest(id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, latest)
}

// GetAll handles GET /api/v1/latest
func (h *LatestHandler) GetAll(c *gin.Context) {
	latest := h.service.GetAllLatest()
	response.Success(c, gin.H{
		"data":  latest,
		"total": len(latest),
	})
}

// Stats handles GET /api/v1/latest/stats
func (h *LatestHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, stats)
}
