package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trafficlab/speeds-backend-go/internal/models"
	"github.com/trafficlab/speeds-backend-go/internal/service"
	"github.com/trafficlab/speeds-backend-go/pkg/response"
)

// SegmentHandler handles HTTP requests for the segment registry
type SegmentHandler struct {
	service *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(service *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{service: service}
}

// Create handles POST /api/v1/segments
func (h *SegmentHandler) Create(c *gin.Context) {
	var input models.SegmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	segment, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, segment)
}

// Update handles PUT /api/v1/segments/:id
func (h *SegmentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid segment ID", err)
		return
	}

	var input models.SegmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	segment, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, segment)
}

// Get handles GET /api/v1/segments/:id
func (h *SegmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid segment ID", err)
		return
	}

	segment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, segment)
}

// List handles GET /api/v1/segments
func (h *SegmentHandler) List(c *gin.Context) {
	segments, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"data":  segments,
		"total": len(segments),
	})
}

// Import handles POST /api/v1/segments/import
func (h *SegmentHandler) Import(c *gin.Context) {
	var fc models.FeatureCollection
	if err := c.ShouldBindJSON(&fc); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid GeoJSON body", err)
		return
	}

	source := c.DefaultQuery("source", "geojson-import")
	results, err := h.service.ImportGeoJSON(c.Request.Context(), fc, source)
	if err != nil {
		writeError(c, err)
		return
	}

	registered := 0
	for _, r := range results {
		if !r.Skipped {
			registered++
		}
	}
	response.Success(c, gin.H{
		"registered": registered,
		"results":    results,
	})
}
