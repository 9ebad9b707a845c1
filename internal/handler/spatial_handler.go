package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ecogrid/ordination-backend-go/internal/service"
	"github.com/ecogrid/ordination-backend-go/pkg/response"
)

// SpatialHandler handles HTTP requests for sample-unit spacing
type SpatialHandler struct {
	service *service.SpatialService
}

// NewSpatialHandler creates a new spatial handler
func NewSpatialHandler(service *service.SpatialService) *SpatialHandler {
	return &SpatialHandler{service: service}
}

// GetSummary handles GET /api/v1/samples/spatial-summary
func (h *SpatialHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary()
	if err != nil {
		response.InternalError(c, "Failed to compute spatial summary", err)
		return
	}
	response.Success(c, summary)
}
