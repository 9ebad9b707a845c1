package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ecogrid/ordination-backend-go/internal/ingest"
	"github.com/ecogrid/ordination-backend-go/internal/models"
	"github.com/ecogrid/ordination-backend-go/internal/service"
	"github.com/ecogrid/ordination-backend-go/pkg/response"
)

// MatrixHandler handles HTTP requests for matrix runs
type MatrixHandler struct {
	service *service.MatrixService
}

// NewMatrixHandler creates a new matrix handler
func NewMatrixHandler(service *service.MatrixService) *MatrixHandler {
	return &MatrixHandler{service: service}
}

// Build handles POST /api/v1/matrix/runs
func (h *MatrixHandler) Build(c *gin.Context) {
	var req models.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	run, m, err := h.service.Build(req.MinRelativeFrequency)
	if errors.Is(err, service.ErrNoOccurrences) {
		response.BadRequest(c, err.Error(), nil)
		return
	}
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	response.Success(c, gin.H{
		"run":          run,
		"sample_units": m.RowIDs,
		"species":      m.Cols,
	})
}

// GetRuns handles GET /api/v1/matrix/runs
func (h *MatrixHandler) GetRuns(c *gin.Context) {
	runs, err := h.service.GetRuns()
	if err != nil {
		response.InternalError(c, "Failed to get matrix runs", err)
		return
	}
	response.Success(c, gin.H{
		"data":  runs,
		"count": len(runs),
	})
}

// GetRun handles GET /api/v1/matrix/runs/:id
func (h *MatrixHandler) GetRun(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}
	response.Success(c, run)
}

// GetMatrix handles GET /api/v1/matrix/runs/:id/matrix
func (h *MatrixHandler) GetMatrix(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	m, err := h.service.Rebuild(run)
	if err != nil {
		response.InternalError(c, "Failed to rebuild matrix", err)
		return
	}

	response.Success(c, gin.H{
		"sample_units": m.RowIDs,
		"species":      m.Cols,
		"values":       m.Values,
	})
}

// UploadScores handles POST /api/v1/matrix/runs/:id/scores
func (h *MatrixHandler) UploadScores(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	body, name, err := uploadedFile(c)
	if err != nil {
		response.BadRequest(c, "Failed to read upload", err)
		return
	}
	defer body.Close()

	axes, err := h.service.UploadScores(run.ID, body, ingest.Options{
		Delimiter:  delimiterParam(c),
		SourceName: name,
	})
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	response.Success(c, gin.H{"axes": axes})
}

// Export handles GET /api/v1/matrix/runs/:id/export
// Query params: delimiter ("comma"|"tab").
func (h *MatrixHandler) Export(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	delimiter := delimiterParam(c)
	ext := "csv"
	contentType := "text/csv"
	if delimiter == '\t' {
		ext = "tsv"
		contentType = "text/tab-separated-values"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=matrix_run_%d.%s", run.ID, ext))

	if err := h.service.Export(run, c.Writer, delimiter); err != nil {
		// Headers are already out; log and drop the connection
		c.Error(err)
		c.Abort()
	}
}

func (h *MatrixHandler) lookupRun(c *gin.Context) (*models.MatrixRun, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid run id", err)
		return nil, false
	}

	run, err := h.service.GetRun(id)
	if err != nil {
		response.InternalError(c, "Failed to get matrix run", err)
		return nil, false
	}
	if run == nil {
		response.NotFound(c, "Matrix run not found")
		return nil, false
	}
	return run, true
}
