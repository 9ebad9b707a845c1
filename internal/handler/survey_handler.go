package handler

import (
	"io"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ecogrid/ordination-backend-go/internal/ingest"
	"github.com/ecogrid/ordination-backend-go/internal/models"
	"github.com/ecogrid/ordination-backend-go/internal/service"
	"github.com/ecogrid/ordination-backend-go/pkg/response"
)

// SurveyHandler handles HTTP requests for the raw survey tables
type SurveyHandler struct {
	service *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(service *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{service: service}
}

// ImportOccurrences handles POST /api/v1/occurrences/import
// The file arrives as a multipart "file" field or as the raw body.
// Query params: replace (default true), delimiter ("comma"|"tab").
func (h *SurveyHandler) ImportOccurrences(c *gin.Context) {
	body, name, err := uploadedFile(c)
	if err != nil {
		response.BadRequest(c, "Failed to read upload", err)
		return
	}
	defer body.Close()

	replace := c.DefaultQuery("replace", "true") == "true"
	opts := ingest.Options{
		Delimiter:  delimiterParam(c),
		SourceName: name,
	}

	n, err := h.service.ImportOccurrences(body, opts, replace)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	response.Success(c, gin.H{"imported": n, "replace": replace})
}

// GetOccurrences handles GET /api/v1/occurrences
func (h *SurveyHandler) GetOccurrences(c *gin.Context) {
	var filter models.OccurrenceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}
	if filter.PageSize == 0 {
		filter.PageSize = 500
	}

	records, err := h.service.GetOccurrences(filter)
	if err != nil {
		response.InternalError(c, "Failed to get occurrences", err)
		return
	}

	response.Success(c, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// ImportSpecies handles POST /api/v1/species/import
func (h *SurveyHandler) ImportSpecies(c *gin.Context) {
	body, name, err := uploadedFile(c)
	if err != nil {
		response.BadRequest(c, "Failed to read upload", err)
		return
	}
	defer body.Close()

	opts := ingest.Options{
		Delimiter:  delimiterParam(c),
		SourceName: name,
	}

	n, err := h.service.ImportSpecies(body, opts)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	response.Success(c, gin.H{"imported": n})
}

// GetSpecies handles GET /api/v1/species
func (h *SurveyHandler) GetSpecies(c *gin.Context) {
	species, err := h.service.GetSpecies()
	if err != nil {
		response.InternalError(c, "Failed to get species", err)
		return
	}
	response.Success(c, gin.H{
		"data":  species,
		"count": len(species),
	})
}

// GetSpeciesByCode handles GET /api/v1/species/:code
func (h *SurveyHandler) GetSpeciesByCode(c *gin.Context) {
	sp, err := h.service.GetSpeciesByCode(c.Param("code"))
	if err != nil {
		response.InternalError(c, "Failed to get species", err)
		return
	}
	if sp == nil {
		response.NotFound(c, "Species not found")
		return
	}
	response.Success(c, sp)
}

// uploadedFile returns the request's upload as a reader plus a name
// for provenance: the multipart "file" field when present, the raw
// body otherwise.
func uploadedFile(c *gin.Context) (io.ReadCloser, string, error) {
	fh, err := c.FormFile("file")
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		return f, filepath.Base(fh.Filename), nil
	}
	return c.Request.Body, "upload", nil
}

func delimiterParam(c *gin.Context) rune {
	if c.Query("delimiter") == "tab" {
		return '\t'
	}
	return ','
}
