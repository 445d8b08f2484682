package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"argusai/internal/service"
)

// PaperHandler handles manuscript upload and retrieval endpoints.
type PaperHandler struct {
	analysisService service.AnalysisService
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(analysisService service.AnalysisService) *PaperHandler {
	return &PaperHandler{analysisService: analysisService}
}

// Upload handles POST /api/v1/papers/upload
func (h *PaperHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	out, err := h.analysisService.Upload(c.Request.Context(), service.UploadPaperInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, out)
}

// List handles GET /api/v1/papers
func (h *PaperHandler) List(c *gin.Context) {
	offset, limit := paginationParams(c)

	papers, total, err := h.analysisService.ListPapers(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, papers, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/papers/:id
func (h *PaperHandler) Get(c *gin.Context) {
	paperID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid paper ID")
		return
	}

	detail, err := h.analysisService.GetPaper(c.Request.Context(), paperID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, detail)
}

// ListAnalyses handles GET /api/v1/papers/:id/analyses
func (h *PaperHandler) ListAnalyses(c *gin.Context) {
	paperID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid paper ID")
		return
	}

	analyses, err := h.analysisService.ListAnalyses(c.Request.Context(), paperID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, analyses)
}

func paginationParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
