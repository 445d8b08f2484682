package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"argusai/internal/domain"
	"argusai/internal/export"
	"argusai/internal/service"
)

// reportBatchSize is how many analyses are fetched per page while
// streaming a report.
const reportBatchSize = 500

// ReportHandler handles report export endpoints.
type ReportHandler struct {
	analysisService service.AnalysisService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(analysisService service.AnalysisService) *ReportHandler {
	return &ReportHandler{analysisService: analysisService}
}

// ExportCSV handles GET /api/v1/reports/analyses.csv
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	analyses, err := h.collectAll(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename("csv")+`"`)
	c.Status(http.StatusOK)

	_, _ = c.Writer.Write(export.BOM)
	w := export.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	_ = w.WriteAnalyses(analyses)
	w.Flush()
}

// ExportXLSX handles GET /api/v1/reports/analyses.xlsx
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	analyses, err := h.collectAll(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, analyses); err != nil {
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "failed to build workbook")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename("xlsx")+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ReportHandler) collectAll(c *gin.Context) ([]domain.Analysis, error) {
	var all []domain.Analysis
	offset := 0
	for {
		batch, total, err := h.analysisService.ListAllAnalyses(c.Request.Context(), offset, reportBatchSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		offset += len(batch)
		if len(batch) == 0 || offset >= total {
			return all, nil
		}
	}
}
