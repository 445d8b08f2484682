package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"argusai/internal/domain"
	"argusai/internal/handler"
	"argusai/internal/service"
	"argusai/mocks"
)

func reportRouter(svc service.AnalysisService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewReportHandler(svc)
	r := gin.New()
	r.GET("/api/v1/reports/analyses.csv", h.ExportCSV)
	r.GET("/api/v1/reports/analyses.xlsx", h.ExportXLSX)
	return r
}

func sampleAnalyses(t *testing.T) []domain.Analysis {
	t.Helper()
	parsed, err := json.Marshal(map[string]any{
		"mentor_note": "Nice progress.",
		"roadmap":     []string{"tighten chapter 3"},
	})
	require.NoError(t, err)
	scores, err := json.Marshal(domain.DefaultScores())
	require.NoError(t, err)

	return []domain.Analysis{{
		ID:         uuid.New(),
		PaperID:    uuid.New(),
		ModelUsed:  "gemini-2.5-flash",
		RawOutput:  "raw",
		ParsedJSON: parsed,
		ScoresJSON: scores,
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func TestExportCSV(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("ListAllAnalyses", mock.Anything, 0, mock.Anything).Return(sampleAnalyses(t), 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/analyses.csv", nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "analyses_")

	body := w.Body.String()
	assert.Contains(t, body, "Analysis ID")
	assert.Contains(t, body, "Nice progress.")
	assert.Contains(t, body, "gemini-2.5-flash")
	assert.Contains(t, body, "85")
}

func TestExportCSV_Empty(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("ListAllAnalyses", mock.Anything, 0, mock.Anything).Return([]domain.Analysis{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/analyses.csv", nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Analysis ID")
}

func TestExportXLSX(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("ListAllAnalyses", mock.Anything, 0, mock.Anything).Return(sampleAnalyses(t), 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/analyses.xlsx", nil)
	w := httptest.NewRecorder()
	reportRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, w.Body.Bytes()[:2])
}
