package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"argusai/internal/config"
	"argusai/internal/domain"
	"argusai/internal/port"
	"argusai/internal/service"
	"argusai/mocks"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func uploadInput(filename, content string) service.UploadPaperInput {
	return service.UploadPaperInput{
		File:   memFile{bytes.NewReader([]byte(content))},
		Header: &multipart.FileHeader{Filename: filename, Size: int64(len(content))},
	}
}

type fixture struct {
	paperRepo    *mocks.MockPaperRepository
	chunkRepo    *mocks.MockChunkRepository
	analysisRepo *mocks.MockAnalysisRepository
	storage      *mocks.MockObjectStorage
	analyzer     *mocks.MockAnalyzer
	svc          service.AnalysisService
}

func newFixture() *fixture {
	f := &fixture{
		paperRepo:    new(mocks.MockPaperRepository),
		chunkRepo:    new(mocks.MockChunkRepository),
		analysisRepo: new(mocks.MockAnalysisRepository),
		storage:      new(mocks.MockObjectStorage),
		analyzer:     new(mocks.MockAnalyzer),
	}
	cfg := &config.S3Config{Bucket: "papers", MaxFileSizeMB: 1, PresignExpiry: 3600}
	f.svc = service.NewAnalysisService(
		f.paperRepo, f.chunkRepo, f.analysisRepo, f.storage, f.analyzer, cfg, 20000)
	return f
}

func (f *fixture) expectHappyPersistence() {
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.paperRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.chunkRepo.On("HasChunks", mock.Anything, mock.Anything).Return(false, nil)
	f.chunkRepo.On("CreateParent", mock.Anything, mock.Anything).Return(nil)
	f.chunkRepo.On("CreateChild", mock.Anything, mock.Anything).Return(nil)
	f.analysisRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
}

func TestUpload_Success(t *testing.T) {
	f := newFixture()
	f.expectHappyPersistence()

	raw := `{"mentor_note": "Strong start.", "brutal_truth": ["the sample is tiny"], "roadmap": ["1. expand the sample"], "assumptions": ["data is iid"]}`
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).
		Return(&port.AnalyzeOutput{RawOutput: raw, ModelUsed: "gemini-2.5-flash"}, nil)

	out, err := f.svc.Upload(context.Background(), uploadInput("draft.txt", "We use out-of-sample tests and robustness checks.\n\nReferences\nSmith, J. (2020). Things."))
	require.NoError(t, err)

	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "draft.txt", out.Filename)
	assert.NotEqual(t, uuid.Nil, out.PaperID)
	assert.Equal(t, raw, out.Analysis)
	require.NotNil(t, out.AnalysisResult)
	assert.Equal(t, "Strong start.", out.AnalysisResult.MentorNote)
	assert.Equal(t, []string{"data is iid"}, out.Assumptions)
	assert.Empty(t, out.AnalysisHTML)
	require.NotNil(t, out.Scores)
	assert.NotZero(t, out.Scores.Methodology)

	f.analysisRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *domain.Analysis) bool {
		return a.RawOutput == raw && len(a.ParsedJSON) > 0 && len(a.ScoresJSON) > 0
	}))
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Upload(context.Background(), uploadInput("draft.docx", "hello"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUpload_FileTooLarge(t *testing.T) {
	f := newFixture()

	input := uploadInput("draft.txt", "x")
	input.Header.Size = 2 * 1024 * 1024
	_, err := f.svc.Upload(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestUpload_EmptyFile(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Upload(context.Background(), uploadInput("draft.txt", ""))
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestUpload_StorageFailure(t *testing.T) {
	f := newFixture()
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := f.svc.Upload(context.Background(), uploadInput("draft.txt", "some text"))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.paperRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpload_AnalyzerFailureDegrades(t *testing.T) {
	f := newFixture()
	f.expectHappyPersistence()
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	out, err := f.svc.Upload(context.Background(), uploadInput("draft.txt", "plain manuscript text"))
	require.NoError(t, err)

	assert.Equal(t, "success", out.Status)
	assert.Contains(t, out.Analysis, "Analyzer unavailable")
	assert.Nil(t, out.AnalysisResult)
	assert.NotEmpty(t, out.AnalysisHTML)
	require.NotNil(t, out.Scores)
}

func TestUpload_ProseOutputFallsBackToScrape(t *testing.T) {
	f := newFixture()
	f.expectHappyPersistence()

	raw := "Overall a fine draft.\n\nAssumptions:\n- markets are efficient\n- returns are stationary\n"
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).
		Return(&port.AnalyzeOutput{RawOutput: raw, ModelUsed: "gemini-2.5-flash"}, nil)

	out, err := f.svc.Upload(context.Background(), uploadInput("draft.txt", "manuscript body"))
	require.NoError(t, err)

	assert.Nil(t, out.AnalysisResult)
	assert.NotEmpty(t, out.AnalysisHTML)
	assert.Equal(t, []string{"markets are efficient", "returns are stationary"}, out.Assumptions)
}

func TestGetPaper_WithLatestAnalysis(t *testing.T) {
	f := newFixture()
	paperID := uuid.New()
	paper := &domain.Paper{ID: paperID, S3Bucket: "papers", S3Key: "papers/x/doc.pdf"}
	analysis := &domain.Analysis{ID: uuid.New(), PaperID: paperID}

	f.paperRepo.On("GetByID", mock.Anything, paperID).Return(paper, nil)
	f.analysisRepo.On("GetLatestByPaper", mock.Anything, paperID).Return(analysis, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "papers", "papers/x/doc.pdf", int64(3600)).
		Return("https://signed.example/doc.pdf", nil)

	detail, err := f.svc.GetPaper(context.Background(), paperID)
	require.NoError(t, err)
	assert.Equal(t, paper, detail.Paper)
	assert.Equal(t, analysis, detail.LatestAnalysis)
	assert.Equal(t, "https://signed.example/doc.pdf", detail.DownloadURL)
}

func TestGetPaper_NoAnalysisYet(t *testing.T) {
	f := newFixture()
	paperID := uuid.New()
	paper := &domain.Paper{ID: paperID, S3Bucket: "papers", S3Key: "k"}

	f.paperRepo.On("GetByID", mock.Anything, paperID).Return(paper, nil)
	f.analysisRepo.On("GetLatestByPaper", mock.Anything, paperID).Return(nil, domain.ErrNotFound)
	f.storage.On("GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("url", nil)

	detail, err := f.svc.GetPaper(context.Background(), paperID)
	require.NoError(t, err)
	assert.Nil(t, detail.LatestAnalysis)
}

func TestGetPaper_NotFound(t *testing.T) {
	f := newFixture()
	paperID := uuid.New()
	f.paperRepo.On("GetByID", mock.Anything, paperID).Return(nil, domain.ErrNotFound)

	_, err := f.svc.GetPaper(context.Background(), paperID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAnalyses_ChecksPaperExists(t *testing.T) {
	f := newFixture()
	paperID := uuid.New()
	f.paperRepo.On("GetByID", mock.Anything, paperID).Return(nil, domain.ErrNotFound)

	_, err := f.svc.ListAnalyses(context.Background(), paperID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.analysisRepo.AssertNotCalled(t, "ListByPaper", mock.Anything, mock.Anything)
}
