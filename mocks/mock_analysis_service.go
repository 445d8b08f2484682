package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"argusai/internal/domain"
	"argusai/internal/service"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Upload(ctx context.Context, input service.UploadPaperInput) (*service.UploadPaperOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadPaperOutput), args.Error(1)
}

func (m *MockAnalysisService) GetPaper(ctx context.Context, paperID uuid.UUID) (*service.PaperDetail, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaperDetail), args.Error(1)
}

func (m *MockAnalysisService) ListPapers(ctx context.Context, offset, limit int) ([]domain.Paper, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Paper), args.Int(1), args.Error(2)
}

func (m *MockAnalysisService) ListAnalyses(ctx context.Context, paperID uuid.UUID) ([]domain.Analysis, error) {
	args := m.Called(ctx, paperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) ListAllAnalyses(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Analysis), args.Int(1), args.Error(2)
}
