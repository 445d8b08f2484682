package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"argusai/internal/domain"
)

// MockChunkRepository is a mock implementation of port.ChunkRepository.
type MockChunkRepository struct {
	mock.Mock
}

func (m *MockChunkRepository) CreateParent(ctx context.Context, chunk *domain.ParentChunk) error {
	args := m.Called(ctx, chunk)
	return args.Error(0)
}

func (m *MockChunkRepository) CreateChild(ctx context.Context, chunk *domain.ChildChunk) error {
	args := m.Called(ctx, chunk)
	return args.Error(0)
}

func (m *MockChunkRepository) HasChunks(ctx context.Context, paperID uuid.UUID) (bool, error) {
	args := m.Called(ctx, paperID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChunkRepository) Retrieve(ctx context.Context, paperID uuid.UUID, query string, topK int) ([]domain.RetrievedChunk, error) {
	args := m.Called(ctx, paperID, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RetrievedChunk), args.Error(1)
}
