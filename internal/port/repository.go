package port

import (
	"context"

	"github.com/google/uuid"

	"argusai/internal/domain"
)

// PaperRepository persists uploaded manuscripts.
type PaperRepository interface {
	Create(ctx context.Context, paper *domain.Paper) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Paper, error)
	GetByHash(ctx context.Context, filehash string) (*domain.Paper, error)
	List(ctx context.Context, offset, limit int) ([]domain.Paper, int, error)
}

// ChunkRepository persists and retrieves the parent/child chunk tree.
type ChunkRepository interface {
	CreateParent(ctx context.Context, chunk *domain.ParentChunk) error
	CreateChild(ctx context.Context, chunk *domain.ChildChunk) error
	// HasChunks reports whether a paper has been chunked already.
	HasChunks(ctx context.Context, paperID uuid.UUID) (bool, error)
	// Retrieve matches query terms against child chunks and returns the
	// corresponding parent chunks, deduped in first-match order.
	Retrieve(ctx context.Context, paperID uuid.UUID, query string, topK int) ([]domain.RetrievedChunk, error)
}

// AnalysisRepository persists analyzer runs.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.Analysis) error
	GetLatestByPaper(ctx context.Context, paperID uuid.UUID) (*domain.Analysis, error)
	ListByPaper(ctx context.Context, paperID uuid.UUID) ([]domain.Analysis, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error)
}
