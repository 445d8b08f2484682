package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"argusai/internal/domain"
	"argusai/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, analysis *domain.Analysis) error {
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO analyses (
		id, paper_id, model_used, raw_output, parsed_json, scores_json, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		analysis.ID, analysis.PaperID, analysis.ModelUsed, analysis.RawOutput,
		analysis.ParsedJSON, analysis.ScoresJSON, analysis.CreatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetLatestByPaper(ctx context.Context, paperID uuid.UUID) (*domain.Analysis, error) {
	var analysis domain.Analysis
	err := r.db.GetContext(ctx, &analysis,
		"SELECT * FROM analyses WHERE paper_id = $1 ORDER BY created_at DESC LIMIT 1", paperID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetLatestByPaper: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepo) ListByPaper(ctx context.Context, paperID uuid.UUID) ([]domain.Analysis, error) {
	var analyses []domain.Analysis
	err := r.db.SelectContext(ctx, &analyses,
		"SELECT * FROM analyses WHERE paper_id = $1 ORDER BY created_at DESC", paperID)
	if err != nil {
		return nil, fmt.Errorf("analysisRepo.ListByPaper: %w", err)
	}
	return analyses, nil
}

func (r *analysisRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM analyses")
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListAll count: %w", err)
	}

	var analyses []domain.Analysis
	err = r.db.SelectContext(ctx, &analyses,
		"SELECT * FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListAll: %w", err)
	}
	return analyses, total, nil
}
