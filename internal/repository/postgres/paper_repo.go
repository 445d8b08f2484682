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

type paperRepo struct {
	db *sqlx.DB
}

// NewPaperRepo creates a new PostgreSQL-backed PaperRepository.
func NewPaperRepo(db *sqlx.DB) port.PaperRepository {
	return &paperRepo{db: db}
}

func (r *paperRepo) Create(ctx context.Context, paper *domain.Paper) error {
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO papers (
		id, filename, filehash, file_size, content_type,
		s3_bucket, s3_key, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		paper.ID, paper.Filename, paper.FileHash, paper.FileSize, paper.ContentType,
		paper.S3Bucket, paper.S3Key, paper.CreatedAt)
	if err != nil {
		return fmt.Errorf("paperRepo.Create: %w", err)
	}
	return nil
}

func (r *paperRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Paper, error) {
	var paper domain.Paper
	err := r.db.GetContext(ctx, &paper, "SELECT * FROM papers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("paperRepo.GetByID: %w", err)
	}
	return &paper, nil
}

func (r *paperRepo) GetByHash(ctx context.Context, filehash string) (*domain.Paper, error) {
	var paper domain.Paper
	err := r.db.GetContext(ctx, &paper, "SELECT * FROM papers WHERE filehash = $1", filehash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("paperRepo.GetByHash: %w", err)
	}
	return &paper, nil
}

func (r *paperRepo) List(ctx context.Context, offset, limit int) ([]domain.Paper, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM papers")
	if err != nil {
		return nil, 0, fmt.Errorf("paperRepo.List count: %w", err)
	}

	var papers []domain.Paper
	err = r.db.SelectContext(ctx, &papers,
		"SELECT * FROM papers ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("paperRepo.List: %w", err)
	}
	return papers, total, nil
}
