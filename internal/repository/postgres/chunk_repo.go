package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"argusai/internal/domain"
	"argusai/internal/port"
)

type chunkRepo struct {
	db *sqlx.DB
}

// NewChunkRepo creates a new PostgreSQL-backed ChunkRepository.
func NewChunkRepo(db *sqlx.DB) port.ChunkRepository {
	return &chunkRepo{db: db}
}

func (r *chunkRepo) CreateParent(ctx context.Context, chunk *domain.ParentChunk) error {
	query := `INSERT INTO parent_chunks (paper_id, start_page, end_page, text)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		chunk.PaperID, chunk.StartPage, chunk.EndPage, chunk.Text).Scan(&chunk.ID)
	if err != nil {
		return fmt.Errorf("chunkRepo.CreateParent: %w", err)
	}
	return nil
}

func (r *chunkRepo) CreateChild(ctx context.Context, chunk *domain.ChildChunk) error {
	query := `INSERT INTO child_chunks (parent_id, start_page, end_page, text)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		chunk.ParentID, chunk.StartPage, chunk.EndPage, chunk.Text).Scan(&chunk.ID)
	if err != nil {
		return fmt.Errorf("chunkRepo.CreateChild: %w", err)
	}
	return nil
}

func (r *chunkRepo) HasChunks(ctx context.Context, paperID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM parent_chunks WHERE paper_id = $1)", paperID)
	if err != nil {
		return false, fmt.Errorf("chunkRepo.HasChunks: %w", err)
	}
	return exists, nil
}

// matchedChild is a retrieval row: a child hit joined with its parent.
type matchedChild struct {
	ChildID   int64  `db:"child_id"`
	ParentID  int64  `db:"parent_id"`
	StartPage int    `db:"start_page"`
	EndPage   int    `db:"end_page"`
	Text      string `db:"text"`
	Score     int    `db:"score"`
}

func (r *chunkRepo) Retrieve(ctx context.Context, paperID uuid.UUID, query string, topK int) ([]domain.RetrievedChunk, error) {
	terms := queryTerms(query)
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}

	// Score each child by how many query terms it contains, then walk the
	// ranked children and collect their parents, deduped in first-match
	// order.
	var scoreParts []string
	args := []any{paperID}
	for _, term := range terms {
		args = append(args, "%"+term+"%")
		scoreParts = append(scoreParts, fmt.Sprintf("(CASE WHEN c.text ILIKE $%d THEN 1 ELSE 0 END)", len(args)))
	}
	scoreExpr := strings.Join(scoreParts, " + ")

	sqlQuery := fmt.Sprintf(`SELECT c.id AS child_id, p.id AS parent_id,
			p.start_page, p.end_page, p.text, (%s) AS score
		FROM child_chunks c
		JOIN parent_chunks p ON p.id = c.parent_id
		WHERE p.paper_id = $1
		ORDER BY score DESC, c.id ASC`, scoreExpr)

	var rows []matchedChild
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("chunkRepo.Retrieve: %w", err)
	}

	var result []domain.RetrievedChunk
	index := map[int64]int{}
	for _, row := range rows {
		if row.Score == 0 {
			break
		}
		if i, seen := index[row.ParentID]; seen {
			result[i].ChildIDs = append(result[i].ChildIDs, row.ChildID)
			continue
		}
		if len(result) >= topK {
			continue
		}
		index[row.ParentID] = len(result)
		result = append(result, domain.RetrievedChunk{
			ParentID:  row.ParentID,
			StartPage: row.StartPage,
			EndPage:   row.EndPage,
			Text:      row.Text,
			ChildIDs:  []int64{row.ChildID},
		})
	}
	return result, nil
}

// queryTerms lowercases the query and keeps terms of 3+ characters so
// stop words like "of" and "an" do not dominate the match.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	var terms []string
	seen := map[string]bool{}
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if len(f) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
