package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Paper represents an uploaded manuscript.
type Paper struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Filename    string    `db:"filename" json:"filename"`
	FileHash    string    `db:"filehash" json:"filehash"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	ContentType string    `db:"content_type" json:"content_type"`
	S3Bucket    string    `db:"s3_bucket" json:"-"`
	S3Key       string    `db:"s3_key" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ParentChunk is a coarse block of manuscript text covering a page range.
type ParentChunk struct {
	ID        int64     `db:"id" json:"id"`
	PaperID   uuid.UUID `db:"paper_id" json:"paper_id"`
	StartPage int       `db:"start_page" json:"start_page"`
	EndPage   int       `db:"end_page" json:"end_page"`
	Text      string    `db:"text" json:"text"`
}

// ChildChunk is a fine-grained snippet belonging to a parent chunk.
// Children are what retrieval matches against; parents are what it returns.
type ChildChunk struct {
	ID        int64  `db:"id" json:"id"`
	ParentID  int64  `db:"parent_id" json:"parent_id"`
	StartPage int    `db:"start_page" json:"start_page"`
	EndPage   int    `db:"end_page" json:"end_page"`
	Text      string `db:"text" json:"text"`
}

// RetrievedChunk is a parent chunk returned by retrieval together with
// the child chunks that matched, in first-match order.
type RetrievedChunk struct {
	ParentID  int64   `json:"parent_id"`
	StartPage int     `json:"start_page"`
	EndPage   int     `json:"end_page"`
	Text      string  `json:"text"`
	ChildIDs  []int64 `json:"child_ids"`
}

// Analysis is one stored analyzer run over a paper.
type Analysis struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	PaperID    uuid.UUID       `db:"paper_id" json:"paper_id"`
	ModelUsed  string          `db:"model_used" json:"model_used"`
	RawOutput  string          `db:"raw_output" json:"raw_output"`
	ParsedJSON json.RawMessage `db:"parsed_json" json:"parsed_json,omitempty"`
	ScoresJSON json.RawMessage `db:"scores_json" json:"scores_json,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Scores holds the heuristic readiness scores on a 0-100 scale with
// per-dimension findings and detected citations.
type Scores struct {
	Methodology int            `json:"methodology"`
	Originality int            `json:"originality"`
	Literature  int            `json:"literature"`
	Robustness  int            `json:"robustness"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Citations   []string       `json:"citations,omitempty"`
}

// ScoreBreakdown lists the short findings behind each score.
type ScoreBreakdown struct {
	Methodology []string `json:"methodology"`
	Originality []string `json:"originality"`
	Literature  []string `json:"literature"`
	Robustness  []string `json:"robustness"`
}

// DefaultScores is the display baseline used when scoring was skipped
// or failed. The numbers match the demo state the viewer ships with.
func DefaultScores() *Scores {
	return &Scores{
		Methodology: 85,
		Originality: 72,
		Literature:  80,
		Robustness:  75,
	}
}

// AllowedExtensions maps accepted upload extensions to their declared
// content types.
var AllowedExtensions = map[string]string{
	"pdf": "application/pdf",
	"tex": "text/x-tex",
	"txt": "text/plain",
}

// AllowedSniffedTypes lists content types accepted from magic-byte
// detection. LaTeX and plain text both sniff as text/plain.
var AllowedSniffedTypes = map[string]bool{
	"application/pdf":           true,
	"text/plain; charset=utf-8": true,
	"text/plain":                true,
}
