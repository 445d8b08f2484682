// Package export renders stored analyses as downloadable reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"argusai/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Analysis ID",
	"Paper ID",
	"Model",
	"Mentor Note",
	"Finding Count",
	"Roadmap Steps",
	"Assumptions",
	"Methodology",
	"Originality",
	"Literature",
	"Robustness",
	"Created At",
}

// Writer wraps csv.Writer for exporting analyses as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAnalyses converts a batch of analyses to CSV rows and writes them.
func (w *Writer) WriteAnalyses(analyses []domain.Analysis) error {
	for i := range analyses {
		row := analysisToRow(&analyses[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// analysisToRow converts a single analysis to a string slice. Rows
// where the stored JSON is missing or invalid keep their metadata
// columns and leave the rest empty.
func analysisToRow(analysis *domain.Analysis) []string {
	row := make([]string, len(columns))

	row[0] = analysis.ID.String()
	row[1] = analysis.PaperID.String()
	row[2] = analysis.ModelUsed
	row[11] = analysis.CreatedAt.Format(time.RFC3339)

	if parsed := parsedResult(analysis); parsed != nil {
		row[3] = parsed.MentorNote
		row[4] = strconv.Itoa(len(parsed.BrutalTruth))
		row[5] = strings.Join(parsed.Roadmap, "; ")
		row[6] = strings.Join(parsed.Assumptions, "; ")
	}

	if scores := parsedScores(analysis); scores != nil {
		row[7] = strconv.Itoa(scores.Methodology)
		row[8] = strconv.Itoa(scores.Originality)
		row[9] = strconv.Itoa(scores.Literature)
		row[10] = strconv.Itoa(scores.Robustness)
	}

	return row
}

// exportResult is the subset of the salvaged result the report needs.
// Findings come back as raw JSON since they marshal polymorphically.
type exportResult struct {
	MentorNote  string            `json:"mentor_note"`
	BrutalTruth []json.RawMessage `json:"brutal_truth"`
	Roadmap     []string          `json:"roadmap"`
	Assumptions []string          `json:"assumptions"`
}

func parsedResult(analysis *domain.Analysis) *exportResult {
	if len(analysis.ParsedJSON) == 0 {
		return nil
	}
	var parsed exportResult
	if err := json.Unmarshal(analysis.ParsedJSON, &parsed); err != nil {
		return nil
	}
	return &parsed
}

func parsedScores(analysis *domain.Analysis) *domain.Scores {
	if len(analysis.ScoresJSON) == 0 {
		return nil
	}
	var scores domain.Scores
	if err := json.Unmarshal(analysis.ScoresJSON, &scores); err != nil {
		return nil
	}
	return &scores
}

// BuildFilename returns the report filename for the Content-Disposition
// header. Format: analyses_{YYYY-MM-DD}.{ext}
func BuildFilename(ext string) string {
	return fmt.Sprintf("analyses_%s.%s", time.Now().Format("2006-01-02"), ext)
}
