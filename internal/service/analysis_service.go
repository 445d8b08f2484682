package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"argusai/internal/config"
	"argusai/internal/domain"
	"argusai/internal/extract"
	"argusai/internal/port"
	"argusai/internal/render"
	"argusai/internal/salvage"
	"argusai/internal/scoring"
)

// auditQuery seeds retrieval when the manuscript is too long for a
// single prompt: it biases context toward the sections an advisor
// audits first.
const auditQuery = "methodology data sample identification literature review references results robustness limitations"

// UploadPaperInput is the DTO for manuscript upload requests.
type UploadPaperInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// UploadPaperOutput mirrors the upload response contract.
type UploadPaperOutput struct {
	Status         string          `json:"status"`
	Filename       string          `json:"filename"`
	PaperID        uuid.UUID       `json:"paper_id"`
	Analysis       string          `json:"analysis"`
	AnalysisResult *salvage.Result `json:"analysis_result"`
	AnalysisHTML   string          `json:"analysis_html,omitempty"`
	Assumptions    []string        `json:"assumptions"`
	Scores         *domain.Scores  `json:"scores"`
	Citations      []string        `json:"citations"`
}

// PaperDetail is a paper together with its latest analysis and a
// presigned download link.
type PaperDetail struct {
	Paper          *domain.Paper    `json:"paper"`
	LatestAnalysis *domain.Analysis `json:"latest_analysis,omitempty"`
	DownloadURL    string           `json:"download_url,omitempty"`
}

// AnalysisService defines the manuscript review contract.
type AnalysisService interface {
	Upload(ctx context.Context, input UploadPaperInput) (*UploadPaperOutput, error)
	GetPaper(ctx context.Context, paperID uuid.UUID) (*PaperDetail, error)
	ListPapers(ctx context.Context, offset, limit int) ([]domain.Paper, int, error)
	ListAnalyses(ctx context.Context, paperID uuid.UUID) ([]domain.Analysis, error)
	ListAllAnalyses(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error)
}

type analysisService struct {
	paperRepo    port.PaperRepository
	chunkRepo    port.ChunkRepository
	analysisRepo port.AnalysisRepository
	storage      port.ObjectStorage
	analyzer     port.Analyzer
	s3Cfg        *config.S3Config
	maxChars     int
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	paperRepo port.PaperRepository,
	chunkRepo port.ChunkRepository,
	analysisRepo port.AnalysisRepository,
	storage port.ObjectStorage,
	analyzer port.Analyzer,
	s3Cfg *config.S3Config,
	maxChars int,
) AnalysisService {
	return &analysisService{
		paperRepo:    paperRepo,
		chunkRepo:    chunkRepo,
		analysisRepo: analysisRepo,
		storage:      storage,
		analyzer:     analyzer,
		s3Cfg:        s3Cfg,
		maxChars:     maxChars,
	}
}

func (s *analysisService) Upload(ctx context.Context, input UploadPaperInput) (*UploadPaperOutput, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	contentType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	sniffed := http.DetectContentType(data)
	if !domain.AllowedSniffedTypes[sniffed] {
		return nil, domain.ErrUnsupportedFileType
	}

	sum := sha256.Sum256(data)
	paper := &domain.Paper{
		ID:          uuid.New(),
		Filename:    input.Header.Filename,
		FileHash:    hex.EncodeToString(sum[:]),
		FileSize:    int64(len(data)),
		ContentType: contentType,
		S3Bucket:    s.s3Cfg.Bucket,
	}
	paper.S3Key = fmt.Sprintf("papers/%s/%s", paper.ID, input.Header.Filename)

	log.Printf("analysisService.Upload: received %s (%s, %d bytes)",
		paper.Filename, contentType, paper.FileSize)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      paper.S3Bucket,
		Key:         paper.S3Key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        paper.FileSize,
	})
	if err != nil {
		log.Printf("analysisService.Upload: S3 upload failed for %s: %v", paper.Filename, err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.paperRepo.Create(ctx, paper); err != nil {
		return nil, fmt.Errorf("persisting paper: %w", err)
	}

	pages, err := extract.Text(data, contentType)
	if err != nil {
		log.Printf("analysisService.Upload: text extraction failed for %s: %v", paper.Filename, err)
		pages = nil
	}
	fullText := extract.Join(pages)

	if err := s.persistChunks(ctx, paper.ID, pages); err != nil {
		// Retrieval is an enhancement; analysis proceeds without it.
		log.Printf("analysisService.Upload: chunk persistence failed for %s: %v", paper.ID, err)
	}

	promptText := s.promptText(ctx, paper.ID, fullText)

	out, err := s.analyzer.Analyze(ctx, port.AnalyzeInput{Text: promptText, Filename: paper.Filename})
	if err != nil {
		log.Printf("analysisService.Upload: analyzer failed for %s: %v", paper.ID, err)
		out = &port.AnalyzeOutput{
			RawOutput: fmt.Sprintf("Analyzer unavailable: %v", err),
			ModelUsed: "none",
		}
	}

	result := salvage.Parse(out.RawOutput, salvage.WithRepair())

	scores := scoring.Compute(fullText)
	if scores == nil {
		scores = domain.DefaultScores()
	}

	assumptions := assumptionsFor(result, out.RawOutput)

	resp := &UploadPaperOutput{
		Status:         "success",
		Filename:       paper.Filename,
		PaperID:        paper.ID,
		Analysis:       out.RawOutput,
		AnalysisResult: result,
		Assumptions:    assumptions,
		Scores:         scores,
		Citations:      scores.Citations,
	}
	if result == nil {
		resp.AnalysisHTML = render.Markdown(out.RawOutput)
	}
	if resp.Assumptions == nil {
		resp.Assumptions = []string{}
	}
	if resp.Citations == nil {
		resp.Citations = []string{}
	}

	analysis := &domain.Analysis{
		ID:        uuid.New(),
		PaperID:   paper.ID,
		ModelUsed: out.ModelUsed,
		RawOutput: out.RawOutput,
	}
	if result != nil {
		if parsed, err := json.Marshal(result); err == nil {
			analysis.ParsedJSON = parsed
		}
	}
	if scoreJSON, err := json.Marshal(scores); err == nil {
		analysis.ScoresJSON = scoreJSON
	}
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}

	return resp, nil
}

// persistChunks builds and stores the parent/child chunk tree for a
// freshly extracted manuscript.
func (s *analysisService) persistChunks(ctx context.Context, paperID uuid.UUID, pages []extract.Page) error {
	if len(pages) == 0 {
		return nil
	}
	exists, err := s.chunkRepo.HasChunks(ctx, paperID)
	if err != nil || exists {
		return err
	}

	for _, span := range extract.BuildParents(pages, extract.DefaultParentMaxChars) {
		parent := &domain.ParentChunk{
			PaperID:   paperID,
			StartPage: span.StartPage,
			EndPage:   span.EndPage,
			Text:      span.Text,
		}
		if err := s.chunkRepo.CreateParent(ctx, parent); err != nil {
			return err
		}
		for _, childText := range extract.SplitChildren(span.Text, extract.DefaultChildSize) {
			child := &domain.ChildChunk{
				ParentID:  parent.ID,
				StartPage: span.StartPage,
				EndPage:   span.EndPage,
				Text:      childText,
			}
			if err := s.chunkRepo.CreateChild(ctx, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// promptText returns the text to analyze. Short manuscripts go in
// whole; long ones are replaced by retrieved high-signal chunks so the
// prompt covers the sections that matter instead of just the front of
// the document.
func (s *analysisService) promptText(ctx context.Context, paperID uuid.UUID, fullText string) string {
	if s.maxChars <= 0 || len(fullText) <= s.maxChars {
		return fullText
	}

	topK := s.maxChars / extract.DefaultParentMaxChars
	if topK < 1 {
		topK = 1
	}
	retrieved, err := s.chunkRepo.Retrieve(ctx, paperID, auditQuery, topK)
	if err != nil || len(retrieved) == 0 {
		if err != nil {
			log.Printf("analysisService.promptText: retrieval failed for %s: %v", paperID, err)
		}
		return fullText[:s.maxChars]
	}

	var parts []string
	for _, chunk := range retrieved {
		parts = append(parts, fmt.Sprintf("[pages %d-%d]\n%s", chunk.StartPage, chunk.EndPage, chunk.Text))
	}
	return strings.Join(parts, "\n\n")
}

func (s *analysisService) GetPaper(ctx context.Context, paperID uuid.UUID) (*PaperDetail, error) {
	paper, err := s.paperRepo.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}

	detail := &PaperDetail{Paper: paper}

	latest, err := s.analysisRepo.GetLatestByPaper(ctx, paperID)
	if err == nil {
		detail.LatestAnalysis = latest
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	url, err := s.storage.GetPresignedURL(ctx, paper.S3Bucket, paper.S3Key, s.s3Cfg.PresignExpiry)
	if err != nil {
		log.Printf("analysisService.GetPaper: presign failed for %s: %v", paperID, err)
	} else {
		detail.DownloadURL = url
	}

	return detail, nil
}

func (s *analysisService) ListPapers(ctx context.Context, offset, limit int) ([]domain.Paper, int, error) {
	return s.paperRepo.List(ctx, offset, limit)
}

func (s *analysisService) ListAnalyses(ctx context.Context, paperID uuid.UUID) ([]domain.Analysis, error) {
	if _, err := s.paperRepo.GetByID(ctx, paperID); err != nil {
		return nil, err
	}
	return s.analysisRepo.ListByPaper(ctx, paperID)
}

func (s *analysisService) ListAllAnalyses(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error) {
	return s.analysisRepo.ListAll(ctx, offset, limit)
}

var bulletRe = regexp.MustCompile(`^[0-9]+[.)]`)

// assumptionsFor prefers the salvaged assumptions and otherwise scrapes
// up to three bullets from an "Assumptions" heading in the raw text.
func assumptionsFor(result *salvage.Result, raw string) []string {
	if result != nil && len(result.Assumptions) > 0 {
		return result.Assumptions
	}
	return scrapeAssumptions(raw)
}

var assumptionsHeadingRe = regexp.MustCompile(`(?i)\n\s*assumptions\s*[:\n]`)

func scrapeAssumptions(text string) []string {
	parts := assumptionsHeadingRe.Split(text, 2)
	if len(parts) < 2 {
		return nil
	}
	block := strings.SplitN(parts[1], "\n\n", 2)[0]

	var assumptions []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || bulletRe.MatchString(line) {
			assumptions = append(assumptions, strings.TrimSpace(strings.TrimLeft(line, "-* 0123456789.()")))
		} else if len(assumptions) < 3 && len(line) < 200 {
			assumptions = append(assumptions, line)
		}
	}
	if len(assumptions) > 3 {
		assumptions = assumptions[:3]
	}
	return assumptions
}
