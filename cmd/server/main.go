package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"argusai/internal/analyzer"
	_ "argusai/internal/analyzer/gemini"
	_ "argusai/internal/analyzer/openai"
	"argusai/internal/config"
	"argusai/internal/handler"
	"argusai/internal/port"
	"argusai/internal/repository/postgres"
	"argusai/internal/router"
	"argusai/internal/service"
	s3storage "argusai/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Printf("primary analyzer: %s (key %s)",
		cfg.Analyzer.Primary.Provider, maskKey(cfg.Analyzer.Primary.APIKey))

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	paperRepo := postgres.NewPaperRepo(db)
	chunkRepo := postgres.NewChunkRepo(db)
	analysisRepo := postgres.NewAnalysisRepo(db)

	// Initialize storage
	paperStore, err := s3storage.NewPaperStore(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize analyzer chain
	llm, err := buildAnalyzer(&cfg.Analyzer)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	// Initialize services
	analysisSvc := service.NewAnalysisService(
		paperRepo, chunkRepo, analysisRepo, paperStore, llm, &cfg.S3, cfg.Analyzer.MaxChars)

	// Initialize handlers
	paperH := handler.NewPaperHandler(analysisSvc)
	reportH := handler.NewReportHandler(analysisSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, paperH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildAnalyzer assembles the provider fallback chain. With no API key
// configured the debug stub stands in so uploads still work end to end.
func buildAnalyzer(cfg *config.AnalyzerConfig) (port.Analyzer, error) {
	if cfg.Primary.APIKey == "" {
		log.Printf("no analyzer API key set, using debug analyzer")
		return analyzer.DebugAnalyzer{}, nil
	}

	primary, err := analyzer.NewAnalyzer(&cfg.Primary, cfg.MaxChars)
	if err != nil {
		return nil, err
	}

	analyzers := []port.Analyzer{primary}
	names := []string{cfg.Primary.Provider}

	if secondary := cfg.SecondaryConfig(); secondary != nil && secondary.APIKey != "" {
		fallback, err := analyzer.NewAnalyzer(secondary, cfg.MaxChars)
		if err != nil {
			return nil, err
		}
		analyzers = append(analyzers, fallback)
		names = append(names, secondary.Provider)
	}

	if len(analyzers) == 1 {
		return primary, nil
	}
	return analyzer.NewFallbackAnalyzer(analyzers, names), nil
}

// maskKey shows just enough of an API key to confirm which one loaded.
func maskKey(k string) string {
	if k == "" {
		return "unset"
	}
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + "..." + k[len(k)-4:]
}
