package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"argusai/internal/analyzer"
	"argusai/internal/config"
	"argusai/internal/port"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

func init() {
	analyzer.RegisterProvider("openai", func(cfg *config.AnalyzerProviderConfig, maxChars int) (port.Analyzer, error) {
		return NewAnalyzer(cfg, maxChars), nil
	})
}

// Analyzer implements port.Analyzer using OpenAI's chat completions API.
type Analyzer struct {
	apiKey   string
	model    string
	endpoint string
	maxChars int
	client   *http.Client
}

// NewAnalyzer creates an OpenAI-based manuscript analyzer.
func NewAnalyzer(cfg *config.AnalyzerProviderConfig, maxChars int) *Analyzer {
	return newAnalyzer(cfg, maxChars, "")
}

// NewAnalyzerWithEndpoint creates an analyzer pointing at a custom API
// endpoint (for testing).
func NewAnalyzerWithEndpoint(cfg *config.AnalyzerProviderConfig, maxChars int, endpoint string) *Analyzer {
	return newAnalyzer(cfg, maxChars, endpoint)
}

func newAnalyzer(cfg *config.AnalyzerProviderConfig, maxChars int, endpoint string) *Analyzer {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Analyzer{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		maxChars: maxChars,
		client:   &http.Client{Timeout: timeout},
	}
}

func (a *Analyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*port.AnalyzeOutput, error) {
	prompt := analyzer.BuildReviewPrompt(input.Text, a.maxChars)

	reqBody := map[string]any{
		"model": a.model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
		"max_tokens": 4096,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := analyzer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, analyzer.NewRateLimitError("openai", fmt.Errorf("status 429"), retryAfter)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	return &port.AnalyzeOutput{
		RawOutput:  parsed.Choices[0].Message.Content,
		ModelUsed:  a.model,
		PromptUsed: prompt,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
