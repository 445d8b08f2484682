package port

import "context"

// AnalyzeInput carries the extracted manuscript text to an analyzer.
type AnalyzeInput struct {
	Text     string
	Filename string
}

// AnalyzeOutput is the raw result of one model run. RawOutput is the
// model's unparsed text; the salvage package owns turning it into a
// structured result.
type AnalyzeOutput struct {
	RawOutput  string
	ModelUsed  string
	PromptUsed string
}

// Analyzer abstracts an LLM manuscript review backend.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeOutput, error)
}
