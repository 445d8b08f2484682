package analyzer

import (
	"context"

	"argusai/internal/port"
)

// DebugAnalyzer stands in when no provider API key is configured; the
// upload flow still completes with a placeholder report instead of
// failing.
type DebugAnalyzer struct{}

func (DebugAnalyzer) Analyze(_ context.Context, _ port.AnalyzeInput) (*port.AnalyzeOutput, error) {
	return &port.AnalyzeOutput{
		RawOutput: "DEBUG: analyzer skipped (no API key)",
		ModelUsed: "debug",
	}, nil
}
