package analyzer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"argusai/internal/analyzer"
	"argusai/internal/port"
	"argusai/mocks"
)

func TestFallbackAnalyzer_PrimarySucceeds(t *testing.T) {
	primary := new(mocks.MockAnalyzer)
	secondary := new(mocks.MockAnalyzer)

	out := &port.AnalyzeOutput{RawOutput: "{}", ModelUsed: "gemini-2.5-flash"}
	primary.On("Analyze", mock.Anything, mock.Anything).Return(out, nil)

	f := analyzer.NewFallbackAnalyzer([]port.Analyzer{primary, secondary}, []string{"gemini", "openai"})

	got, err := f.Analyze(context.Background(), port.AnalyzeInput{Text: "paper"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", got.ModelUsed)
	secondary.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestFallbackAnalyzer_FallsBackOnError(t *testing.T) {
	primary := new(mocks.MockAnalyzer)
	secondary := new(mocks.MockAnalyzer)

	primary.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	out := &port.AnalyzeOutput{RawOutput: "{}", ModelUsed: "gpt-4o-mini"}
	secondary.On("Analyze", mock.Anything, mock.Anything).Return(out, nil)

	f := analyzer.NewFallbackAnalyzer([]port.Analyzer{primary, secondary}, []string{"gemini", "openai"})

	got, err := f.Analyze(context.Background(), port.AnalyzeInput{Text: "paper"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got.ModelUsed)
	primary.AssertExpectations(t)
	secondary.AssertExpectations(t)
}

func TestFallbackAnalyzer_RateLimitOpensCircuit(t *testing.T) {
	primary := new(mocks.MockAnalyzer)
	secondary := new(mocks.MockAnalyzer)

	rlErr := analyzer.NewRateLimitError("gemini", errors.New("status 429"), 60)
	primary.On("Analyze", mock.Anything, mock.Anything).Return(nil, rlErr).Once()
	out := &port.AnalyzeOutput{RawOutput: "{}", ModelUsed: "gpt-4o-mini"}
	secondary.On("Analyze", mock.Anything, mock.Anything).Return(out, nil).Twice()

	f := analyzer.NewFallbackAnalyzer([]port.Analyzer{primary, secondary}, []string{"gemini", "openai"})

	_, err := f.Analyze(context.Background(), port.AnalyzeInput{Text: "paper"})
	require.NoError(t, err)

	// Second call skips the rate-limited primary entirely.
	_, err = f.Analyze(context.Background(), port.AnalyzeInput{Text: "paper"})
	require.NoError(t, err)
	primary.AssertNumberOfCalls(t, "Analyze", 1)
	secondary.AssertNumberOfCalls(t, "Analyze", 2)
}

func TestFallbackAnalyzer_AllRateLimited(t *testing.T) {
	primary := new(mocks.MockAnalyzer)
	secondary := new(mocks.MockAnalyzer)

	primary.On("Analyze", mock.Anything, mock.Anything).Return(nil, analyzer.NewRateLimitError("gemini", errors.New("status 429"), 30))
	secondary.On("Analyze", mock.Anything, mock.Anything).Return(nil, analyzer.NewRateLimitError("openai", errors.New("status 429"), 90))

	f := analyzer.NewFallbackAnalyzer([]port.Analyzer{primary, secondary}, []string{"gemini", "openai"})

	_, err := f.Analyze(context.Background(), port.AnalyzeInput{Text: "paper"})
	require.Error(t, err)

	var rlErr *analyzer.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackAnalyzer_AllFail(t *testing.T) {
	primary := new(mocks.MockAnalyzer)
	secondary := new(mocks.MockAnalyzer)

	primary.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("first down"))
	secondary.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("second down"))

	f := analyzer.NewFallbackAnalyzer([]port.Analyzer{primary, secondary}, []string{"gemini", "openai"})

	_, err := f.Analyze(context.Background(), port.AnalyzeInput{Text: "paper"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all analyzers failed")
	assert.Contains(t, err.Error(), "second down")
}
