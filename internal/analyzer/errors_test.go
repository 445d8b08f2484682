package analyzer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"argusai/internal/analyzer"
)

func TestNewRateLimitError_Defaults(t *testing.T) {
	cause := errors.New("status 429")
	err := analyzer.NewRateLimitError("gemini", cause, 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Equal(t, "gemini", err.Provider)
	assert.ErrorIs(t, err, cause)
}

func TestNewRateLimitError_ExplicitRetryAfter(t *testing.T) {
	err := analyzer.NewRateLimitError("openai", errors.New("status 429"), 17)
	assert.Equal(t, 17*time.Second, err.RetryAfter)
	assert.Contains(t, err.Error(), "openai rate limited")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, analyzer.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, analyzer.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, 42, analyzer.ParseRetryAfterHeader("42"))
}
