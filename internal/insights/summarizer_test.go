package insights

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdeck/internal/history"
)

func TestNewSummarizer_RequiresAPIKey(t *testing.T) {
	_, err := NewSummarizer("", "gemini-2.0-flash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestDigest_RejectsEmptyHistory(t *testing.T) {
	s := &Summarizer{model: "gemini-2.0-flash"}
	_, err := s.Digest(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no search history")
}

func TestBuildDigestPrompt(t *testing.T) {
	searched := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	records := []history.Record{
		{
			Query:       "staff engineer",
			Location:    "Remote",
			JobType:     "full-time",
			SalaryRange: "180k-220k",
			ResultCount: 42,
			Status:      history.StatusCompleted,
			SearchedAt:  searched,
		},
		{
			Query:      "devops",
			Status:     history.StatusFailed,
			SearchedAt: searched.Add(-24 * time.Hour),
		},
	}

	prompt := buildDigestPrompt(records)

	assert.Contains(t, prompt, `1. query="staff engineer"`)
	assert.Contains(t, prompt, `location="Remote"`)
	assert.Contains(t, prompt, "type=full-time")
	assert.Contains(t, prompt, "salary=180k-220k")
	assert.Contains(t, prompt, "results=42 status=completed on=2026-08-20")
	assert.Contains(t, prompt, `2. query="devops"`)
	assert.Contains(t, prompt, "status=failed on=2026-08-19")

	// Empty optional filters stay out of the prompt.
	assert.NotContains(t, prompt, `location=""`)

	// Ordering is preserved.
	assert.Less(t,
		strings.Index(prompt, "staff engineer"),
		strings.Index(prompt, "devops"))
}
