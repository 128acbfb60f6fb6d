// Package insights turns recent search activity into a short
// natural-language digest using Google's Gemini API.
package insights

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"jobdeck/internal/history"
	"jobdeck/internal/logging"
)

// maxDigestTokens caps the generated digest length.
const maxDigestTokens int32 = 1024

// Summarizer generates digests of search history.
type Summarizer struct {
	client *genai.Client
	model  string
}

// NewSummarizer creates a summarizer backed by the Gemini API.
func NewSummarizer(apiKey, model string) (*Summarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Summarizer{
		client: client,
		model:  model,
	}, nil
}

// Digest summarizes the given records into a markdown briefing. Records
// should be passed newest first, already trimmed to the caller's cap.
func (s *Summarizer) Digest(ctx context.Context, records []history.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no search history to summarize")
	}

	timer := logging.StartTimer(logging.CategoryInsights, "Digest")
	defer timer.Stop()

	logging.Insights("Generating digest for %d records with %s", len(records), s.model)

	contents := []*genai.Content{
		genai.NewContentFromText(buildDigestPrompt(records), genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx,
		s.model,
		contents,
		&genai.GenerateContentConfig{
			MaxOutputTokens: maxDigestTokens,
		},
	)
	if err != nil {
		logging.InsightsWarn("Digest generation failed: %v", err)
		return "", fmt.Errorf("digest generation failed: %w", err)
	}

	text := ""
	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil && len(result.Candidates[0].Content.Parts) > 0 {
		if t := result.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return "", fmt.Errorf("model returned an empty digest")
	}

	logging.InsightsDebug("Digest generated (%d chars)", len(text))
	return text, nil
}

// buildDigestPrompt renders the history into the model prompt. It is a
// pure function so prompt assembly can be tested without the API.
func buildDigestPrompt(records []history.Record) string {
	var sb strings.Builder

	sb.WriteString("You are a job-search assistant. Summarize the user's recent ")
	sb.WriteString("search activity: what roles and locations they focus on, which ")
	sb.WriteString("searches paid off, and one or two concrete suggestions for what ")
	sb.WriteString("to try next.\n\n")
	sb.WriteString("Recent searches, newest first:\n\n")

	for i, r := range records {
		fmt.Fprintf(&sb, "%d. query=%q", i+1, r.Query)
		if r.Location != "" {
			fmt.Fprintf(&sb, " location=%q", r.Location)
		}
		if r.JobType != "" {
			fmt.Fprintf(&sb, " type=%s", r.JobType)
		}
		if r.SalaryRange != "" {
			fmt.Fprintf(&sb, " salary=%s", r.SalaryRange)
		}
		fmt.Fprintf(&sb, " results=%d status=%s on=%s\n",
			r.ResultCount, r.Status, r.SearchedAt.Format("2006-01-02"))
	}

	sb.WriteString("\nRespond in markdown with a short heading, a two-sentence ")
	sb.WriteString("overview, and a bulleted list of suggestions. Keep it under ")
	sb.WriteString("200 words.\n")

	return sb.String()
}
