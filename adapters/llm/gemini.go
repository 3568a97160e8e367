package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel   = "gemini-2.0-flash"
	requestTimeout = 30 * time.Second

	summaryPrompt = "You are a concise meeting summarizer. Summarize the following transcript " +
		"into 6-10 clear bullet points, group related ideas, and highlight decisions and " +
		"action items. Keep bullets short. Transcript:\n\n"
)

// GeminiSummarizer implements the Summarizer interface using Google's Gemini API.
type GeminiSummarizer struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

// NewGeminiSummarizer creates a Gemini-backed summarizer. An empty model name
// selects the default model.
func NewGeminiSummarizer(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}

	return &GeminiSummarizer{
		client: client,
		logger: logger,
		model:  model,
	}, nil
}

// Summarize asks Gemini for a meeting summary of the flattened transcript.
// Any failure is returned to the caller, which owns the fallback decision.
func (g *GeminiSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(summaryPrompt+transcript, genai.RoleUser),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(part.Text)
		}
	}

	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	g.logger.Info("Generated summary",
		zap.String("model", g.model),
		zap.Int("transcript_length", len(transcript)),
		zap.Int("summary_length", len(summary)))

	return summary, nil
}
