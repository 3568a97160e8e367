package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rishav-sunny/voice-summarizer/domain/entities"
	"github.com/rishav-sunny/voice-summarizer/domain/repositories"
)

const (
	emptyTranscriptSummary = "No transcript available to summarize."

	// Local fallback shape: short lines only, capped bullet count.
	maxBulletLength = 200
	maxBullets      = 12
)

// SummaryService turns a session's stored transcript into a summary. It
// prefers the external summarizer when one is configured and always falls
// back to a local bullet heuristic, so callers never see a summarization
// failure.
type SummaryService struct {
	store      repositories.TranscriptStore
	summarizer repositories.Summarizer // nil selects the local fallback
	logger     *zap.Logger
}

// NewSummaryService creates a summary service. A nil summarizer means only
// the local heuristic is used.
func NewSummaryService(
	store repositories.TranscriptStore,
	summarizer repositories.Summarizer,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		store:      store,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Summarize flattens the session transcript and produces a summary with its
// source tag. It never fails: external errors are absorbed by the fallback.
func (s *SummaryService) Summarize(ctx context.Context, sessionID string) (string, repositories.SummarySource) {
	transcript := entities.FlattenTranscript(s.store.ReadAll(sessionID))

	if s.summarizer == nil || strings.TrimSpace(transcript) == "" {
		return localSummarize(transcript), repositories.SummarySourceLocal
	}

	summary, err := s.summarizer.Summarize(ctx, transcript)
	if err != nil {
		s.logger.Warn("External summarizer failed, using local fallback",
			zap.String("sessionID", sessionID),
			zap.Error(err))
		return localSummarize(transcript), repositories.SummarySourceLocal
	}

	return summary, repositories.SummarySourceExternal
}

// localSummarize builds a bullet list from the transcript: one bullet per
// short line, capped at maxBullets.
func localSummarize(transcript string) string {
	var bullets []string
	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= maxBulletLength {
			bullets = append(bullets, "• "+line)
		}
		if len(bullets) >= maxBullets {
			break
		}
	}

	if len(bullets) == 0 {
		return emptyTranscriptSummary
	}
	return strings.Join(bullets, "\n")
}
