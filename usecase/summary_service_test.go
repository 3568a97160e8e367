package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/rishav-sunny/voice-summarizer/domain/entities"
	"github.com/rishav-sunny/voice-summarizer/domain/repositories"
	"github.com/rishav-sunny/voice-summarizer/repository"
)

type stubSummarizer struct {
	summary string
	err     error
	called  bool
	gotText string
}

func (s *stubSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	s.called = true
	s.gotText = transcript
	return s.summary, s.err
}

func TestSummaryService_EmptySession(t *testing.T) {
	store := repository.NewInMemoryTranscriptStore()
	service := NewSummaryService(store, nil, zap.NewNop())

	summary, source := service.Summarize(context.Background(), "unknown-session")
	if summary != "No transcript available to summarize." {
		t.Errorf("Expected fixed empty-session summary, got %q", summary)
	}
	if source != repositories.SummarySourceLocal {
		t.Errorf("Expected local source, got %q", source)
	}
}

func TestSummaryService_EmptySessionSkipsExternal(t *testing.T) {
	store := repository.NewInMemoryTranscriptStore()
	summarizer := &stubSummarizer{summary: "should not be used"}
	service := NewSummaryService(store, summarizer, zap.NewNop())

	_, source := service.Summarize(context.Background(), "unknown-session")
	if source != repositories.SummarySourceLocal {
		t.Errorf("Expected local source, got %q", source)
	}
	if summarizer.called {
		t.Error("External summarizer must not be called for an empty transcript")
	}
}

func TestSummaryService_ExternalSuccess(t *testing.T) {
	store := repository.NewInMemoryTranscriptStore()
	store.Append("session-1", entities.TranscriptMessage{Transcript: "we shipped the release", IsFinal: true})
	store.Append("session-1", entities.TranscriptMessage{Transcript: "next sprint starts monday", IsFinal: true, Speaker: "alice"})

	summarizer := &stubSummarizer{summary: "• release shipped\n• sprint planning set"}
	service := NewSummaryService(store, summarizer, zap.NewNop())

	summary, source := service.Summarize(context.Background(), "session-1")
	if source != repositories.SummarySourceExternal {
		t.Errorf("Expected external source, got %q", source)
	}
	if summary != summarizer.summary {
		t.Errorf("Expected external summary, got %q", summary)
	}

	// The flattened transcript carries speaker labels in brackets
	want := "we shipped the release\n[alice] next sprint starts monday"
	if summarizer.gotText != want {
		t.Errorf("Expected flattened transcript %q, got %q", want, summarizer.gotText)
	}
}

func TestSummaryService_ExternalFailureFallsBack(t *testing.T) {
	store := repository.NewInMemoryTranscriptStore()
	store.Append("session-1", entities.TranscriptMessage{Transcript: "discuss budget", IsFinal: true})

	summarizer := &stubSummarizer{err: errors.New("api quota exceeded")}
	service := NewSummaryService(store, summarizer, zap.NewNop())

	summary, source := service.Summarize(context.Background(), "session-1")
	if source != repositories.SummarySourceLocal {
		t.Errorf("Expected local source after external failure, got %q", source)
	}
	if summary == "" {
		t.Error("Fallback summary must not be empty")
	}
	if !strings.Contains(summary, "discuss budget") {
		t.Errorf("Expected fallback bullets from the transcript, got %q", summary)
	}
}

func TestLocalSummarize(t *testing.T) {
	t.Run("bullet shape", func(t *testing.T) {
		got := localSummarize("first point\nsecond point")
		want := "• first point\n• second point"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("long lines are skipped", func(t *testing.T) {
		long := strings.Repeat("x", 250)
		got := localSummarize(long + "\nshort line")
		if strings.Contains(got, long) {
			t.Error("Lines over the length cap must not become bullets")
		}
		if !strings.Contains(got, "short line") {
			t.Errorf("Expected the short line to survive, got %q", got)
		}
	})

	t.Run("bullet cap", func(t *testing.T) {
		lines := make([]string, 20)
		for i := range lines {
			lines[i] = "line"
		}
		got := localSummarize(strings.Join(lines, "\n"))
		if count := strings.Count(got, "•"); count != maxBullets {
			t.Errorf("Expected %d bullets, got %d", maxBullets, count)
		}
	})

	t.Run("blank input", func(t *testing.T) {
		if got := localSummarize("  \n \n"); got != emptyTranscriptSummary {
			t.Errorf("Expected %q, got %q", emptyTranscriptSummary, got)
		}
	})
}
