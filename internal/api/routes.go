package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rishav-sunny/voice-summarizer/domain/repositories"
	"github.com/rishav-sunny/voice-summarizer/internal/websocket"
	"github.com/rishav-sunny/voice-summarizer/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	transcriber repositories.LiveTranscriber,
	store repositories.TranscriptStore,
	summaryService *usecase.SummaryService,
	logger *zap.Logger,
) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: "voice-summarizer",
		})
	})

	// Session summarization
	e.POST("/summarize", func(c echo.Context) error {
		return summarize(c, summaryService, logger)
	})

	// Streaming transcription endpoint, addressed by session identifier
	e.GET("/ws/transcribe/:session_id", func(c echo.Context) error {
		sessionID := c.Param("session_id")
		if sessionID == "" {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "missing_session_id",
				Message: "Session identifier is required in the path",
			})
		}
		return websocket.HandleTranscribe(c, sessionID, transcriber, store, logger)
	})
}

// summarize flattens the stored transcript for a session and returns its
// summary. Summarizer failures never surface: the service falls back locally.
func summarize(c echo.Context, summaryService *usecase.SummaryService, logger *zap.Logger) error {
	var req SummaryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind summary request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Session ID is required",
		})
	}

	summary, source := summaryService.Summarize(c.Request().Context(), req.SessionID)

	return c.JSON(http.StatusOK, SummaryResponse{
		SessionID: req.SessionID,
		Summary:   summary,
		Source:    string(source),
	})
}
