package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rishav-sunny/voice-summarizer/adapters/llm"
	"github.com/rishav-sunny/voice-summarizer/adapters/stt"
	"github.com/rishav-sunny/voice-summarizer/domain/repositories"
	"github.com/rishav-sunny/voice-summarizer/internal/api"
	"github.com/rishav-sunny/voice-summarizer/internal/config"
	"github.com/rishav-sunny/voice-summarizer/repository"
	"github.com/rishav-sunny/voice-summarizer/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Process-wide transcript store, shared by relay sessions and summarization
	store := repository.NewInMemoryTranscriptStore()

	// Upstream transcription client. A missing API key is reported per
	// session rather than failing boot.
	transcriber := stt.NewDeepgram(stt.Config{
		APIKey: cfg.DeepgramAPIKey,
		URL:    cfg.DeepgramURL,
	}, logger)
	if cfg.DeepgramAPIKey == "" {
		logger.Warn("DEEPGRAM_API_KEY is not set, transcription sessions will fail")
	}

	// External summarizer is optional; without it summaries use the local fallback
	var summarizer repositories.Summarizer
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiSummarizer(context.Background(), cfg.GeminiAPIKey, cfg.SummarizerModel, logger)
		if err != nil {
			logger.Warn("Failed to initialize Gemini summarizer, using local fallback", zap.Error(err))
		} else {
			summarizer = gemini
		}
	} else {
		logger.Info("No summarizer API key configured, using local fallback")
	}

	summaryService := usecase.NewSummaryService(store, summarizer, logger)

	// Initialize API routes
	api.InitRoutes(e, transcriber, store, summaryService, logger)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
