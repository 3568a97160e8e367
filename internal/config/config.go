package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration, read once at startup.
//
// DeepgramAPIKey may be empty: its absence is reported per relay session
// rather than failing boot. An empty GeminiAPIKey silently selects the local
// summarization fallback.
type Config struct {
	Port string

	DeepgramAPIKey string
	DeepgramURL    string // optional endpoint override

	GeminiAPIKey    string
	SummarizerModel string
}

// Load reads configuration from the environment, with .env support.
func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DeepgramAPIKey:  os.Getenv("DEEPGRAM_API_KEY"),
		DeepgramURL:     os.Getenv("DEEPGRAM_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		SummarizerModel: os.Getenv("SUMMARIZER_MODEL"),
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
