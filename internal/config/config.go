package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	ModelProvider     string
	OpenAIKey         string
	OpenAIEndpoint    string
	OpenAIModel       string
	VertexProjectID   string
	VertexRegion      string
	VertexModel       string
	UploadDir         string
	ResultsDir        string
	StageTimeout      time.Duration
	ScreenshotTimeout time.Duration
}

// Load reads configuration from the environment, providing sensible defaults.
func Load() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()
	cfg := Config{
		ModelProvider:     getEnv("MODEL_PROVIDER", "openai"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint:    getEnv("OPENAI_API_ENDPOINT", "https://api.openai.com/v1"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		VertexProjectID:   os.Getenv("VERTEX_PROJECT_ID"),
		VertexRegion:      getEnv("VERTEX_REGION", "us-central1"),
		VertexModel:       getEnv("VERTEX_MODEL", "gemini-1.5-pro"),
		UploadDir:         getEnv("UPLOAD_DIR", "./temp"),
		ResultsDir:        os.Getenv("RESULTS_DIR"),
		StageTimeout:      getEnvSeconds("STAGE_TIMEOUT_SECONDS", 120),
		ScreenshotTimeout: getEnvSeconds("SCREENSHOT_TIMEOUT_SECONDS", 60),
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("failed to ensure upload dir %s: %v", cfg.UploadDir, err)
	}
	if cfg.ResultsDir != "" {
		if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
			log.Fatalf("failed to ensure results dir %s: %v", cfg.ResultsDir, err)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("ignoring invalid %s value %q", key, val)
	}
	return time.Duration(fallback) * time.Second
}
