package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	OutputDir           string
	UploadDir           string
	ListenAddr          string
	TranslationProvider string
	GoogleAPIKey        string
	GeminiAPIKey        string
	TranslationModel    string
	DatabaseURL         string
	WorkerCount         int
	DefaultDirection    string
	ExcelAutomation     bool
	ExcelOpenAttempts   int
	ExcelRetryDelay     time.Duration
	MaxShapeDepth       int
	ProviderTimeout     time.Duration
	LogLevel            string
	MaxUploadMB         int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		OutputDir:           getEnv("OUTPUT_DIR", "outputs"),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		ListenAddr:          getEnv("LISTEN_ADDR", ":5000"),
		TranslationProvider: getEnv("TRANSLATION_PROVIDER", "google"),
		GoogleAPIKey:        getEnv("GOOGLE_API_KEY", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		TranslationModel:    getEnv("TRANSLATION_MODEL", "gemini-2.5-flash"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		WorkerCount:         getEnvInt("WORKER_COUNT", 1),
		DefaultDirection:    getEnv("DEFAULT_DIRECTION", "auto->ja"),
		ExcelAutomation:     getEnvBool("EXCEL_AUTOMATION", true),
		ExcelOpenAttempts:   getEnvInt("EXCEL_OPEN_ATTEMPTS", 3),
		ExcelRetryDelay:     getEnvDuration("EXCEL_RETRY_DELAY", 2*time.Second),
		MaxShapeDepth:       getEnvInt("MAX_SHAPE_DEPTH", 32),
		ProviderTimeout:     getEnvDuration("PROVIDER_TIMEOUT", 120*time.Second),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		MaxUploadMB:         getEnvInt("MAX_UPLOAD_MB", 50),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
