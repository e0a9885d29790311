package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port                   string
	Version                string
	LogLevel               string
	UploadDir              string // Directory for uploaded documents and their .meta records
	MaxUploadBytes         int64  // Maximum accepted upload size
	OllamaBaseURL          string // Base URL of the local Ollama instance
	OllamaModel            string // Model name used for generation
	OllamaTimeout          int    // Ollama request timeout in seconds
	ContentCacheTTLMinutes int    // TTL for cached extracted document text
	SendGridAPIKey         string // SendGrid API key for delivering final replies
	ReplyFromEmail         string // Sender address for final-reply delivery
	ReplyToEmail           string // Recipient address for final-reply delivery
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:                   getEnv("PORT", "8080"),
		Version:                getEnv("VERSION", "1.0.0"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		UploadDir:              getEnv("UPLOAD_DIR", "static/uploads"),
		MaxUploadBytes:         getEnvInt64("MAX_UPLOAD_BYTES", 16777216), // 16MB
		OllamaBaseURL:          getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:            getEnv("OLLAMA_MODEL", "llama3"),
		OllamaTimeout:          getEnvInt("OLLAMA_TIMEOUT", 60),
		ContentCacheTTLMinutes: getEnvInt("CONTENT_CACHE_TTL_MINUTES", 10),
		SendGridAPIKey:         os.Getenv("SENDGRID_API_KEY"),
		ReplyFromEmail:         getEnv("REPLY_FROM_EMAIL", "noreply@replydesk.local"),
		ReplyToEmail:           os.Getenv("REPLY_TO_EMAIL"),
	}

	return config
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64 gets an environment variable as int64 with a default fallback
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	// Configure zerolog to output JSON without newlines
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Create logger with JSON output to stdout
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "replydesk").
		Str("version", c.Version).
		Logger()

	// Set log level based on configuration
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
