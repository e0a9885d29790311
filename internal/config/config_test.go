package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	// Clear environment variables
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "static/uploads", cfg.UploadDir)
	assert.Equal(t, int64(16777216), cfg.MaxUploadBytes)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaBaseURL)
	assert.Equal(t, "llama3", cfg.OllamaModel)
	assert.Equal(t, 60, cfg.OllamaTimeout)
	assert.Equal(t, 10, cfg.ContentCacheTTLMinutes)
	assert.Equal(t, "noreply@replydesk.local", cfg.ReplyFromEmail)
	assert.Empty(t, cfg.SendGridAPIKey)
	assert.Empty(t, cfg.ReplyToEmail)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	_ = os.Setenv("PORT", "9090")
	_ = os.Setenv("VERSION", "2.0.0")
	_ = os.Setenv("LOG_LEVEL", "debug")
	_ = os.Setenv("UPLOAD_DIR", "/tmp/uploads")
	_ = os.Setenv("MAX_UPLOAD_BYTES", "1048576")
	_ = os.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")
	_ = os.Setenv("OLLAMA_MODEL", "mistral")
	_ = os.Setenv("OLLAMA_TIMEOUT", "120")
	_ = os.Setenv("CONTENT_CACHE_TTL_MINUTES", "5")
	_ = os.Setenv("SENDGRID_API_KEY", "SG.test-key")
	_ = os.Setenv("REPLY_TO_EMAIL", "inbox@example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "2.0.0", cfg.Version)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/uploads", cfg.UploadDir)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, "http://ollama:11434", cfg.OllamaBaseURL)
	assert.Equal(t, "mistral", cfg.OllamaModel)
	assert.Equal(t, 120, cfg.OllamaTimeout)
	assert.Equal(t, 5, cfg.ContentCacheTTLMinutes)
	assert.Equal(t, "SG.test-key", cfg.SendGridAPIKey)
	assert.Equal(t, "inbox@example.com", cfg.ReplyToEmail)
}

func TestLoad_PartialCustomValues(t *testing.T) {
	clearEnv(t)
	_ = os.Setenv("PORT", "3000")
	_ = os.Setenv("OLLAMA_MODEL", "phi3")

	cfg := Load()

	// Custom values
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "phi3", cfg.OllamaModel)

	// Default values for unset variables
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60, cfg.OllamaTimeout)
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue string
		expected     string
	}{
		{
			name:         "existing value",
			key:          "TEST_KEY",
			value:        "test_value",
			defaultValue: "default",
			expected:     "test_value",
		},
		{
			name:         "missing value uses default",
			key:          "MISSING_KEY",
			value:        "",
			defaultValue: "default",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				_ = os.Setenv(tt.key, tt.value)
				defer func() { _ = os.Unsetenv(tt.key) }()
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue int
		expected     int
	}{
		{
			name:         "valid integer",
			key:          "TEST_INT",
			value:        "42",
			defaultValue: 10,
			expected:     42,
		},
		{
			name:         "invalid value uses default",
			key:          "TEST_INVALID",
			value:        "not-a-number",
			defaultValue: 10,
			expected:     10,
		},
		{
			name:         "missing value uses default",
			key:          "TEST_MISSING",
			value:        "",
			defaultValue: 10,
			expected:     10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				_ = os.Setenv(tt.key, tt.value)
				defer func() { _ = os.Unsetenv(tt.key) }()
			}

			result := getEnvInt(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEnvInt64(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue int64
		expected     int64
	}{
		{
			name:         "valid value",
			key:          "TEST_INT64",
			value:        "33554432",
			defaultValue: 16777216,
			expected:     33554432,
		},
		{
			name:         "invalid value uses default",
			key:          "TEST_INT64_INVALID",
			value:        "16MB",
			defaultValue: 16777216,
			expected:     16777216,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				_ = os.Setenv(tt.key, tt.value)
				defer func() { _ = os.Unsetenv(tt.key) }()
			}

			result := getEnvInt64(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level defaults to info", "invalid"},
		{"empty level defaults to info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Version:  "test-version",
				LogLevel: tt.logLevel,
			}

			logger := cfg.SetupLogger()
			assert.NotNil(t, logger)
		})
	}
}

// Helper function to clear relevant environment variables
func clearEnv(t *testing.T) {
	vars := []string{
		"PORT",
		"VERSION",
		"LOG_LEVEL",
		"UPLOAD_DIR",
		"MAX_UPLOAD_BYTES",
		"OLLAMA_BASE_URL",
		"OLLAMA_MODEL",
		"OLLAMA_TIMEOUT",
		"CONTENT_CACHE_TTL_MINUTES",
		"SENDGRID_API_KEY",
		"REPLY_FROM_EMAIL",
		"REPLY_TO_EMAIL",
	}

	for _, v := range vars {
		_ = os.Unsetenv(v)
	}

	// Cleanup after test
	t.Cleanup(func() {
		for _, v := range vars {
			_ = os.Unsetenv(v)
		}
	})
}
