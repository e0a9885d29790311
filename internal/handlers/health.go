package handlers

import (
	"net/http"
	"time"

	"replydesk/internal/config"
	"replydesk/internal/models"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles basic health check requests
// @Summary Service health
// @Description Basic liveness check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func HealthHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   version,
		}

		return c.JSON(http.StatusOK, response)
	}
}

// RootHandler handles requests to the root endpoint
func RootHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "AI Email System API",
			"version": version,
			"status":  "running",
		})
	}
}

// ChatHealthResponse reports generative-backend health and configuration
// @Description Chat service health
type ChatHealthResponse struct {
	Service      string            `json:"service"`
	OllamaHealth interface{}       `json:"ollama_health"`
	Config       map[string]string `json:"config"`
	Features     map[string]bool   `json:"features"`
}

// ChatHealthHandler checks the generative backend with enhanced diagnostics
// @Summary Chat service health
// @Description Reports Ollama reachability, model availability and enabled features
// @Tags chat
// @Produce json
// @Success 200 {object} ChatHealthResponse
// @Router /api/chat/health [get]
func ChatHealthHandler(backend Backend, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		health := backend.Health(c.Request().Context())

		status := http.StatusOK
		if !health.Healthy {
			status = http.StatusServiceUnavailable
		}

		return c.JSON(status, ChatHealthResponse{
			Service:      "chat",
			OllamaHealth: health,
			Config: map[string]string{
				"model":    cfg.OllamaModel,
				"base_url": cfg.OllamaBaseURL,
			},
			Features: map[string]bool{
				"context_memory":              true,
				"conversation_tracking":       true,
				"accumulated_info_extraction": true,
				"enhanced_email_generation":   true,
			},
		})
	}
}
