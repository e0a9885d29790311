package main

import (
	"time"

	"replydesk/internal/config"
	"replydesk/internal/email"
	"replydesk/internal/extract"
	"replydesk/internal/ollama"
	"replydesk/internal/server"
	"replydesk/internal/threads"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Thread store backed by the upload directory
	store, err := threads.New(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to initialize thread store")
	}

	// Generative backend
	backend := ollama.NewClient(cfg.OllamaBaseURL, cfg.OllamaModel, time.Duration(cfg.OllamaTimeout)*time.Second)

	// Final-reply delivery is optional; sending is skipped when unconfigured
	mailer := email.NewService(cfg.SendGridAPIKey, cfg.ReplyFromEmail, cfg.ReplyToEmail)
	if !mailer.Configured() {
		logger.Info().Msg("Email delivery not configured, final replies will not be sent")
	}

	// Create and initialize server
	srv := server.New(cfg, logger, store, backend, extract.NewFileExtractor(), mailer)
	srv.Initialize()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed to start")
	}
}
