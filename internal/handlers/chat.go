package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"replydesk/internal/config"
	"replydesk/internal/conversation"
	"replydesk/internal/models"
	"replydesk/internal/ollama"
	"replydesk/internal/prompt"
	"replydesk/internal/shaper"
	"replydesk/internal/signals"
	"replydesk/internal/threads"

	"github.com/labstack/echo/v4"
)

// Backend is the generative-backend surface the chat handlers depend on.
type Backend interface {
	Generate(ctx context.Context, promptText, system string, opts ollama.Options) (string, error)
	Health(ctx context.Context) ollama.HealthStatus
}

// Sampling parameters per path, matching the generation profiles the service
// has always used.
const (
	emailTemperature = 0.7
	chatTemperature  = 0.8
	topP             = 0.9
	repeatPenalty    = 1.1
)

// ThreadHistoryResponse carries a thread's history with conversation analysis
// @Description Thread history with conversation insights
type ThreadHistoryResponse struct {
	Success             bool                 `json:"success"`
	ThreadID            string               `json:"thread_id,omitempty"`
	Subject             string               `json:"subject,omitempty"`
	ChatHistory         []models.Turn        `json:"chat_history"`
	FinalReply          *string              `json:"final_reply,omitempty"`
	HasReply            bool                 `json:"has_reply"`
	ConversationSummary conversation.Summary `json:"conversation_summary"`
	AccumulatedInfo     signals.Signals      `json:"accumulated_info"`
	ContextDepth        int                  `json:"context_depth"`
	Error               string               `json:"error,omitempty"`
	ErrorKind           string               `json:"error_kind,omitempty"`
}

// ThreadContextResponse carries the current conversation context
// @Description Current conversation context and accumulated information
type ThreadContextResponse struct {
	Success             bool                 `json:"success"`
	ThreadID            string               `json:"thread_id,omitempty"`
	ConversationSummary conversation.Summary `json:"conversation_summary"`
	AccumulatedInfo     signals.Signals      `json:"accumulated_info"`
	ContextStrength     string               `json:"context_strength,omitempty"`
	ReadyForEmail       bool                 `json:"ready_for_email"`
	Error               string               `json:"error,omitempty"`
	ErrorKind           string               `json:"error_kind,omitempty"`
}

// turnResult is the outcome of one generation attempt.
type turnResult struct {
	shaped  shaper.Result
	errKind string
	err     error
}

// MessageHandler handles a stateless single message without thread memory
// @Summary Send a single message
// @Description Generates a response for one message with no conversation memory
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.MessageRequest true "Message"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 503 {object} models.MessageResponse
// @Router /api/chat/message [post]
func MessageHandler(backend Backend, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.MessageRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.MessageResponse{
				Success: false, Error: "Invalid request body", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			return c.JSON(http.StatusBadRequest, models.MessageResponse{
				Success: false, Error: "Message cannot be empty", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		kind := conversation.DetectRequestKind(message)
		result := generateTurn(c.Request().Context(), backend, cfg, prompt.Context{
			Message: message,
			Kind:    kind,
			Profile: prompt.ResolveProfile(message),
		})

		if result.err != nil {
			return c.JSON(backendStatus(result.errKind), models.MessageResponse{
				Success:   false,
				Error:     "Failed to generate response",
				ErrorKind: result.errKind,
				Fallback:  models.FallbackText,
			})
		}

		return c.JSON(http.StatusOK, models.MessageResponse{
			Success:  true,
			Response: result.shaped.Text,
			Model:    cfg.OllamaModel,
		})
	}
}

// ChatThreadHandler handles a conversational turn against a document thread
// @Summary Converse on a document thread
// @Description Appends the user turn, rebuilds context from the full history and generates a response
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatThreadRequest true "Turn"
// @Success 200 {object} models.ChatThreadResponse
// @Failure 400 {object} models.ChatThreadResponse
// @Failure 404 {object} models.ChatThreadResponse
// @Router /api/chat/thread [post]
func ChatThreadHandler(store *threads.Store, backend Backend, extractor signals.Extractor, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ChatThreadRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ChatThreadResponse{
				Success: false, Error: "Invalid request body", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			return c.JSON(http.StatusBadRequest, models.ChatThreadResponse{
				Success: false, Error: "Message cannot be empty", ErrorKind: models.ErrKindInvalidInput,
			})
		}
		if req.Filename == "" {
			return c.JSON(http.StatusBadRequest, models.ChatThreadResponse{
				Success: false, Error: "Filename is required", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		// Save the user turn first so it is part of the context.
		thread, err := store.AppendTurn(req.Filename, models.Turn{
			Text:   message,
			IsUser: true,
			Kind:   models.KindUserMessage,
		})
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ChatThreadResponse{
				Success: false, Error: "File not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ChatThreadResponse{
				Success: false, Error: "Failed to save message",
			})
		}

		kind := conversation.DetectRequestKind(message)
		result := generateTurn(c.Request().Context(), backend, cfg, prompt.Context{
			DocumentText: thread.DocumentText,
			Subject:      thread.Subject,
			Turns:        thread.Turns,
			Signals:      extractor.Extract(thread.Turns),
			Summary:      conversation.Summarize(thread.Turns),
			Message:      message,
			Kind:         kind,
			Profile:      prompt.ResolveProfile(message),
		})

		if result.err != nil {
			return respondGenerationFailure(c, store, req.Filename, thread.ThreadID, result.errKind)
		}

		assistantTurn := assistantTurnFor(kind, result.shaped.Text)
		if _, err := store.AppendTurn(req.Filename, assistantTurn); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ChatThreadResponse{
				Success: false, Error: "Failed to save response",
			})
		}

		return c.JSON(http.StatusOK, models.ChatThreadResponse{
			Success:           true,
			Response:          result.shaped.Text,
			IsEmailReply:      assistantTurn.IsReply,
			ResponseType:      result.shaped.ResponseType,
			WordCount:         result.shaped.WordCount,
			ThreadID:          thread.ThreadID,
			MessagesInContext: len(thread.Turns),
		})
	}
}

// RegenerateHandler re-runs generation for the last user message
// @Summary Regenerate the last response
// @Description Removes the trailing assistant turn, if any, and generates a fresh response
// @Tags chat
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} models.ChatThreadResponse
// @Failure 400 {object} models.ChatThreadResponse
// @Failure 404 {object} models.ChatThreadResponse
// @Router /api/chat/thread/{filename}/regenerate [post]
func RegenerateHandler(store *threads.Store, backend Backend, extractor signals.Extractor, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		filename := c.Param("filename")

		thread, err := store.Get(filename)
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ChatThreadResponse{
				Success: false, Error: "Thread not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ChatThreadResponse{
				Success: false, Error: "Failed to load thread",
			})
		}

		lastUserMessage, ok := lastUserTurn(thread.Turns)
		if !ok {
			return c.JSON(http.StatusBadRequest, models.ChatThreadResponse{
				Success: false, Error: "No user messages to regenerate response for", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		// Drop exactly one trailing assistant turn; user turns are never removed.
		turns := thread.Turns
		if n := len(turns); n > 0 && !turns[n-1].IsUser {
			thread, err = store.ReplaceTurns(filename, turns[:n-1])
			if err != nil {
				return c.JSON(http.StatusInternalServerError, models.ChatThreadResponse{
					Success: false, Error: "Failed to update thread",
				})
			}
		}

		kind := conversation.DetectRequestKind(lastUserMessage)
		result := generateTurn(c.Request().Context(), backend, cfg, prompt.Context{
			DocumentText: thread.DocumentText,
			Subject:      thread.Subject,
			Turns:        thread.Turns,
			Signals:      extractor.Extract(thread.Turns),
			Summary:      conversation.Summarize(thread.Turns),
			Message:      lastUserMessage,
			Kind:         kind,
			Profile:      prompt.ResolveProfile(lastUserMessage),
		})

		if result.err != nil {
			return respondGenerationFailure(c, store, filename, thread.ThreadID, result.errKind)
		}

		assistantTurn := assistantTurnFor(kind, result.shaped.Text)
		if _, err := store.AppendTurn(filename, assistantTurn); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ChatThreadResponse{
				Success: false, Error: "Failed to save response",
			})
		}

		return c.JSON(http.StatusOK, models.ChatThreadResponse{
			Success:      true,
			Response:     result.shaped.Text,
			IsEmailReply: assistantTurn.IsReply,
			ResponseType: result.shaped.ResponseType,
			WordCount:    result.shaped.WordCount,
			ThreadID:     thread.ThreadID,
			Regenerated:  true,
		})
	}
}

// ThreadHistoryHandler returns a thread's history with conversation analysis
// @Summary Get thread history
// @Description Returns the chat history plus summary and accumulated information
// @Tags chat
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} ThreadHistoryResponse
// @Failure 404 {object} ThreadHistoryResponse
// @Router /api/chat/thread/{filename}/history [get]
func ThreadHistoryHandler(store *threads.Store, extractor signals.Extractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		thread, err := store.Get(c.Param("filename"))
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ThreadHistoryResponse{
				Success: false, Error: "Thread not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ThreadHistoryResponse{
				Success: false, Error: "Failed to get thread history",
			})
		}

		return c.JSON(http.StatusOK, ThreadHistoryResponse{
			Success:             true,
			ThreadID:            thread.ThreadID,
			Subject:             thread.Subject,
			ChatHistory:         thread.Turns,
			FinalReply:          thread.FinalReply,
			HasReply:            thread.HasReply,
			ConversationSummary: conversation.Summarize(thread.Turns),
			AccumulatedInfo:     extractor.Extract(thread.Turns),
			ContextDepth:        len(thread.Turns),
		})
	}
}

// ThreadContextHandler returns the current conversation context
// @Summary Get conversation context
// @Description Returns summary, accumulated information and context strength
// @Tags chat
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} ThreadContextResponse
// @Failure 404 {object} ThreadContextResponse
// @Router /api/chat/thread/{filename}/context [get]
func ThreadContextHandler(store *threads.Store, extractor signals.Extractor) echo.HandlerFunc {
	return func(c echo.Context) error {
		thread, err := store.Get(c.Param("filename"))
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ThreadContextResponse{
				Success: false, Error: "Thread not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ThreadContextResponse{
				Success: false, Error: "Failed to get thread context",
			})
		}

		summary := conversation.Summarize(thread.Turns)
		return c.JSON(http.StatusOK, ThreadContextResponse{
			Success:             true,
			ThreadID:            thread.ThreadID,
			ConversationSummary: summary,
			AccumulatedInfo:     extractor.Extract(thread.Turns),
			ContextStrength:     summary.ContextStrength,
			ReadyForEmail:       summary.ReadyForEmail,
		})
	}
}

// ClearThreadHandler resets a thread's history
// @Summary Clear thread history
// @Description Removes all turns from the thread
// @Tags chat
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} models.GenericResponse
// @Failure 404 {object} models.GenericResponse
// @Router /api/chat/thread/{filename}/clear [post]
func ClearThreadHandler(store *threads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := store.ClearTurns(c.Param("filename"))
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.GenericResponse{
				Success: false, Error: "Thread not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.GenericResponse{
				Success: false, Error: "Failed to clear chat history",
			})
		}

		return c.JSON(http.StatusOK, models.GenericResponse{
			Success: true,
			Message: "Chat history cleared successfully",
		})
	}
}

// generateTurn runs one generation attempt: compose, call the backend, shape.
func generateTurn(ctx context.Context, backend Backend, cfg *config.Config, pctx prompt.Context) turnResult {
	var promptText, system string
	var temperature float64

	switch pctx.Kind {
	case conversation.EmailRequest:
		promptText, system = prompt.ComposeEmail(pctx)
		temperature = emailTemperature
	default:
		promptText, system = prompt.ComposeChat(pctx)
		temperature = chatTemperature
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.OllamaTimeout)*time.Second)
	defer cancel()

	raw, err := backend.Generate(callCtx, promptText, system, ollama.Options{
		Temperature:   temperature,
		NumPredict:    pctx.Profile.NumPredict,
		TopP:          topP,
		RepeatPenalty: repeatPenalty,
	})
	if err != nil {
		return turnResult{errKind: backendErrorKind(err), err: err}
	}

	var shaped shaper.Result
	if pctx.Kind == conversation.EmailRequest {
		text, count := shaper.EnsureMinWords(shaper.FormatEmail(raw), pctx.Profile.MinWords)
		shaped = shaper.Result{Text: text, WordCount: count, ResponseType: models.KindEmailReply, Success: true}
	} else {
		text, count := shaper.EnsureMinWords(raw, pctx.Profile.MinWords)
		shaped = shaper.Result{Text: text, WordCount: count, ResponseType: conversation.ClassifyResponseType(pctx.Message), Success: true}
	}

	return turnResult{shaped: shaped}
}

// respondGenerationFailure persists the fixed error turn so the history stays
// consistent with what the user saw, then reports the failure.
func respondGenerationFailure(c echo.Context, store *threads.Store, filename, threadID, errKind string) error {
	_, _ = store.AppendTurn(filename, models.Turn{
		Text:   models.FallbackText,
		IsUser: false,
		Kind:   models.KindErrorResponse,
	})

	return c.JSON(backendStatus(errKind), models.ChatThreadResponse{
		Success:   false,
		Response:  models.FallbackText,
		ThreadID:  threadID,
		Error:     "AI processing error",
		ErrorKind: errKind,
		Fallback:  models.FallbackText,
	})
}

func assistantTurnFor(kind conversation.RequestKind, text string) models.Turn {
	if kind == conversation.EmailRequest {
		return models.Turn{Text: text, Kind: models.KindEmailReply, IsReply: true}
	}
	return models.Turn{Text: text, Kind: models.KindGeneralResponse}
}

func lastUserTurn(turns []models.Turn) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].IsUser {
			return turns[i].Text, true
		}
	}
	return "", false
}

func backendErrorKind(err error) string {
	var backendErr *ollama.BackendError
	if errors.As(err, &backendErr) {
		switch backendErr.Kind {
		case ollama.KindTimeout:
			return models.ErrKindBackendTimeout
		case ollama.KindMalformed, ollama.KindUnavailable:
			return models.ErrKindBackendUnavailable
		}
	}
	return models.ErrKindBackendUnavailable
}

func backendStatus(errKind string) int {
	if errKind == models.ErrKindBackendTimeout {
		return http.StatusGatewayTimeout
	}
	return http.StatusServiceUnavailable
}
