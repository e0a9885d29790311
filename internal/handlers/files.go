package handlers

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"replydesk/internal/cache"
	"replydesk/internal/config"
	"replydesk/internal/conversation"
	"replydesk/internal/extract"
	"replydesk/internal/models"
	"replydesk/internal/threads"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const previewLength = 200

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".docx": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Mailer delivers a thread's finalized reply. Delivery is best effort.
type Mailer interface {
	Configured() bool
	SendFinalReply(subject, body string) error
}

// secureFilename strips path components and unsafe characters, then prefixes
// an upload timestamp so repeated uploads of the same name never collide.
func secureFilename(name string) string {
	base := filepath.Base(name)
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	return time.Now().Format("20060102_150405") + "_" + base
}

// UploadHandler accepts a document, extracts its text and opens a thread
// @Summary Upload a document
// @Description Stores the file, extracts its text and creates a conversation thread
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document (pdf, txt or docx)"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.UploadResponse
// @Failure 422 {object} models.UploadResponse
// @Router /api/files/upload [post]
func UploadHandler(store *threads.Store, extractor extract.Extractor, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.UploadResponse{
				Success: false, Error: "No file provided", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedExtensions[ext] {
			return c.JSON(http.StatusBadRequest, models.UploadResponse{
				Success:   false,
				Error:     "Unsupported file type. Allowed: pdf, txt, docx",
				ErrorKind: models.ErrKindUnsupportedFormat,
			})
		}
		if fileHeader.Size > cfg.MaxUploadBytes {
			return c.JSON(http.StatusBadRequest, models.UploadResponse{
				Success: false, Error: "File too large", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		filename := secureFilename(fileHeader.Filename)
		path := filepath.Join(store.Dir(), filename)
		if err := saveUpload(fileHeader, path); err != nil {
			log.Error().Err(err).Str("filename", filename).Msg("Failed to save upload")
			return c.JSON(http.StatusInternalServerError, models.UploadResponse{
				Success: false, Error: "Failed to save file",
			})
		}

		text, err := extractor.ExtractText(path)
		if err != nil && !errors.Is(err, extract.ErrUnsupportedFormat) {
			os.Remove(path)
			return c.JSON(http.StatusUnprocessableEntity, models.UploadResponse{
				Success:   false,
				Error:     "Could not extract text from document",
				ErrorKind: models.ErrKindExtractionFailed,
			})
		}

		now := time.Now()
		thread := models.Thread{
			ThreadID:       uuid.NewString(),
			Filename:       filename,
			OriginalName:   fileHeader.Filename,
			Subject:        conversation.ExtractSubject(text),
			DocumentText:   text,
			ContentPreview: preview(text),
			UploadDate:     now.Format(models.TimestampLayout),
			DueDate:        now.AddDate(0, 0, 1+rand.Intn(30)).Format("2006-01-02"),
			Size:           fileHeader.Size,
		}

		if err := store.Create(thread); err != nil {
			os.Remove(path)
			log.Error().Err(err).Str("filename", filename).Msg("Failed to create thread record")
			return c.JSON(http.StatusInternalServerError, models.UploadResponse{
				Success: false, Error: "Failed to create thread",
			})
		}

		log.Info().
			Str("filename", filename).
			Str("thread_id", thread.ThreadID).
			Int64("size", thread.Size).
			Msg("Document uploaded")

		return c.JSON(http.StatusOK, models.UploadResponse{
			Success: true,
			Message: "File uploaded successfully",
			FileInfo: &models.UploadFileInfo{
				Filename:   thread.Filename,
				ThreadID:   thread.ThreadID,
				Subject:    thread.Subject,
				UploadDate: thread.UploadDate,
				DueDate:    thread.DueDate,
				Size:       thread.Size,
			},
		})
	}
}

func saveUpload(fileHeader *multipart.FileHeader, path string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// ListFilesHandler lists pending documents
// @Summary List pending documents
// @Description Returns documents awaiting a reply, closest due date first
// @Tags files
// @Produce json
// @Success 200 {object} models.FileListResponse
// @Router /api/files/list [get]
func ListFilesHandler(store *threads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		files, err := store.List(false)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.FileListResponse{
				Success: false, Error: "Failed to list files",
			})
		}
		return c.JSON(http.StatusOK, models.FileListResponse{
			Success: true,
			Files:   listPayload(files),
			Count:   len(files),
		})
	}
}

// ListRepliedHandler lists completed documents
// @Summary List replied documents
// @Description Returns documents with a final reply, most recently replied first
// @Tags files
// @Produce json
// @Success 200 {object} models.FileListResponse
// @Router /api/files/list/replied [get]
func ListRepliedHandler(store *threads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		files, err := store.ListReplied()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.FileListResponse{
				Success: false, Error: "Failed to list replied files",
			})
		}
		return c.JSON(http.StatusOK, models.FileListResponse{
			Success: true,
			Files:   listPayload(files),
			Count:   len(files),
		})
	}
}

// ThreadInfoHandler returns a full thread record
// @Summary Get thread record
// @Description Returns the full stored record for one document thread
// @Tags files
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} models.ThreadInfoResponse
// @Failure 404 {object} models.ThreadInfoResponse
// @Router /api/files/thread/{filename} [get]
func ThreadInfoHandler(store *threads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		thread, err := store.Get(c.Param("filename"))
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ThreadInfoResponse{
				Success: false, Error: "Thread not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ThreadInfoResponse{
				Success: false, Error: "Failed to get thread info",
			})
		}
		return c.JSON(http.StatusOK, models.ThreadInfoResponse{
			Success:    true,
			ThreadInfo: &thread,
		})
	}
}

// FileContentHandler returns the full extracted text of a document
// @Summary Get document content
// @Description Returns the document's extracted text, re-extracting on demand
// @Tags files
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} models.ContentResponse
// @Failure 404 {object} models.ContentResponse
// @Router /api/files/content/{filename} [get]
func FileContentHandler(store *threads.Store, contentCache *cache.Cache, extractor extract.Extractor, cfg *config.Config) echo.HandlerFunc {
	ttl := time.Duration(cfg.ContentCacheTTLMinutes) * time.Minute

	return func(c echo.Context) error {
		filename := c.Param("filename")

		thread, err := store.Get(filename)
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ContentResponse{
				Success: false, Error: "File not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ContentResponse{
				Success: false, Error: "Failed to get file content",
			})
		}

		content, err := resolveContent(thread, contentCache, extractor, store.Dir(), ttl)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, models.ContentResponse{
				Success:   false,
				Error:     "Could not extract text from document",
				ErrorKind: models.ErrKindExtractionFailed,
			})
		}

		return c.JSON(http.StatusOK, models.ContentResponse{
			Success:  true,
			Filename: filename,
			Content:  content,
			FileInfo: &thread,
		})
	}
}

// GenerateReplyHandler opens the reply drafting view for a document
// @Summary Open the reply drafting view
// @Description Returns the document's text and metadata for the dual-pane reply view
// @Tags files
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} models.ReplyViewResponse
// @Failure 404 {object} models.ReplyViewResponse
// @Router /api/files/generate-reply/{filename} [post]
func GenerateReplyHandler(store *threads.Store, contentCache *cache.Cache, extractor extract.Extractor, cfg *config.Config) echo.HandlerFunc {
	ttl := time.Duration(cfg.ContentCacheTTLMinutes) * time.Minute

	return func(c echo.Context) error {
		filename := c.Param("filename")

		thread, err := store.Get(filename)
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ReplyViewResponse{
				Success: false, Error: "File not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ReplyViewResponse{
				Success: false, Error: "Reply generation failed",
			})
		}

		content, err := resolveContent(thread, contentCache, extractor, store.Dir(), ttl)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, models.ReplyViewResponse{
				Success:   false,
				Error:     "Could not extract text from document",
				ErrorKind: models.ErrKindExtractionFailed,
			})
		}

		return c.JSON(http.StatusOK, models.ReplyViewResponse{
			Success:         true,
			Filename:        filename,
			Subject:         thread.Subject,
			DocumentContent: content,
			FileInfo:        &thread,
			ShowDualPane:    true,
		})
	}
}

// resolveContent returns the document text, preferring the stored record,
// then the cache, then a fresh extraction (cached on success).
func resolveContent(thread models.Thread, contentCache *cache.Cache, extractor extract.Extractor, dir string, ttl time.Duration) (string, error) {
	if thread.DocumentText != "" {
		return thread.DocumentText, nil
	}
	if cached, ok := contentCache.Get(thread.Filename); ok {
		return cached, nil
	}
	extracted, err := extractor.ExtractText(filepath.Join(dir, thread.Filename))
	if err != nil {
		return "", err
	}
	contentCache.Set(thread.Filename, extracted, ttl)
	return extracted, nil
}

// MarkRepliedHandler promotes text to a thread's canonical final reply
// @Summary Mark a thread replied
// @Description Stores the provided text as the final reply and moves the thread to completed
// @Tags files
// @Accept json
// @Produce json
// @Param filename path string true "Thread filename"
// @Param request body models.MarkRepliedRequest true "Reply content"
// @Success 200 {object} models.GenericResponse
// @Failure 400 {object} models.GenericResponse
// @Failure 404 {object} models.GenericResponse
// @Router /api/files/mark-replied/{filename} [post]
func MarkRepliedHandler(store *threads.Store, mailer Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		filename := c.Param("filename")

		var req models.MarkRepliedRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.GenericResponse{
				Success: false, Error: "Invalid request body", ErrorKind: models.ErrKindInvalidInput,
			})
		}
		if strings.TrimSpace(req.ReplyContent) == "" {
			return c.JSON(http.StatusBadRequest, models.GenericResponse{
				Success: false, Error: "Reply content is required", ErrorKind: models.ErrKindInvalidInput,
			})
		}

		thread, err := store.Get(filename)
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.GenericResponse{
				Success: false, Error: "File not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.GenericResponse{
				Success: false, Error: "Failed to mark file as replied",
			})
		}

		if err := store.MarkReplied(filename, req.ReplyContent); err != nil {
			return c.JSON(http.StatusInternalServerError, models.GenericResponse{
				Success: false, Error: "Failed to mark file as replied",
			})
		}

		// Delivery is best effort; the thread is completed either way.
		if mailer != nil && mailer.Configured() {
			if err := mailer.SendFinalReply(thread.Subject, req.ReplyContent); err != nil {
				log.Warn().Err(err).Str("filename", filename).Msg("Failed to send final reply email")
			}
		}

		return c.JSON(http.StatusOK, models.GenericResponse{
			Success: true,
			Message: "File marked as replied",
		})
	}
}

// DeleteFileHandler removes a document and its thread
// @Summary Delete a document
// @Description Removes the document, its thread record and any cached content
// @Tags files
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} models.GenericResponse
// @Failure 404 {object} models.GenericResponse
// @Router /api/files/delete/{filename} [delete]
func DeleteFileHandler(store *threads.Store, contentCache *cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		filename := c.Param("filename")

		err := store.Delete(filename)
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.GenericResponse{
				Success: false, Error: "File not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.GenericResponse{
				Success: false, Error: "Failed to delete file",
			})
		}

		contentCache.Delete(filename)
		log.Info().Str("filename", filename).Msg("Document deleted")

		return c.JSON(http.StatusOK, models.GenericResponse{
			Success: true,
			Message: "File deleted successfully",
		})
	}
}

// ThreadSummaryHandler returns per-thread statistics
// @Summary Get thread summary
// @Description Returns message counts and lifecycle status for one thread
// @Tags files
// @Produce json
// @Param filename path string true "Thread filename"
// @Success 200 {object} models.ThreadSummaryResponse
// @Failure 404 {object} models.ThreadSummaryResponse
// @Router /api/files/thread/{filename}/summary [get]
func ThreadSummaryHandler(store *threads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		thread, err := store.Get(c.Param("filename"))
		if errors.Is(err, threads.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ThreadSummaryResponse{
				Success: false, Error: "Thread not found", ErrorKind: models.ErrKindNotFound,
			})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ThreadSummaryResponse{
				Success: false, Error: "Failed to get thread summary",
			})
		}

		summary := models.ThreadSummaryInfo{
			Filename:      thread.Filename,
			Subject:       thread.Subject,
			ThreadID:      thread.ThreadID,
			TotalMessages: len(thread.Turns),
			HasFinalReply: thread.HasReply,
			UploadDate:    thread.UploadDate,
			DueDate:       thread.DueDate,
			Status:        threadStatus(thread),
		}
		for _, turn := range thread.Turns {
			if turn.IsUser {
				summary.UserMessages++
			} else {
				summary.AIMessages++
			}
			if turn.Kind == models.KindEmailReply {
				summary.EmailRepliesGenerated++
			}
			summary.LatestActivity = turn.Timestamp
		}

		return c.JSON(http.StatusOK, models.ThreadSummaryResponse{
			Success:       true,
			ThreadSummary: &summary,
		})
	}
}

// StatsHandler returns service-wide statistics
// @Summary Get statistics
// @Description Aggregates counts and completion rate across all documents
// @Tags files
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Router /api/files/stats [get]
func StatsHandler(store *threads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		all, err := store.List(true)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.StatsResponse{
				Success: false, Error: "Failed to compute statistics",
			})
		}

		stats := models.Statistics{TotalFiles: len(all)}
		for _, thread := range all {
			if thread.HasReply {
				stats.CompletedFiles++
			} else {
				stats.PendingFiles++
			}
			if len(thread.Turns) > 0 {
				stats.ActiveThreads++
				stats.TotalChatMessages += len(thread.Turns)
			}
		}
		if stats.TotalFiles > 0 {
			rate := float64(stats.CompletedFiles) / float64(stats.TotalFiles) * 100
			stats.CompletionRate = math.Round(rate*100) / 100
		}

		return c.JSON(http.StatusOK, models.StatsResponse{
			Success:    true,
			Statistics: &stats,
		})
	}
}

func threadStatus(thread models.Thread) string {
	switch {
	case thread.HasReply:
		return "completed"
	case len(thread.Turns) > 0:
		return "active"
	default:
		return "pending"
	}
}

func preview(text string) string {
	if len(text) <= previewLength {
		return text
	}
	return text[:previewLength] + "..."
}

// listPayload strips full document bodies from list responses.
func listPayload(files []models.Thread) []models.Thread {
	out := make([]models.Thread, len(files))
	for i, thread := range files {
		thread.DocumentText = ""
		out[i] = thread
	}
	return out
}
