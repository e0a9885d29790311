package models

import "time"

// Error classifications reported to callers on failed requests.
const (
	ErrKindInvalidInput       = "invalid_input"
	ErrKindNotFound           = "not_found"
	ErrKindBackendUnavailable = "backend_unavailable"
	ErrKindBackendTimeout     = "backend_timeout"
	ErrKindExtractionFailed   = "extraction_failed"
	ErrKindUnsupportedFormat  = "unsupported_format"
)

// FallbackText is returned and persisted whenever generation fails, so the
// thread history stays consistent with what the user saw.
const FallbackText = "I encountered an error processing your request. Please try again."

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// MessageRequest represents a stateless single-message chat request
// @Description Single message chat payload
type MessageRequest struct {
	Message string `json:"message" example:"Draft a polite follow-up"` // User message
}

// MessageResponse represents the response to a stateless chat message
// @Description Single message chat response
type MessageResponse struct {
	Success   bool   `json:"success" example:"true"`
	Response  string `json:"response,omitempty"`          // Generated text
	Model     string `json:"model,omitempty"`             // Model used for generation
	Error     string `json:"error,omitempty"`             // Error message if any
	ErrorKind string `json:"error_kind,omitempty"`        // Error classification
	Fallback  string `json:"fallback_response,omitempty"` // Displayable text when generation failed
}

// ChatThreadRequest represents a conversational turn against a document thread
// @Description Conversational turn payload
type ChatThreadRequest struct {
	Message  string `json:"message" example:"Generate a professional reply"` // User message
	Filename string `json:"filename" example:"20240301_101500_invoice.pdf"`  // Thread key
}

// ChatThreadResponse represents the result of a conversational turn
// @Description Conversational turn result
type ChatThreadResponse struct {
	Success           bool   `json:"success" example:"true"`
	Response          string `json:"response,omitempty"`            // Shaped assistant text
	IsEmailReply      bool   `json:"is_email_reply" example:"false"`
	ResponseType      string `json:"response_type,omitempty"`       // email_reply or a general response category
	WordCount         int    `json:"word_count,omitempty"`          // Word count of the shaped text
	ThreadID          string `json:"thread_id,omitempty"`
	MessagesInContext int    `json:"messages_in_context,omitempty"` // History length considered
	Regenerated       bool   `json:"regenerated,omitempty"`         // Set by the regenerate operation
	Error             string `json:"error,omitempty"`
	ErrorKind         string `json:"error_kind,omitempty"`
	Fallback          string `json:"fallback_response,omitempty"`
}

// UploadFileInfo is the compact upload confirmation payload
// @Description Uploaded file summary
type UploadFileInfo struct {
	Filename   string `json:"filename"`
	ThreadID   string `json:"thread_id"`
	Subject    string `json:"subject"`
	UploadDate string `json:"upload_date"`
	DueDate    string `json:"due_date"`
	Size       int64  `json:"size"`
	HasReply   bool   `json:"has_reply"`
}

// UploadResponse represents the result of a document upload
// @Description Upload result
type UploadResponse struct {
	Success   bool            `json:"success" example:"true"`
	Message   string          `json:"message,omitempty"`
	FileInfo  *UploadFileInfo `json:"file_info,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
}

// FileListResponse lists uploaded documents
// @Description Document list
type FileListResponse struct {
	Success bool     `json:"success" example:"true"`
	Files   []Thread `json:"files"`
	Count   int      `json:"count"`
	Error   string   `json:"error,omitempty"`
}

// ContentResponse carries the full extracted text of a document
// @Description Full document content
type ContentResponse struct {
	Success   bool    `json:"success" example:"true"`
	Filename  string  `json:"filename,omitempty"`
	Content   string  `json:"content,omitempty"`
	FileInfo  *Thread `json:"file_info,omitempty"`
	Error     string  `json:"error,omitempty"`
	ErrorKind string  `json:"error_kind,omitempty"`
}

// ReplyViewResponse carries the payload for the reply drafting view
// @Description Document content plus metadata for the dual-pane reply view
type ReplyViewResponse struct {
	Success         bool    `json:"success" example:"true"`
	Filename        string  `json:"filename,omitempty"`
	Subject         string  `json:"subject,omitempty"`
	DocumentContent string  `json:"document_content,omitempty"`
	FileInfo        *Thread `json:"file_info,omitempty"`
	ShowDualPane    bool    `json:"show_dual_pane,omitempty"`
	Error           string  `json:"error,omitempty"`
	ErrorKind       string  `json:"error_kind,omitempty"`
}

// ThreadInfoResponse carries a full thread record
// @Description Full thread record
type ThreadInfoResponse struct {
	Success    bool    `json:"success" example:"true"`
	ThreadInfo *Thread `json:"thread_info,omitempty"`
	Error      string  `json:"error,omitempty"`
	ErrorKind  string  `json:"error_kind,omitempty"`
}

// MarkRepliedRequest promotes text to a thread's canonical reply
// @Description Mark-replied payload
type MarkRepliedRequest struct {
	ReplyContent string `json:"reply_content"` // Literal text promoted to the final reply
}

// GenericResponse is the envelope for operations without a data payload
// @Description Generic operation result
type GenericResponse struct {
	Success   bool   `json:"success" example:"true"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// ThreadSummaryInfo aggregates per-thread statistics
// @Description Per-thread statistics
type ThreadSummaryInfo struct {
	Filename              string `json:"filename"`
	Subject               string `json:"subject"`
	ThreadID              string `json:"thread_id"`
	TotalMessages         int    `json:"total_messages"`
	UserMessages          int    `json:"user_messages"`
	AIMessages            int    `json:"ai_messages"`
	EmailRepliesGenerated int    `json:"email_replies_generated"`
	HasFinalReply         bool   `json:"has_final_reply"`
	LatestActivity        string `json:"latest_activity,omitempty"`
	UploadDate            string `json:"upload_date"`
	DueDate               string `json:"due_date"`
	Status                string `json:"status"` // completed, active or pending
}

// ThreadSummaryResponse wraps per-thread statistics
// @Description Per-thread statistics envelope
type ThreadSummaryResponse struct {
	Success       bool               `json:"success" example:"true"`
	ThreadSummary *ThreadSummaryInfo `json:"thread_summary,omitempty"`
	Error         string             `json:"error,omitempty"`
	ErrorKind     string             `json:"error_kind,omitempty"`
}

// Statistics aggregates counts across all documents and threads
// @Description Service-wide statistics
type Statistics struct {
	TotalFiles        int     `json:"total_files"`
	PendingFiles      int     `json:"pending_files"`
	CompletedFiles    int     `json:"completed_files"`
	ActiveThreads     int     `json:"active_threads"`
	TotalChatMessages int     `json:"total_chat_messages"`
	CompletionRate    float64 `json:"completion_rate"`
}

// StatsResponse wraps service-wide statistics
// @Description Service-wide statistics envelope
type StatsResponse struct {
	Success    bool        `json:"success" example:"true"`
	Statistics *Statistics `json:"statistics,omitempty"`
	Error      string      `json:"error,omitempty"`
}
