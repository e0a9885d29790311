package models

// TimestampLayout is the wall-clock format recorded on turns and reply dates.
const TimestampLayout = "2006-01-02 15:04:05"

// Turn kinds persisted on thread messages.
const (
	KindUserMessage     = "user_message"
	KindEmailReply      = "email_reply"
	KindGeneralResponse = "general_response"
	KindErrorResponse   = "error_response"
)

// Turn represents a single user or assistant message in a thread
// @Description Single message in a document conversation thread
type Turn struct {
	Text      string `json:"text" example:"Please write a professional reply"` // Message content
	IsUser    bool   `json:"is_user" example:"true"`                           // True for user messages, false for assistant
	Kind      string `json:"kind" example:"user_message"`                      // user_message, email_reply, general_response or error_response
	IsReply   bool   `json:"is_reply" example:"false"`                         // True only for assistant turns from the email path
	Timestamp string `json:"timestamp" example:"2024-03-01 10:15:00"`          // Assigned at write time
}

// Thread represents the persisted conversation state for one uploaded document
// @Description Persisted state for one uploaded document's conversation
type Thread struct {
	ThreadID           string  `json:"thread_id" example:"7f9c24e5-1a2b-4c3d-9e8f-0a1b2c3d4e5f"` // Opaque identifier, generated once
	Filename           string  `json:"filename" example:"20240301_101500_invoice.pdf"`           // Stored filename, the thread key
	OriginalName       string  `json:"original_name" example:"invoice.pdf"`                      // Name as uploaded
	Subject            string  `json:"subject" example:"Q3 Budget Review"`                       // Best-effort extracted title
	DocumentText       string  `json:"full_content"`                                             // Full extracted text, immutable once set
	ContentPreview     string  `json:"content_preview"`                                          // First 200 characters of the document
	UploadDate         string  `json:"upload_date" example:"2024-03-01"`                         // Date of upload
	DueDate            string  `json:"due_date" example:"2024-03-15"`                            // Opaque scheduling metadata
	Size               int64   `json:"size" example:"10240"`                                     // Stored file size in bytes
	Turns              []Turn  `json:"chat_history"`                                             // Ordered conversation turns
	HasReply           bool    `json:"has_reply" example:"false"`                                // Set by the explicit mark-replied action
	FinalReply         *string `json:"final_reply,omitempty"`                                    // Text promoted to canonical reply
	ReplyGeneratedDate *string `json:"reply_generated_date,omitempty"`                           // When the reply was promoted
}
