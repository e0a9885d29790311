// Package prompt assembles the instruction text sent to the generative
// backend from a thread's document, history and accumulated signals.
package prompt

import (
	"fmt"
	"strings"

	"replydesk/internal/conversation"
	"replydesk/internal/models"
	"replydesk/internal/signals"
)

// Document truncation limits per path.
const (
	emailDocumentLimit = 2000
	chatDocumentLimit  = 1000
)

// History windows rendered into the context block. User turns are always
// rendered in full.
const (
	generalResponseWindow = 3
	emailReplyWindow      = 2
)

// Context carries everything the composer needs for one turn. It replaces
// the untyped context maps the handlers would otherwise pass around.
type Context struct {
	DocumentText string
	Subject      string
	Turns        []models.Turn
	Signals      signals.Signals
	Summary      conversation.Summary
	Message      string
	Kind         conversation.RequestKind
	Profile      Profile
}

// ComposeEmail builds the user prompt and system preamble for the
// email-generation path.
func ComposeEmail(ctx Context) (string, string) {
	var b strings.Builder

	b.WriteString("DOCUMENT CONTENT:\n")
	b.WriteString(truncate(ctx.DocumentText, emailDocumentLimit))
	b.WriteString("\n\nCONVERSATION HISTORY AND CONTEXT:\n")
	b.WriteString(renderConversationContext(ctx))
	b.WriteString("\n\nCURRENT USER REQUEST:\n")
	b.WriteString(ctx.Message)
	b.WriteString("\n\nDOCUMENT SUBJECT: ")
	b.WriteString(orNA(ctx.Subject))
	b.WriteString("\n\nIMPORTANT INSTRUCTIONS:\n")
	b.WriteString("1. Remember and consider ALL previous information the user has provided in this conversation\n")
	b.WriteString("2. Build upon previous requests and information - don't ignore or forget anything\n")
	b.WriteString("3. If the user is adding more information, incorporate it with previously provided details\n")
	b.WriteString("4. Generate a comprehensive email reply that considers the ENTIRE conversation context\n")
	b.WriteString("5. Use proper email formatting with clear structure\n\n")
	b.WriteString("Please generate a professional email reply that incorporates ALL the information from our entire conversation:")

	return b.String(), systemPreamble("You are a professional email assistant with perfect memory. You remember ALL previous conversations and requests from the user in this session.", ctx)
}

// ComposeChat builds the user prompt and system preamble for general
// conversation about the document.
func ComposeChat(ctx Context) (string, string) {
	var b strings.Builder

	b.WriteString("DOCUMENT SUMMARY:\n")
	fmt.Fprintf(&b, "Subject: %q\n", orNA(ctx.Subject))
	b.WriteString("Content: ")
	b.WriteString(truncate(ctx.DocumentText, chatDocumentLimit))
	b.WriteString("\n\nCOMPLETE CONVERSATION CONTEXT:\n")
	b.WriteString(renderConversationContext(ctx))
	b.WriteString("\n\nCURRENT USER MESSAGE: ")
	b.WriteString(ctx.Message)
	b.WriteString("\n\nIMPORTANT:\n")
	b.WriteString("- Remember ALL previous information the user has shared\n")
	b.WriteString("- Build upon previous requests and conversations\n")
	b.WriteString("- If user is adding more details, combine them with previous information\n")
	b.WriteString("- Provide helpful responses that acknowledge the full conversation history\n\n")
	b.WriteString("Please provide a helpful response that considers our ENTIRE conversation:")

	return b.String(), systemPreamble("You are an AI assistant with perfect memory helping with document analysis and email generation. You remember ALL previous conversations in this session.", ctx)
}

// renderConversationContext renders the history block: all user turns, the
// last few general responses and the last couple of generated emails, each
// line carrying its ordinal and timestamp.
func renderConversationContext(ctx Context) string {
	if len(ctx.Turns) == 0 {
		return fmt.Sprintf("This is the first message in our conversation: %s", ctx.Message)
	}

	var userRequests, aiResponses, emailReplies []string
	for i, turn := range ctx.Turns {
		ordinal := i + 1
		timestamp := turn.Timestamp
		if timestamp == "" {
			timestamp = "Unknown time"
		}
		switch {
		case turn.IsUser:
			userRequests = append(userRequests, fmt.Sprintf("User Request %d (%s): %s", ordinal, timestamp, turn.Text))
		case turn.IsReply:
			emailReplies = append(emailReplies, fmt.Sprintf("Generated Email %d (%s): %s", ordinal, timestamp, turn.Text))
		default:
			aiResponses = append(aiResponses, fmt.Sprintf("AI Response %d (%s): %s", ordinal, timestamp, turn.Text))
		}
	}

	parts := []string{"=== COMPLETE CONVERSATION HISTORY ==="}

	if len(userRequests) > 0 {
		parts = append(parts, "\n=== ALL USER REQUESTS AND INFORMATION ===")
		parts = append(parts, userRequests...)
	}
	if len(aiResponses) > 0 {
		parts = append(parts, "\n=== PREVIOUS AI RESPONSES ===")
		parts = append(parts, tail(aiResponses, generalResponseWindow)...)
	}
	if len(emailReplies) > 0 {
		parts = append(parts, "\n=== PREVIOUSLY GENERATED EMAILS ===")
		parts = append(parts, tail(emailReplies, emailReplyWindow)...)
	}

	if info := renderSignals(ctx.Signals); info != "" {
		parts = append(parts, "\n=== KEY INFORMATION TO REMEMBER ===", info)
	}

	parts = append(parts, "\n=== CURRENT REQUEST ===", fmt.Sprintf("Current message: %s", ctx.Message))

	return strings.Join(parts, "\n")
}

// renderSignals flattens accumulated signals into prompt lines.
func renderSignals(s signals.Signals) string {
	var lines []string

	if len(s.Emails) > 0 {
		lines = append(lines, "Email addresses mentioned: "+strings.Join(s.Emails, ", "))
	}
	if len(s.Names) > 0 {
		lines = append(lines, "Names mentioned: "+strings.Join(s.Names, ", "))
	}
	if len(s.Dates) > 0 {
		lines = append(lines, "Dates mentioned: "+strings.Join(s.Dates, ", "))
	}
	if len(s.Amounts) > 0 {
		lines = append(lines, "Amounts/Numbers: "+strings.Join(s.Amounts, ", "))
	}
	if len(s.TonePreferences) > 0 {
		lines = append(lines, "Tone preferences: "+strings.Join(s.TonePreferences, ", "))
	}
	if len(s.Instructions) > 0 {
		lines = append(lines, "Specific requirements: "+strings.Join(s.Instructions, "; "))
	}
	if len(s.Topics) > 0 {
		lines = append(lines, "Topics discussed: "+strings.Join(s.Topics, ", "))
	}
	if s.EmailEvolution != nil && s.EmailEvolution.EvolvingRequirements {
		lines = append(lines, fmt.Sprintf("The email requirements have evolved across %d requests; the latest is: %s",
			s.EmailEvolution.RequestsCount, s.EmailEvolution.LatestRequest))
	}

	return strings.Join(lines, "\n")
}

// systemPreamble combines the role description with the length policy,
// domain specializations and the reply-language directive.
func systemPreamble(role string, ctx Context) string {
	var b strings.Builder
	b.WriteString(role)
	fmt.Fprintf(&b, "\n\nRESPONSE LENGTH: aim for approximately %d words and write at least %d words.",
		ctx.Profile.TargetWords, ctx.Profile.MinWords)
	b.WriteString("\n\nYou specialize in: code analysis, electronics design, system architecture, technical documentation, and professional email communication.")
	b.WriteString("\n\n")
	b.WriteString(languageInstruction(ctx.Message))
	return b.String()
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func tail(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
