// Package conversation derives lightweight statistics over a thread's turns
// and classifies what kind of response a user message is asking for.
package conversation

import "replydesk/internal/models"

// Summary holds derived statistics over a thread's turn sequence.
type Summary struct {
	TotalExchanges    int    `json:"total_exchanges"`
	UserRequests      int    `json:"user_requests"`
	AIResponses       int    `json:"ai_responses"`
	EmailsGenerated   int    `json:"emails_generated"`
	ConversationStart string `json:"conversation_start,omitempty"`
	LatestActivity    string `json:"latest_activity,omitempty"`
	ContextStrength   string `json:"context_strength"`
	ReadyForEmail     bool   `json:"ready_for_email"`
}

// Summarize recomputes a Summary from scratch on every call; it holds no
// state beyond the turns passed in.
func Summarize(turns []models.Turn) Summary {
	summary := Summary{
		TotalExchanges:  len(turns) / 2,
		ContextStrength: contextStrength(len(turns)),
	}

	for _, turn := range turns {
		if turn.IsUser {
			summary.UserRequests++
			continue
		}
		summary.AIResponses++
		if turn.IsReply {
			summary.EmailsGenerated++
		}
	}

	if len(turns) > 0 {
		summary.ConversationStart = turns[0].Timestamp
		summary.LatestActivity = turns[len(turns)-1].Timestamp
	}
	summary.ReadyForEmail = summary.UserRequests > 0

	return summary
}

func contextStrength(turnCount int) string {
	switch {
	case turnCount > 4:
		return "high"
	case turnCount > 1:
		return "medium"
	default:
		return "low"
	}
}
