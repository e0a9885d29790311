package conversation

import "strings"

// RequestKind is the decided-once classification of a conversational turn.
type RequestKind int

const (
	// GeneralRequest is any turn that is not asking for an email.
	GeneralRequest RequestKind = iota
	// EmailRequest asks for an email reply to be generated.
	EmailRequest
	// RegenerateRequest re-runs generation for the last user message.
	RegenerateRequest
)

func (k RequestKind) String() string {
	switch k {
	case EmailRequest:
		return "email"
	case RegenerateRequest:
		return "regenerate"
	default:
		return "general"
	}
}

// Response type categories for non-email turns, in precedence order.
const (
	TypeCodeAnalysis     = "code_analysis"
	TypeElectronics      = "electronics_design"
	TypeArchitecture     = "system_architecture"
	TypeDocumentation    = "technical_documentation"
	TypeGeneralTechnical = "general_technical"
)

// emailKeywords triggers the email-generation path on any substring match.
// There is no negation handling: "don't write an email" still triggers.
var emailKeywords = []string{
	"generate reply", "create reply", "write reply", "email reply",
	"respond to", "draft reply", "compose reply", "reply to this",
	"generate email", "create email", "write email", "draft email",
	"make email", "create an email", "write an email", "send email",
	"professional reply", "formal reply", "write a response",
}

// responseTypeKeywords maps categories to their trigger vocabularies. Checked
// in order; the first category with a match wins.
var responseTypeKeywords = []struct {
	category string
	keywords []string
}{
	{TypeCodeAnalysis, []string{"code", "function", "bug", "debug", "refactor", "compile", "syntax", "algorithm"}},
	{TypeElectronics, []string{"circuit", "schematic", "voltage", "resistor", "capacitor", "pcb", "microcontroller", "sensor"}},
	{TypeArchitecture, []string{"architecture", "microservice", "scalability", "deployment", "infrastructure", "load balancer", "distributed"}},
	{TypeDocumentation, []string{"documentation", "readme", "manual", "user guide", "api reference", "changelog"}},
}

// IsEmailRequest reports whether the message asks for email generation.
func IsEmailRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range emailKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// DetectRequestKind classifies a user message as an email or general request.
func DetectRequestKind(message string) RequestKind {
	if IsEmailRequest(message) {
		return EmailRequest
	}
	return GeneralRequest
}

// ClassifyResponseType tags a non-email message with a response category.
func ClassifyResponseType(message string) string {
	lower := strings.ToLower(message)
	for _, entry := range responseTypeKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.category
			}
		}
	}
	return TypeGeneralTechnical
}
