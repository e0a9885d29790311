// Package signals extracts structured information from the user side of a
// conversation. Extraction is pattern-based and deliberately overinclusive:
// the name heuristic matches any two capitalized words, not just names.
package signals

import (
	"regexp"
	"strings"

	"replydesk/internal/models"
)

// EmailEvolution tracks how email-generation intent develops across turns.
type EmailEvolution struct {
	RequestsCount        int    `json:"requests_count"`
	LatestRequest        string `json:"latest_request"`
	EvolvingRequirements bool   `json:"evolving_requirements"`
}

// Signals is the accumulated information extracted from user turns.
type Signals struct {
	Emails          []string        `json:"emails,omitempty"`
	Names           []string        `json:"names,omitempty"`
	Dates           []string        `json:"dates,omitempty"`
	Amounts         []string        `json:"amounts,omitempty"`
	TonePreferences []string        `json:"tone_preferences,omitempty"`
	Instructions    []string        `json:"instructions,omitempty"`
	Topics          []string        `json:"topics,omitempty"`
	EmailEvolution  *EmailEvolution `json:"email_evolution,omitempty"`
}

// IsEmpty reports whether no signal of any kind was found.
func (s Signals) IsEmpty() bool {
	return len(s.Emails) == 0 && len(s.Names) == 0 && len(s.Dates) == 0 &&
		len(s.Amounts) == 0 && len(s.TonePreferences) == 0 &&
		len(s.Instructions) == 0 && len(s.Topics) == 0 && s.EmailEvolution == nil
}

// Extractor derives signals from a turn sequence. Implementations must be
// pure functions of the input: same turns, same output.
type Extractor interface {
	Extract(turns []models.Turn) Signals
}

const maxInstructions = 5

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	namePattern   = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	datePattern   = regexp.MustCompile(`(?i)\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|January|February|March|April|May|June|July|August|September|October|November|December)\b`)
	amountPattern = regexp.MustCompile(`(?i)\$[\d,]+\.?\d*|\b\d[\d,]*\.?\d*\s*(?:dollars|USD|EUR|pounds)\b`)
	tonePattern   = regexp.MustCompile(`(?i)\b(?:formal|informal|professional|casual|urgent|polite|friendly|brief|detailed|concise|comprehensive)\b`)
	topicPattern  = regexp.MustCompile(`(?i)\b(?:meeting|project|proposal|contract|budget|deadline|presentation|report|document|email|call|appointment)\b`)

	instructionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:include|mention|add|make sure|don't forget|remember to|please)\s+[^.!?]*`),
		regexp.MustCompile(`(?i)(?:also|additionally|furthermore|moreover)\s+[^.!?]*`),
		regexp.MustCompile(`(?i)(?:with|regarding|about|concerning)\s+[^.!?]*`),
	}

	evolutionKeywords = []string{"email", "reply", "respond", "write", "generate", "draft", "compose"}
)

// PatternExtractor is the reference Extractor built on fixed regex heuristics.
type PatternExtractor struct{}

// NewPatternExtractor returns the reference extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract scans all user turns and accumulates signals. Output is
// deterministic: every list is deduplicated in first-encounter order except
// instructions, which keep duplicates and are capped to the first 5.
func (e *PatternExtractor) Extract(turns []models.Turn) Signals {
	userMessages := make([]string, 0, len(turns))
	for _, turn := range turns {
		if turn.IsUser {
			userMessages = append(userMessages, turn.Text)
		}
	}
	if len(userMessages) == 0 {
		return Signals{}
	}

	allUserText := strings.Join(userMessages, " ")

	out := Signals{
		Emails:          dedupe(emailPattern.FindAllString(allUserText, -1)),
		Names:           dedupe(namePattern.FindAllString(allUserText, -1)),
		Dates:           dedupe(datePattern.FindAllString(allUserText, -1)),
		Amounts:         dedupe(amountPattern.FindAllString(allUserText, -1)),
		TonePreferences: dedupe(lowerAll(tonePattern.FindAllString(allUserText, -1))),
		Instructions:    extractInstructions(userMessages),
		Topics:          dedupe(lowerAll(topicPattern.FindAllString(allUserText, -1))),
		EmailEvolution:  trackEmailEvolution(userMessages),
	}
	return out
}

func extractInstructions(userMessages []string) []string {
	var instructions []string
	for _, msg := range userMessages {
		for _, pattern := range instructionPatterns {
			for _, match := range pattern.FindAllString(msg, -1) {
				instructions = append(instructions, strings.TrimSpace(match))
			}
		}
	}
	if len(instructions) > maxInstructions {
		instructions = instructions[:maxInstructions]
	}
	return instructions
}

func trackEmailEvolution(userMessages []string) *EmailEvolution {
	var requests []string
	for _, msg := range userMessages {
		lower := strings.ToLower(msg)
		for _, keyword := range evolutionKeywords {
			if strings.Contains(lower, keyword) {
				requests = append(requests, msg)
				break
			}
		}
	}
	if len(requests) == 0 {
		return nil
	}
	return &EmailEvolution{
		RequestsCount:        len(requests),
		LatestRequest:        requests[len(requests)-1],
		EvolvingRequirements: len(requests) > 1,
	}
}

func lowerAll(values []string) []string {
	for i, v := range values {
		values[i] = strings.ToLower(v)
	}
	return values
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
