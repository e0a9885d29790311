// Package shaper post-processes generated text: reformatting raw model
// output into email sections and enforcing minimum response length.
package shaper

import (
	"regexp"
	"strings"
)

// Result is the shaped output handed back to the routing layer.
type Result struct {
	Text         string `json:"text"`
	WordCount    int    `json:"word_count"`
	ResponseType string `json:"response_type"`
	Success      bool   `json:"success"`
}

// expansionSentence is appended when generated text falls short of the
// profile minimum. It is a fixed string, not a re-generation.
const expansionSentence = "Please let me know if you would like me to expand on any part of this response, provide additional detail on specific points, or adjust the tone and structure to better fit your needs."

const paragraphFlushLength = 100

var (
	numberedListPattern = regexp.MustCompile(`^\d+\.\s`)

	greetingPrefixes = []string{"dear ", "hello ", "hi ", "greetings"}
	closingPrefixes  = []string{"best regards", "sincerely", "thank you", "thanks", "kind regards", "yours truly"}
	subjectPrefixes  = []string{"subject:", "re:", "fw:"}
	droppedPrefixes  = []string{"please note", "note:"}
	bulletPrefixes   = []string{"* ", "• ", "- "}
)

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EnsureMinWords appends the fixed expansion sentence, repeating it as
// needed, until text reaches min words. Returns the text and its recomputed
// word count.
func EnsureMinWords(text string, min int) (string, int) {
	count := CountWords(text)
	if count >= min {
		return text, count
	}

	expanded := strings.TrimSpace(text)
	for count < min {
		expanded += "\n\n" + expansionSentence
		count = CountWords(expanded)
	}
	return expanded, count
}

// FormatEmail reassembles raw generated text into a fixed email structure:
// subject, greeting, body paragraphs, closing, signature. Lines beginning
// with "Please note"/"Note:" are dropped.
func FormatEmail(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	var subject, greeting, closing, signature string
	var bodyLines []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lower := strings.ToLower(line)

		switch {
		case hasAnyPrefix(lower, subjectPrefixes):
			subject = line
		case hasAnyPrefix(lower, greetingPrefixes):
			greeting = line
		case hasAnyPrefix(lower, closingPrefixes):
			closing = line
			// The line after a closing is the signature.
			if i+1 < len(lines) {
				signature = lines[i+1]
				i++
			}
		case hasAnyPrefix(lower, droppedPrefixes):
			// dropped
		default:
			bodyLines = append(bodyLines, line)
		}
	}

	var b strings.Builder
	if subject != "" {
		b.WriteString(subject + "\n\n")
	}
	if greeting != "" {
		b.WriteString(greeting + "\n\n")
	}
	writeBody(&b, bodyLines)
	if closing != "" {
		b.WriteString(closing + "\n")
	}
	if signature != "" {
		b.WriteString(signature + "\n")
	}

	return strings.TrimSpace(b.String())
}

// writeBody accumulates body lines into paragraphs, flushing when a line ends
// in sentence punctuation and the paragraph has grown long enough. List items
// are emitted on their own lines.
func writeBody(b *strings.Builder, bodyLines []string) {
	var paragraph []string

	flush := func() {
		if len(paragraph) > 0 {
			b.WriteString(strings.Join(paragraph, " ") + "\n\n")
			paragraph = nil
		}
	}

	for _, line := range bodyLines {
		if isListItem(line) {
			flush()
			b.WriteString(line + "\n")
			continue
		}

		paragraph = append(paragraph, line)
		if endsWithSentencePunctuation(line) && len(strings.Join(paragraph, " ")) > paragraphFlushLength {
			flush()
		}
	}
	flush()
}

func isListItem(line string) bool {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return numberedListPattern.MatchString(line)
}

func endsWithSentencePunctuation(line string) bool {
	return strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!") ||
		strings.HasSuffix(line, "?") || strings.HasSuffix(line, ":")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
