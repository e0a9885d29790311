package conversation

import (
	"regexp"
	"strings"
)

const (
	maxSubjectLength = 100
	untitledSubject  = "Untitled Document"
)

// Header patterns tried in order; first match wins.
var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Subject:\s*(.+)`),
	regexp.MustCompile(`(?i)RE:\s*(.+)`),
	regexp.MustCompile(`(?i)FW:\s*(.+)`),
	regexp.MustCompile(`(?i)SUBJECT:\s*(.+)`),
}

// ExtractSubject derives a best-effort title from document text. It is run
// once at upload time; the result is never re-derived afterwards.
func ExtractSubject(text string) string {
	for _, pattern := range subjectPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			subject := strings.TrimSpace(firstLine(match[1]))
			if len(subject) > maxSubjectLength {
				subject = subject[:maxSubjectLength]
			}
			return subject
		}
	}

	// No header found: take the first meaningful line instead.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		if strings.HasPrefix(line, "Date:") || strings.HasPrefix(line, "From:") || strings.HasPrefix(line, "To:") {
			continue
		}
		if len(line) > maxSubjectLength {
			return line[:maxSubjectLength] + "..."
		}
		return line
	}

	return untitledSubject
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
