package prompt

import (
	"regexp"
	"strings"
)

// script is one detectable writing system with its reply instruction.
type script struct {
	pattern     *regexp.Regexp
	instruction string
}

var scripts = []script{
	{regexp.MustCompile(`[\x{0590}-\x{05FF}]`), "Respond in Hebrew (עברית)."},
	{regexp.MustCompile(`[\x{0600}-\x{06FF}]`), "Respond in Arabic (العربية)."},
	{regexp.MustCompile(`[\x{0400}-\x{04FF}]`), "Respond in Russian (Русский)."},
	{regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`), "Respond in Chinese (中文)."},
	{regexp.MustCompile(`[\x{AC00}-\x{D7AF}]`), "Respond in Korean (한국어)."},
}

// Kana distinguishes Japanese from Chinese, since kanji shares the CJK range.
var kanaPattern = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}]`)

const (
	scriptThreshold = 0.1
	kanaThreshold   = 0.05
)

// languageInstruction picks the reply-language directive for a message by
// the dominant script of its characters. English is the default.
func languageInstruction(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return "Respond in English."
	}

	total := float64(len([]rune(message)))
	if float64(len(kanaPattern.FindAllString(message, -1)))/total > kanaThreshold {
		return "Respond in Japanese (日本語)."
	}

	best := ""
	bestRatio := scriptThreshold
	for _, s := range scripts {
		ratio := float64(len(s.pattern.FindAllString(message, -1))) / total
		if ratio > bestRatio {
			best = s.instruction
			bestRatio = ratio
		}
	}

	if best == "" {
		return "Respond in English."
	}
	return best
}
