package prompt

import (
	"regexp"
	"strconv"
	"strings"
)

// Profile controls generated response length: a floor, a stated target and
// the generation budget handed to the backend.
type Profile struct {
	MinWords    int `json:"min_words"`
	TargetWords int `json:"target_words"`
	NumPredict  int `json:"num_predict"`
}

const (
	minRequestableWords = 50
	maxRequestableWords = 3000
	maxPredictBudget    = 4000
)

var wordCountPattern = regexp.MustCompile(`(?i)\b(?:in|about|around|approximately)\s+(\d+)\s+words\b`)

var shortKeywords = []string{"quick", "brief", "summary", "simple", "what is", "define"}

var longKeywords = []string{
	"explain", "analyze", "detailed", "comprehensive", "thorough",
	"architecture", "design", "implementation", "documentation",
	"review", "optimization", "best practices",
}

// ResolveProfile picks a length profile for a user message. An explicit
// "in/about N words" request wins; otherwise keyword presence selects a
// short or long profile, with a medium default.
func ResolveProfile(message string) Profile {
	if match := wordCountPattern.FindStringSubmatch(message); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return explicitProfile(n)
		}
	}

	lower := strings.ToLower(message)
	for _, keyword := range shortKeywords {
		if strings.Contains(lower, keyword) {
			return Profile{MinWords: 50, TargetWords: 150, NumPredict: 300}
		}
	}
	for _, keyword := range longKeywords {
		if strings.Contains(lower, keyword) {
			return Profile{MinWords: 300, TargetWords: 800, NumPredict: 1600}
		}
	}
	return Profile{MinWords: 100, TargetWords: 400, NumPredict: 800}
}

func explicitProfile(requested int) Profile {
	if requested < minRequestableWords {
		requested = minRequestableWords
	}
	if requested > maxRequestableWords {
		requested = maxRequestableWords
	}

	min := requested - 50
	if min < 50 {
		min = 50
	}
	predict := 2 * requested
	if predict > maxPredictBudget {
		predict = maxPredictBudget
	}

	return Profile{MinWords: min, TargetWords: requested, NumPredict: predict}
}
