package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveProfile_ExplicitWordCount(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected Profile
	}{
		{
			name:     "about N words",
			message:  "summarize this in about 250 words",
			expected: Profile{MinWords: 200, TargetWords: 250, NumPredict: 500},
		},
		{
			name:     "around N words",
			message:  "write around 100 words on the main risks",
			expected: Profile{MinWords: 50, TargetWords: 100, NumPredict: 200},
		},
		{
			name:     "approximately N words",
			message:  "Approximately 600 words please",
			expected: Profile{MinWords: 550, TargetWords: 600, NumPredict: 1200},
		},
		{
			name:     "tiny request clamped up",
			message:  "reply in 10 words",
			expected: Profile{MinWords: 50, TargetWords: 50, NumPredict: 100},
		},
		{
			name:     "huge request clamped down",
			message:  "write about 9000 words on this",
			expected: Profile{MinWords: 2950, TargetWords: 3000, NumPredict: 4000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveProfile(tt.message))
		})
	}
}

func TestResolveProfile_Keywords(t *testing.T) {
	short := Profile{MinWords: 50, TargetWords: 150, NumPredict: 300}
	long := Profile{MinWords: 300, TargetWords: 800, NumPredict: 1600}
	medium := Profile{MinWords: 100, TargetWords: 400, NumPredict: 800}

	tests := []struct {
		name     string
		message  string
		expected Profile
	}{
		{"brief request", "give me a brief answer", short},
		{"summary request", "summary of the second section", short},
		{"what is question", "what is the total amount due?", short},
		{"explain request", "explain the failure mode here", long},
		{"architecture request", "describe the architecture involved", long},
		{"plain request", "tell me more", medium},
		{"empty message", "", medium},
		{"short beats long", "brief explanation of the design", short},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveProfile(tt.message))
		})
	}
}

func TestResolveProfile_ExplicitBeatsKeywords(t *testing.T) {
	// A stated word count overrides keyword heuristics
	got := ResolveProfile("brief summary in about 500 words")
	assert.Equal(t, Profile{MinWords: 450, TargetWords: 500, NumPredict: 1000}, got)
}
