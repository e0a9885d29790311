package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSubject(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "subject header",
			text:     "From: alice@example.com\nSubject: Q3 Budget Review\n\nHello team,",
			expected: "Q3 Budget Review",
		},
		{
			name:     "lowercase subject header",
			text:     "subject: quarterly update\nbody follows",
			expected: "quarterly update",
		},
		{
			name:     "re header",
			text:     "RE: Contract renewal terms\n\nAs discussed,",
			expected: "Contract renewal terms",
		},
		{
			name:     "fw header",
			text:     "FW: Updated invoice attached\n\nPlease see below.",
			expected: "Updated invoice attached",
		},
		{
			name:     "first meaningful line fallback",
			text:     "Date: 2026-01-10\nFrom: bob@example.com\nThis document describes the migration plan.\nMore detail follows.",
			expected: "This document describes the migration plan.",
		},
		{
			name:     "short lines skipped",
			text:     "Hi,\nok\nThe deployment schedule for next quarter is attached.",
			expected: "The deployment schedule for next quarter is attached.",
		},
		{
			name:     "no usable content",
			text:     "Hi,\nok\nbye",
			expected: "Untitled Document",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "Untitled Document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractSubject(tt.text))
		})
	}
}

func TestExtractSubject_LongHeaderTruncated(t *testing.T) {
	subject := strings.Repeat("a", 150)
	got := ExtractSubject("Subject: " + subject)

	assert.Len(t, got, 100)
}

func TestExtractSubject_LongLineEllipsized(t *testing.T) {
	line := strings.Repeat("b", 150)
	got := ExtractSubject(line)

	assert.Len(t, got, 103)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExtractSubject_HeaderTakesFirstLineOnly(t *testing.T) {
	got := ExtractSubject("Subject: Renewal quote\nSecond line should not leak")

	assert.Equal(t, "Renewal quote", got)
}
