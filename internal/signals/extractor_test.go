package signals

import (
	"testing"

	"replydesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTurn(text string) models.Turn {
	return models.Turn{Text: text, IsUser: true, Kind: models.KindUserMessage}
}

func assistantTurn(text string) models.Turn {
	return models.Turn{Text: text, Kind: models.KindGeneralResponse}
}

func TestExtract_EmptyHistory(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract(nil)
	assert.True(t, out.IsEmpty())
}

func TestExtract_OnlyAssistantTurns(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		assistantTurn("Contact john.doe@example.com about the Project Budget on Monday"),
	})
	assert.True(t, out.IsEmpty(), "assistant turns must never contribute signals")
}

func TestExtract_Emails(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("Send it to john.doe@example.com and cc jane+billing@corp.co.uk"),
	})
	assert.Equal(t, []string{"john.doe@example.com", "jane+billing@corp.co.uk"}, out.Emails)
}

func TestExtract_Names(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("Address it to Sarah Connor and mention that John Smith approved"),
	})
	assert.Equal(t, []string{"Sarah Connor", "John Smith"}, out.Names)
}

func TestExtract_Dates(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected []string
	}{
		{"weekday", "the call is on Friday", []string{"Friday"}},
		{"numeric date", "due 12/31/2026 at the latest", []string{"12/31/2026"}},
		{"iso date", "shipped on 2026-03-15", []string{"2026-03-15"}},
		{"month name", "we close the books in January", []string{"January"}},
	}

	e := NewPatternExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Extract([]models.Turn{userTurn(tt.message)})
			assert.Equal(t, tt.expected, out.Dates)
		})
	}
}

func TestExtract_Amounts(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("The quote is $1,500.50 but they offered 900 dollars"),
	})
	require.Len(t, out.Amounts, 2)
	assert.Equal(t, "$1,500.50", out.Amounts[0])
}

func TestExtract_TonePreferencesLowercased(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("Keep it Professional and Brief, not too formal"),
	})
	assert.Equal(t, []string{"professional", "brief", "formal"}, out.TonePreferences)
}

func TestExtract_Topics(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("The meeting about the budget moved, update the proposal"),
	})
	assert.Equal(t, []string{"meeting", "budget", "proposal"}, out.Topics)
}

func TestExtract_InstructionsCapped(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("Include the totals. Mention the deadline. Add a greeting."),
		userTurn("Also attach the invoice. Remember to sign off. Make sure it is short."),
	})
	assert.Len(t, out.Instructions, 5, "instructions are capped at five")
	assert.Equal(t, "Include the totals", out.Instructions[0])
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewPatternExtractor()
	turns := []models.Turn{
		userTurn("Email john@example.com about the meeting on Monday, keep it polite"),
		assistantTurn("Done."),
		userTurn("Also mention the $200 budget and write it for Jane Doe"),
	}

	first := e.Extract(turns)
	second := e.Extract(turns)
	assert.Equal(t, first, second, "extraction must be a pure function of the turns")
}

func TestExtract_EmailEvolution(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("Write an email reply to this"),
		userTurn("What does the second paragraph mean?"),
		userTurn("Now draft it again but shorter"),
	})
	require.NotNil(t, out.EmailEvolution)
	assert.Equal(t, 2, out.EmailEvolution.RequestsCount)
	assert.Equal(t, "Now draft it again but shorter", out.EmailEvolution.LatestRequest)
	assert.True(t, out.EmailEvolution.EvolvingRequirements)
}

func TestExtract_EmailEvolutionSingleRequest(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("Generate a response please"),
	})
	require.NotNil(t, out.EmailEvolution)
	assert.Equal(t, 1, out.EmailEvolution.RequestsCount)
	assert.False(t, out.EmailEvolution.EvolvingRequirements)
}

func TestExtract_NoEvolutionWithoutKeywords(t *testing.T) {
	e := NewPatternExtractor()

	out := e.Extract([]models.Turn{
		userTurn("What is this about?"),
	})
	assert.Nil(t, out.EmailEvolution)
}

func TestSignals_IsEmpty(t *testing.T) {
	assert.True(t, Signals{}.IsEmpty())
	assert.False(t, Signals{Emails: []string{"a@b.co"}}.IsEmpty())
	assert.False(t, Signals{EmailEvolution: &EmailEvolution{RequestsCount: 1}}.IsEmpty())
}
