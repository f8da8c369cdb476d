package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, time.October, 17, 22, 30, 0, 0, time.UTC)

func newTestParser(opts ...Option) *Parser {
	return NewParser(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Draft
	}{
		{
			name:  "tomorrow suffix",
			input: "Buy milk tomorrow",
			want:  Draft{Title: "Buy milk", DueDate: "2026-10-18"},
		},
		{
			name:  "no keyword",
			input: "Buy milk",
			want:  Draft{Title: "Buy milk"},
		},
		{
			name:  "keyword only",
			input: "tomorrow",
			want:  Draft{Title: "", DueDate: "2026-10-18"},
		},
		{
			name:  "next week",
			input: "next week review budget",
			want:  Draft{Title: "review budget", DueDate: "2026-10-24"},
		},
		{
			name:  "case insensitive",
			input: "Call mom TOMORROW",
			want:  Draft{Title: "Call mom", DueDate: "2026-10-18"},
		},
		{
			name:  "only first occurrence removed",
			input: "tomorrow plan tomorrow",
			want:  Draft{Title: "plan tomorrow", DueDate: "2026-10-18"},
		},
		{
			name:  "table order wins",
			input: "next week or tomorrow",
			want:  Draft{Title: "next week or", DueDate: "2026-10-18"},
		},
		{
			name:  "keyword in middle keeps inner spacing",
			input: "Pay tomorrow rent",
			want:  Draft{Title: "Pay  rent", DueDate: "2026-10-18"},
		},
		{
			name:  "unmatched text is not trimmed",
			input: "  spaced  ",
			want:  Draft{Title: "  spaced  "},
		},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.input))
		})
	}
}

func TestParser_CalendarDayAcrossMonth(t *testing.T) {
	end := time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC)
	p := NewParser(WithClock(func() time.Time { return end }))

	assert.Equal(t, "2027-01-01", p.Parse("party tomorrow").DueDate)
	assert.Equal(t, "2027-01-07", p.Parse("next week").DueDate)
}

func TestParser_CustomKeywords(t *testing.T) {
	p := newTestParser(WithKeywords([]Keyword{
		{Phrase: "today", Days: 0},
		{Phrase: "", Days: 3},
		{Phrase: "in a month", Days: 30},
	}))

	assert.Equal(t, Draft{Title: "ship", DueDate: "2026-10-17"}, p.Parse("ship today"))
	assert.Equal(t, Draft{Title: "renew", DueDate: "2026-11-16"}, p.Parse("renew in a month"))
	assert.Equal(t, Draft{Title: "ship tomorrow"}, p.Parse("ship tomorrow"))
}

func TestParser_RegexMetaInPhrase(t *testing.T) {
	p := newTestParser(WithKeywords([]Keyword{{Phrase: "a.s.a.p", Days: 0}}))

	assert.Equal(t, Draft{Title: "fix abcdefg"}, p.Parse("fix abcdefg"))
	assert.Equal(t, Draft{Title: "fix", DueDate: "2026-10-17"}, p.Parse("fix A.S.A.P"))
}

func TestDraft_HasDueDate(t *testing.T) {
	assert.False(t, Draft{Title: "x"}.HasDueDate())
	assert.True(t, Draft{Title: "x", DueDate: "2026-10-18"}.HasDueDate())
}
