package query

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the format of Draft.DueDate.
const DateLayout = "2006-01-02"

// Keyword maps a phrase in the query to a due date offset in days.
type Keyword struct {
	Phrase string
	Days   int
}

// DefaultKeywords is the built-in keyword table. Order matters: the first
// matching entry wins.
var DefaultKeywords = []Keyword{
	{Phrase: "tomorrow", Days: 1},
	{Phrase: "next week", Days: 7},
}

// Draft is a task parsed from launcher input.
type Draft struct {
	Title string
	// DueDate is empty when the query named no date.
	DueDate string
}

// HasDueDate reports whether the draft carries a due date.
func (d Draft) HasDueDate() bool {
	return d.DueDate != ""
}

type matcher struct {
	keyword Keyword
	re      *regexp.Regexp
}

// Parser turns free text into a Draft.
type Parser struct {
	matchers []matcher
	now      func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the time source used to compute due dates.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// WithKeywords replaces the keyword table.
func WithKeywords(keywords []Keyword) Option {
	return func(p *Parser) {
		p.matchers = compile(keywords)
	}
}

// NewParser returns a Parser using DefaultKeywords and the wall clock.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		matchers: compile(DefaultKeywords),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func compile(keywords []Keyword) []matcher {
	matchers := make([]matcher, 0, len(keywords))
	for _, kw := range keywords {
		if strings.TrimSpace(kw.Phrase) == "" {
			continue
		}
		matchers = append(matchers, matcher{
			keyword: kw,
			re:      regexp.MustCompile("(?i)" + regexp.QuoteMeta(kw.Phrase)),
		})
	}
	return matchers
}

// Parse extracts a title and an optional due date from text. The first
// keyword found (in table order, case-insensitively) sets the due date and
// its first occurrence is cut from the title. The title may end up empty.
func (p *Parser) Parse(text string) Draft {
	for _, m := range p.matchers {
		loc := m.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		title := text[:loc[0]] + text[loc[1]:]
		return Draft{
			Title:   strings.TrimSpace(title),
			DueDate: p.now().AddDate(0, 0, m.keyword.Days).Format(DateLayout),
		}
	}
	return Draft{Title: text}
}
