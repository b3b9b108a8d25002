// Package parser turns free-form user input into structured values: weekly
// task dumps into kanban cards, loose time-of-day strings into canonical
// "HH:MM", and account forms into per-field validation errors. Nothing in
// this package fails loudly; unparseable input degrades to a neutral result.
package parser

import (
	"regexp"
	"strings"

	"github.com/tbourn/rocketmentor/internal/domain"
)

var (
	// dayToken matches a weekday name or its 3-letter abbreviation at the
	// start of a line. Alternation order puts full names first.
	dayToken = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|mon|tue|wed|thu|fri)\b`)

	// dayPrefix is what gets stripped once dayToken matched: the token, any
	// trailing letters, an optional colon and whitespace.
	dayPrefix = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|mon|tue|wed|thu|fri)[a-z]*:?\s*`)

	lineSep = regexp.MustCompile(`[,\n]`)
)

var dayAliases = map[string]domain.DayOfWeek{
	"mon":       domain.Monday,
	"monday":    domain.Monday,
	"tue":       domain.Tuesday,
	"tuesday":   domain.Tuesday,
	"wed":       domain.Wednesday,
	"wednesday": domain.Wednesday,
	"thu":       domain.Thursday,
	"thursday":  domain.Thursday,
	"fri":       domain.Friday,
	"friday":    domain.Friday,
}

// ParseWeekDump splits text on commas and newlines and turns every non-empty
// segment into a card. A leading day token moves the day cursor (starting at
// monday) and is stripped; lines without one inherit the current day. A line
// that is only a day token yields no card.
//
// Returned cards carry id, title, day and type and are never suggested.
// newID is called once per produced card.
func ParseWeekDump(text string, newID func() string) []domain.KanbanCard {
	cards := make([]domain.KanbanCard, 0)
	day := domain.Monday

	for _, raw := range lineSep.Split(text, -1) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		content := line
		if m := dayToken.FindStringSubmatch(line); m != nil {
			if d, ok := dayAliases[strings.ToLower(m[1])]; ok {
				day = d
			}
			content = strings.TrimSpace(dayPrefix.ReplaceAllString(line, ""))
			if content == "" {
				continue
			}
		}

		cards = append(cards, domain.KanbanCard{
			ID:          newID(),
			Title:       content,
			Day:         day,
			Type:        InferCardType(content),
			IsSuggested: false,
		})
	}
	return cards
}

type typeRule struct {
	typ      domain.CardType
	keywords []string
}

// Evaluated top to bottom; the first rule with a matching keyword wins.
var typeRules = []typeRule{
	{domain.CardMeeting, []string{"meeting", "call", "sync"}},
	{domain.CardWorkshop, []string{"workshop"}},
	{domain.CardAnalysis, []string{"analysis", "model"}},
	{domain.CardDeliverable, []string{"deck", "slide", "proposal", "deliverable"}},
	{domain.CardInternal, []string{"internal", "admin"}},
}

// InferCardType classifies text by keyword. It always returns one of the six
// card types, defaulting to "other".
func InferCardType(text string) domain.CardType {
	lower := strings.ToLower(text)
	for _, r := range typeRules {
		if containsAny(lower, r.keywords...) {
			return r.typ
		}
	}
	return domain.CardOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
