package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbourn/rocketmentor/internal/domain"
)

func TestMatchCoach_Precedence(t *testing.T) {
	tests := []struct {
		msg  string
		rule string
	}{
		{"How do I push back on an unrealistic deadline without looking weak?", "pushback"},
		{"Can you draft an update about this unrealistic DEADLINE?", "pushback"},
		{"I have too many tasks, how do I prioritize?", "prioritize"},
		{"Prioritize my email backlog", "prioritize"},
		{"How do I tell my manager that I want to get promoted next cycle? promotion", "promotion"},
		{"promotion conversation prep", "promotion"},
		{"promotion timeline?", "fallback"},
		{"Can you help me draft a weekly update email for my manager?", "update"},
		{"deadline is tight", "fallback"},
		{"", "fallback"},
	}
	for _, tt := range tests {
		got, reply := MatchCoach(tt.msg, CoachContext{})
		require.Equalf(t, tt.rule, got, "message %q", tt.msg)
		require.NotEmpty(t, reply)
	}
}

func TestCoachReply_PushbackStyleNote(t *testing.T) {
	g := newTestGen()
	msg := "the deadline is unrealistic"
	note := "*Given your manager's execution focus, lead with the options and be crisp about trade-offs.*"

	plain := g.CoachReply(msg, CoachContext{})
	require.NotContains(t, plain, note)
	require.True(t, strings.HasSuffix(plain, "- Show you've already tried to solve it\n\n"))
	require.Contains(t, plain, `- "We could bring in Y for specific task"  `+"\n")

	styled := g.CoachReply(msg, CoachContext{ManagerCanvas: &domain.ManagerCanvas{Style: StyleExecution}})
	require.Equal(t, plain+"\n"+note, styled)

	other := g.CoachReply(msg, CoachContext{ManagerCanvas: &domain.ManagerCanvas{Style: StylePeopleFocused}})
	require.Equal(t, plain, other)
}

func TestCoachReply_PrioritizeFocusLine(t *testing.T) {
	g := newTestGen()
	plain := g.CoachReply("too many tasks", CoachContext{})
	require.Contains(t, plain, "**This week, focus on:**\n- Tasks that create visible wins\n\n**Pro tip:**")

	withFocus := g.CoachReply("too many tasks", CoachContext{FocusAreas: []domain.FocusArea{{Title: "Take more initiative"}}})
	require.Contains(t, withFocus, `- Your focus area: "Take more initiative" - pick tasks that let you demonstrate this`)
	require.NotContains(t, withFocus, "Tasks that create visible wins")
}

func TestCoachReply_PromotionMilestoneNote(t *testing.T) {
	g := newTestGen()
	msg := "what should I say about promotion"
	note := `*This aligns with your upcoming milestone: "Align with your manager on promotion goal" - this conversation is exactly what you need.*`

	require.NotContains(t, g.CoachReply(msg, CoachContext{}), note)

	ctx := CoachContext{UpcomingMilestones: []domain.PromotionMilestone{{ID: "prepare_case"}, {ID: domain.MilestoneManagerConversation}}}
	got := g.CoachReply(msg, ctx)
	require.Contains(t, got, "periodically?\"\n\n\n"+note+"\n\n**What NOT to say:**")
}

func TestCoachReply_UpdateIsContextFree(t *testing.T) {
	g := newTestGen()
	a := g.CoachReply("email", CoachContext{})
	b := g.CoachReply("email", CoachContext{FocusAreas: []domain.FocusArea{{Title: "x"}}, ManagerCanvas: &domain.ManagerCanvas{Style: StyleExecution}})
	require.Equal(t, a, b)
	require.True(t, strings.HasPrefix(a, "Here's a template for a strong weekly update:"))
	require.True(t, strings.HasSuffix(a, "Would you like me to help draft this based on your current week?"))
}

func TestCoachReply_FallbackFocusNote(t *testing.T) {
	g := newTestGen()
	plain := g.CoachReply("hello", CoachContext{})
	require.Contains(t, plain, "want to demonstrate.\n\n\n\nIs there a specific situation")

	got := g.CoachReply("hello", CoachContext{FocusAreas: []domain.FocusArea{{Title: "Level up your storylining"}}})
	require.Contains(t, got, `*Based on your focus area "Level up your storylining", I'd especially focus on opportunities that let you demonstrate this.*`)
	require.True(t, strings.HasSuffix(got, "Is there a specific situation you'd like me to help you navigate?"))
}

func TestCoachRules_NamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range CoachRules {
		require.False(t, seen[r.Name], r.Name)
		seen[r.Name] = true
	}
}
