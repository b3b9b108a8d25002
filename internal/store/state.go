// Package store holds the whole per-user application state as an immutable
// snapshot and moves it forward through named actions. Reduce is the pure
// transition function; Store serialises dispatches, notifies subscribers
// after each committed transition and tracks a session epoch so callbacks
// belonging to a signed-out session can be dropped.
package store

import (
	"github.com/tbourn/rocketmentor/internal/domain"
)

// State is one snapshot of the state tree. Snapshots share unchanged
// branches with their predecessors; nothing reachable from a published
// State is ever mutated.
type State struct {
	User          *domain.User          `json:"user"`
	Onboarding    domain.OnboardingData `json:"onboarding"`
	ManagerCanvas *domain.ManagerCanvas `json:"managerCanvas"`
	PromotionPath *domain.PromotionPath `json:"promotionPath"`
	WeekPlans     []domain.WeekPlan     `json:"weekPlans"`
	Wins          []domain.Win          `json:"wins"`
	ChatHistory   []domain.ChatMessage  `json:"chatHistory"`
}

// Default check-in preferences for a fresh onboarding.
const (
	DefaultCheckInDay  = "Monday"
	DefaultCheckInTime = "08:30"
	DefaultScore       = 3
)

// InitialOnboarding is the empty questionnaire: every catalog competency at
// score 3 and a Monday 08:30 check-in.
func InitialOnboarding() domain.OnboardingData {
	cs := domain.Competencies()
	as := make([]domain.CompetencyAssessment, 0, len(cs))
	for _, c := range cs {
		as = append(as, domain.CompetencyAssessment{CompetencyID: c.ID, Score: DefaultScore, Example: ""})
	}
	return domain.OnboardingData{
		CompetencyAssessments: as,
		WeeklyCheckInDay:      DefaultCheckInDay,
		WeeklyCheckInTime:     DefaultCheckInTime,
	}
}

// Initial returns the signed-out state.
func Initial() State {
	return State{
		Onboarding:  InitialOnboarding(),
		WeekPlans:   []domain.WeekPlan{},
		Wins:        []domain.Win{},
		ChatHistory: []domain.ChatMessage{},
	}
}

// Week returns the plan with the given id.
func (s State) Week(id string) (domain.WeekPlan, bool) {
	for _, wp := range s.WeekPlans {
		if wp.ID == id {
			return wp, true
		}
	}
	return domain.WeekPlan{}, false
}

// Win returns the win with the given id.
func (s State) Win(id string) (domain.Win, bool) {
	for _, w := range s.Wins {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Win{}, false
}

// FocusAreas is a nil-safe accessor for the promotion path's focus areas.
func (s State) FocusAreas() []domain.FocusArea {
	if s.PromotionPath == nil {
		return nil
	}
	return s.PromotionPath.FocusAreas
}

// UpcomingMilestones returns the milestones not yet completed.
func (s State) UpcomingMilestones() []domain.PromotionMilestone {
	if s.PromotionPath == nil {
		return nil
	}
	out := make([]domain.PromotionMilestone, 0, len(s.PromotionPath.Milestones))
	for _, m := range s.PromotionPath.Milestones {
		if !m.Completed {
			out = append(out, m)
		}
	}
	return out
}
