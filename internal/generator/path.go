package generator

import (
	"math"
	"sort"
	"time"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// FocusAreaCount is how many of the weakest competencies become focus areas.
const FocusAreaCount = 3

const monthApprox = 30 * 24 * time.Hour

// focusTitles holds {score < 3, score >= 3} title variants per competency.
var focusTitles = map[string][2]string{
	domain.CompetencyProblemSolving: {"Sharpen your structured thinking", "Build your analytical toolkit"},
	domain.CompetencyClientImpact:   {"Make your client impact visible", "Build client relationships proactively"},
	domain.CompetencyOwnership:      {"Take more initiative", "Own outcomes end-to-end"},
	domain.CompetencyTeaming:        {"Elevate your team contributions", "Start building your leadership presence"},
	domain.CompetencyCommunication:  {"Level up your storylining", "Make your communications more compelling"},
	domain.CompetencyCommercial:     {"Develop business sense", "Show commercial awareness"},
}

var focusDescriptions = map[string]string{
	domain.CompetencyProblemSolving: "Structure problems clearly before diving in. Use hypothesis trees and issue trees to break down complex challenges.",
	domain.CompetencyClientImpact:   "Find ways to make your contributions visible to clients. Proactively share updates and build relationships.",
	domain.CompetencyOwnership:      "Look for opportunities to take initiative. Own workstreams without constant supervision and follow through reliably.",
	domain.CompetencyTeaming:        "Be the teammate everyone wants to work with. Support others, share knowledge, and start developing junior members.",
	domain.CompetencyCommunication:  `Create clearer narratives. Focus on the "so what" and structure your slides with a compelling storyline.`,
	domain.CompetencyCommercial:     "Understand project economics and look for opportunities to add value beyond the immediate scope.",
}

// FocusAreas picks the three lowest-scored assessments (stable, so ties keep
// catalog order) and emits one focus area per known competency. Unknown ids
// are skipped without being replaced.
func (g *Generator) FocusAreas(o domain.OnboardingData) []domain.FocusArea {
	sorted := make([]domain.CompetencyAssessment, len(o.CompetencyAssessments))
	copy(sorted, o.CompetencyAssessments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score < sorted[j].Score })
	if len(sorted) > FocusAreaCount {
		sorted = sorted[:FocusAreaCount]
	}

	out := make([]domain.FocusArea, 0, len(sorted))
	for _, a := range sorted {
		if _, ok := domain.LookupCompetency(a.CompetencyID); !ok {
			continue
		}
		out = append(out, domain.FocusArea{
			ID:                 g.NewID(),
			Title:              focusTitle(a.CompetencyID, a.Score),
			Description:        focusDescription(a.CompetencyID),
			LinkedCompetencies: []string{a.CompetencyID},
			Examples:           []string{},
		})
	}
	return out
}

func focusTitle(id string, score int) string {
	t, ok := focusTitles[id]
	if !ok {
		return "Develop this competency"
	}
	if score < 3 {
		return t[0]
	}
	return t[1]
}

func focusDescription(id string) string {
	if d, ok := focusDescriptions[id]; ok {
		return d
	}
	return "Focus on developing this competency through deliberate practice."
}

// MonthsUntil rounds the distance to target up to whole 30-day months.
func (g *Generator) MonthsUntil(target time.Time) int {
	return int(math.Ceil(float64(target.Sub(g.Now())) / float64(monthApprox)))
}

// Milestones keeps the templates whose lead time fits before target, dates
// each one lead-time calendar months before target and returns them in date
// order.
func (g *Generator) Milestones(target time.Time) []domain.PromotionMilestone {
	months := g.MonthsUntil(target)

	out := make([]domain.PromotionMilestone, 0, len(domain.MilestoneTemplates()))
	for _, m := range domain.MilestoneTemplates() {
		if m.MonthsBefore > months {
			continue
		}
		out = append(out, domain.PromotionMilestone{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			TargetDate:  target.AddDate(0, -m.MonthsBefore, 0),
			Completed:   false,
			Category:    m.Category,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	return out
}

var horizonMonths = map[domain.PromotionHorizon]int{
	domain.Horizon6Months:      6,
	domain.Horizon6To12Months:  9,
	domain.Horizon12To18Months: 15,
	domain.Horizon18PlusMonths: 24,
}

// PromotionTargetDate maps a horizon answer to an absolute date. Unknown
// horizons land twelve months out.
func (g *Generator) PromotionTargetDate(h domain.PromotionHorizon) time.Time {
	months, ok := horizonMonths[h]
	if !ok {
		months = 12
	}
	return g.Now().AddDate(0, months, 0)
}

// PromotionPath composes the full plan from onboarding answers. An unanswered
// horizon is read as 12-18 months and an unanswered target as consultant.
// Target scores are current+1, capped at 5 but never below current.
func (g *Generator) PromotionPath(o domain.OnboardingData) domain.PromotionPath {
	horizon := o.PromotionHorizon
	if horizon == "" {
		horizon = domain.Horizon12To18Months
	}
	target := g.PromotionTargetDate(horizon)

	level := o.TargetLevel
	if level == "" {
		level = domain.TargetConsultant
	}

	progress := make([]domain.CompetencyProgress, 0, len(o.CompetencyAssessments))
	for _, a := range o.CompetencyAssessments {
		progress = append(progress, domain.CompetencyProgress{
			CompetencyID: a.CompetencyID,
			CurrentScore: a.Score,
			TargetScore:  max(a.Score, min(5, a.Score+1)),
			Momentum:     domain.MomentumStable,
			RecentWins:   0,
		})
	}

	return domain.PromotionPath{
		TargetLevel:  level,
		TargetDate:   target,
		FocusAreas:   g.FocusAreas(o),
		Competencies: progress,
		Milestones:   g.Milestones(target),
	}
}
