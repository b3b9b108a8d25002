package store

import (
	"slices"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// Planner derives the onboarding outputs. *generator.Generator satisfies it.
type Planner interface {
	ManagerCanvas(domain.OnboardingData) domain.ManagerCanvas
	PromotionPath(domain.OnboardingData) domain.PromotionPath
}

// Reduce applies a to s and returns the next snapshot. Only the branches an
// action touches are rebuilt; every other slice and pointer is carried over
// as is. Unknown actions, and actions addressing a week, card, move, win or
// milestone that does not exist, return s unchanged.
//
// p is only consulted by CompleteOnboarding.
func Reduce(p Planner, s State, a Action) State {
	next, _ := reduce(p, s, a)
	return next
}

// reduce also reports whether anything changed, so the Store can skip
// notifying subscribers for no-op dispatches.
func reduce(p Planner, s State, a Action) (State, bool) {
	switch a := a.(type) {
	case SetUser:
		if a.User == nil {
			if s.User == nil {
				return s, false
			}
			s.User = nil
			return s, true
		}
		s.User = cloneUser(*a.User)
		return s, true

	case Logout:
		return Initial(), true

	case LoadState:
		return loadState(s, a)

	case UpdateOnboarding:
		s.Onboarding = patchOnboarding(s.Onboarding, a.Patch)
		return s, true

	case UpdateCompetencyAssessment:
		as, ok := replace(s.Onboarding.CompetencyAssessments,
			func(x domain.CompetencyAssessment) bool { return x.CompetencyID == a.Assessment.CompetencyID },
			func(domain.CompetencyAssessment) domain.CompetencyAssessment { return a.Assessment })
		if !ok {
			return s, false
		}
		s.Onboarding.CompetencyAssessments = as
		return s, true

	case CompleteOnboarding:
		if p == nil {
			return s, false
		}
		canvas := p.ManagerCanvas(s.Onboarding)
		path := p.PromotionPath(s.Onboarding)
		if s.User != nil {
			u := cloneUser(*s.User)
			u.OnboardingCompleted = true
			s.User = u
		}
		s.ManagerCanvas = &canvas
		s.PromotionPath = &path
		return s, true

	case SetManagerCanvas:
		c := a.Canvas
		c.KeyBehaviors = slices.Clone(c.KeyBehaviors)
		s.ManagerCanvas = &c
		return s, true

	case UpdateManagerCanvas:
		if s.ManagerCanvas == nil {
			return s, false
		}
		c := patchCanvas(*s.ManagerCanvas, a.Patch)
		s.ManagerCanvas = &c
		return s, true

	case SetPromotionPath:
		path := a.Path
		s.PromotionPath = &path
		return s, true

	case UpdatePromotionPath:
		if s.PromotionPath == nil {
			return s, false
		}
		path := patchPath(*s.PromotionPath, a.Patch)
		s.PromotionPath = &path
		return s, true

	case ToggleMilestone:
		if s.PromotionPath == nil {
			return s, false
		}
		ms, ok := replace(s.PromotionPath.Milestones,
			func(m domain.PromotionMilestone) bool { return m.ID == a.MilestoneID },
			func(m domain.PromotionMilestone) domain.PromotionMilestone { m.Completed = !m.Completed; return m })
		if !ok {
			return s, false
		}
		path := *s.PromotionPath
		path.Milestones = ms
		s.PromotionPath = &path
		return s, true

	case AddWeekPlan:
		for _, wp := range s.WeekPlans {
			if wp.ID == a.Plan.ID || wp.WeekStartDate.Equal(a.Plan.WeekStartDate) {
				return s, false
			}
		}
		s.WeekPlans = appendCopy(s.WeekPlans, clonePlan(a.Plan))
		return s, true

	case UpdateWeekPlan:
		return s.withWeek(a.Plan.ID, func(domain.WeekPlan) (domain.WeekPlan, bool) {
			return clonePlan(a.Plan), true
		})

	case DeleteWeekPlan:
		wps, ok := remove(s.WeekPlans, func(wp domain.WeekPlan) bool { return wp.ID == a.WeekID })
		if !ok {
			return s, false
		}
		s.WeekPlans = wps
		return s, true

	case AddCard:
		return s.withWeek(a.WeekID, func(wp domain.WeekPlan) (domain.WeekPlan, bool) {
			wp.Cards = appendCopy(wp.Cards, a.Card)
			return wp, true
		})

	case UpdateCard:
		return s.withWeek(a.WeekID, func(wp domain.WeekPlan) (domain.WeekPlan, bool) {
			cards, ok := replace(wp.Cards,
				func(c domain.KanbanCard) bool { return c.ID == a.Card.ID },
				func(domain.KanbanCard) domain.KanbanCard { return a.Card })
			wp.Cards = cards
			return wp, ok
		})

	case DeleteCard:
		return s.withWeek(a.WeekID, func(wp domain.WeekPlan) (domain.WeekPlan, bool) {
			cards, ok := remove(wp.Cards, func(c domain.KanbanCard) bool { return c.ID == a.CardID })
			wp.Cards = cards
			return wp, ok
		})

	case UpdateCareerMove:
		mv := cloneMove(a.Move)
		if mv.Completed {
			mv.Committed = true
		}
		return s.withWeek(a.WeekID, func(wp domain.WeekPlan) (domain.WeekPlan, bool) {
			moves, ok := replace(wp.CareerMoves,
				func(m domain.CareerMove) bool { return m.ID == mv.ID },
				func(domain.CareerMove) domain.CareerMove { return mv })
			wp.CareerMoves = moves
			return wp, ok
		})

	case AddWin:
		s.Wins = appendCopy(s.Wins, cloneWin(a.Win))
		return s, true

	case UpdateWin:
		w := cloneWin(a.Win)
		wins, ok := replace(s.Wins, func(x domain.Win) bool { return x.ID == w.ID }, func(domain.Win) domain.Win { return w })
		if !ok {
			return s, false
		}
		s.Wins = wins
		return s, true

	case DeleteWin:
		wins, ok := remove(s.Wins, func(w domain.Win) bool { return w.ID == a.WinID })
		if !ok {
			return s, false
		}
		s.Wins = wins
		return s, true

	case AddChatMessage:
		s.ChatHistory = appendCopy(s.ChatHistory, a.Message)
		return s, true

	case ClearChatHistory:
		if len(s.ChatHistory) == 0 {
			return s, false
		}
		s.ChatHistory = []domain.ChatMessage{}
		return s, true

	case CompletePageTour:
		if s.User == nil || slices.Contains(s.User.CompletedPageTours, a.Page) {
			return s, false
		}
		u := cloneUser(*s.User)
		u.CompletedPageTours = append(u.CompletedPageTours, a.Page)
		s.User = u
		return s, true

	case CompleteGettingStarted:
		if s.User == nil || s.User.GettingStartedCompleted {
			return s, false
		}
		u := cloneUser(*s.User)
		u.GettingStartedCompleted = true
		s.User = u
		return s, true
	}
	return s, false
}

// withWeek rebuilds the plan with id weekID through fn. Nothing changes when
// the week is missing or fn reports no change.
func (s State) withWeek(weekID string, fn func(domain.WeekPlan) (domain.WeekPlan, bool)) (State, bool) {
	changed := false
	wps, found := replace(s.WeekPlans,
		func(wp domain.WeekPlan) bool { return wp.ID == weekID },
		func(wp domain.WeekPlan) domain.WeekPlan {
			next, ok := fn(wp)
			changed = ok
			return next
		})
	if !found || !changed {
		return s, false
	}
	s.WeekPlans = wps
	return s, true
}

func loadState(s State, a LoadState) (State, bool) {
	if a.User != nil {
		s.User = cloneUser(*a.User)
	}
	if a.Onboarding != nil {
		o := *a.Onboarding
		o.CompetencyAssessments = slices.Clone(o.CompetencyAssessments)
		s.Onboarding = o
	}
	if a.ManagerCanvas != nil {
		c := *a.ManagerCanvas
		s.ManagerCanvas = &c
	}
	if a.PromotionPath != nil {
		p := *a.PromotionPath
		s.PromotionPath = &p
	}
	if a.WeekPlans != nil {
		s.WeekPlans = slices.Clone(a.WeekPlans)
	}
	if a.Wins != nil {
		s.Wins = slices.Clone(a.Wins)
	}
	if a.ChatHistory != nil {
		s.ChatHistory = slices.Clone(a.ChatHistory)
	}
	return s, true
}

func patchOnboarding(o domain.OnboardingData, p OnboardingPatch) domain.OnboardingData {
	set(&o.CurrentLevel, p.CurrentLevel)
	set(&o.FirmType, p.FirmType)
	set(&o.Location, p.Location)
	set(&o.Timezone, p.Timezone)
	set(&o.ManagerStressTrigger, p.ManagerStressTrigger)
	set(&o.ManagerPraiseTrigger, p.ManagerPraiseTrigger)
	set(&o.ManagerStyle, p.ManagerStyle)
	set(&o.TargetLevel, p.TargetLevel)
	set(&o.PromotionHorizon, p.PromotionHorizon)
	set(&o.WeeklyCheckInDay, p.WeeklyCheckInDay)
	set(&o.WeeklyCheckInTime, p.WeeklyCheckInTime)
	if p.CompetencyAssessments != nil {
		o.CompetencyAssessments = slices.Clone(p.CompetencyAssessments)
	}
	return o
}

func patchCanvas(c domain.ManagerCanvas, p ManagerCanvasPatch) domain.ManagerCanvas {
	set(&c.ClientImpact, p.ClientImpact)
	set(&c.Profitability, p.Profitability)
	set(&c.Teamwork, p.Teamwork)
	set(&c.InternalContributions, p.InternalContributions)
	set(&c.Optics, p.Optics)
	set(&c.Style, p.Style)
	if p.KeyBehaviors != nil {
		c.KeyBehaviors = slices.Clone(p.KeyBehaviors)
	}
	return c
}

func patchPath(path domain.PromotionPath, p PromotionPathPatch) domain.PromotionPath {
	set(&path.TargetLevel, p.TargetLevel)
	set(&path.TargetDate, p.TargetDate)
	if p.FocusAreas != nil {
		path.FocusAreas = slices.Clone(p.FocusAreas)
	}
	if p.Competencies != nil {
		path.Competencies = slices.Clone(p.Competencies)
	}
	if p.Milestones != nil {
		path.Milestones = slices.Clone(p.Milestones)
	}
	return path
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// appendCopy always allocates, so earlier snapshots never share spare
// capacity with later ones.
func appendCopy[T any](xs []T, x T) []T {
	out := make([]T, len(xs), len(xs)+1)
	copy(out, xs)
	return append(out, x)
}

// replace returns a copy of xs with the first element matching rewritten by
// fn. xs itself is returned when nothing matches.
func replace[T any](xs []T, match func(T) bool, fn func(T) T) ([]T, bool) {
	i := slices.IndexFunc(xs, match)
	if i < 0 {
		return xs, false
	}
	out := slices.Clone(xs)
	out[i] = fn(out[i])
	return out, true
}

// remove returns a copy of xs without the elements matching.
func remove[T any](xs []T, match func(T) bool) ([]T, bool) {
	if !slices.ContainsFunc(xs, match) {
		return xs, false
	}
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if !match(x) {
			out = append(out, x)
		}
	}
	return out, true
}

func cloneUser(u domain.User) *domain.User {
	u.CompletedPageTours = slices.Clone(u.CompletedPageTours)
	return &u
}

func clonePlan(wp domain.WeekPlan) domain.WeekPlan {
	wp.Cards = slices.Clone(wp.Cards)
	if wp.Cards == nil {
		wp.Cards = []domain.KanbanCard{}
	}
	wp.CareerMoves = slices.Clone(wp.CareerMoves)
	if wp.CareerMoves == nil {
		wp.CareerMoves = []domain.CareerMove{}
	}
	return wp
}

func cloneMove(m domain.CareerMove) domain.CareerMove {
	m.LinkedCompetencies = slices.Clone(m.LinkedCompetencies)
	m.LinkedCardIDs = slices.Clone(m.LinkedCardIDs)
	return m
}

func cloneWin(w domain.Win) domain.Win {
	w.CompetencyTags = slices.Clone(w.CompetencyTags)
	if w.CompetencyTags == nil {
		w.CompetencyTags = []string{}
	}
	return w
}
