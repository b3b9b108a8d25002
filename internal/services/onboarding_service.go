// Package services – OnboardingService
//
// OnboardingService edits the questionnaire of the signed-in user and turns
// the answers into a manager canvas and a promotion path.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/parser"
	"github.com/tbourn/rocketmentor/internal/repo"
	"github.com/tbourn/rocketmentor/internal/store"
)

// OnboardingService coordinates onboarding edits.
type OnboardingService struct {
	Workspaces *Workspaces
	Auth       *AuthService
}

// Get returns the current answers.
func (s *OnboardingService) Get(ctx context.Context, userID string) (domain.OnboardingData, error) {
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.OnboardingData{}, err
	}
	return st.State().Onboarding, nil
}

// Patch validates and applies a partial update. The check-in time may be
// given in any form ParseTimeInput accepts and is stored as HH:MM.
func (s *OnboardingService) Patch(ctx context.Context, userID string, p store.OnboardingPatch) (domain.OnboardingData, error) {
	tr := otel.Tracer("services/OnboardingService")
	ctx, span := tr.Start(ctx, "Patch", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	fe := parser.FieldErrors{}
	check := func(field string, set, ok bool) {
		if set && !ok {
			fe[field] = "Please choose one of the listed options"
		}
	}
	check("currentLevel", p.CurrentLevel != nil, p.CurrentLevel != nil && p.CurrentLevel.Valid())
	check("firmType", p.FirmType != nil, p.FirmType != nil && p.FirmType.Valid())
	check("managerStressTrigger", p.ManagerStressTrigger != nil, p.ManagerStressTrigger != nil && p.ManagerStressTrigger.Valid())
	check("managerPraiseTrigger", p.ManagerPraiseTrigger != nil, p.ManagerPraiseTrigger != nil && p.ManagerPraiseTrigger.Valid())
	check("managerStyle", p.ManagerStyle != nil, p.ManagerStyle != nil && p.ManagerStyle.Valid())
	check("targetLevel", p.TargetLevel != nil, p.TargetLevel != nil && p.TargetLevel.Valid())
	check("promotionHorizon", p.PromotionHorizon != nil, p.PromotionHorizon != nil && p.PromotionHorizon.Valid())

	if p.WeeklyCheckInDay != nil {
		day := domain.DayOfWeek(strings.ToLower(strings.TrimSpace(*p.WeeklyCheckInDay)))
		if !day.Valid() {
			fe["weeklyCheckInDay"] = "Please choose a weekday"
		} else {
			label := day.Label()
			p.WeeklyCheckInDay = &label
		}
	}
	if p.WeeklyCheckInTime != nil {
		hhmm, tfe := parser.ValidateTime("weeklyCheckInTime", *p.WeeklyCheckInTime)
		for k, v := range tfe {
			fe[k] = v
		}
		p.WeeklyCheckInTime = &hhmm
	}
	if p.CompetencyAssessments != nil {
		if msg := checkAssessments(p.CompetencyAssessments); msg != "" {
			fe["competencyAssessments"] = msg
		}
	}
	if err := invalid(fe); err != nil {
		return domain.OnboardingData{}, err
	}

	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.OnboardingData{}, err
	}
	return st.Dispatch(store.UpdateOnboarding{Patch: p}).Onboarding, nil
}

// checkAssessments requires exactly one in-range entry per catalog
// competency. It returns the first problem found, or "".
func checkAssessments(as []domain.CompetencyAssessment) string {
	seen := make(map[string]bool, len(as))
	for _, a := range as {
		if _, ok := domain.LookupCompetency(a.CompetencyID); !ok {
			return ErrUnknownCompetency.Error() + ": " + a.CompetencyID
		}
		if a.Score < 1 || a.Score > 5 {
			return ErrInvalidScore.Error()
		}
		if seen[a.CompetencyID] {
			return "duplicate competency: " + a.CompetencyID
		}
		seen[a.CompetencyID] = true
	}
	for _, c := range domain.Competencies() {
		if !seen[c.ID] {
			return "missing competency: " + c.ID
		}
	}
	return ""
}

// UpdateAssessment replaces the self-rating of one competency.
func (s *OnboardingService) UpdateAssessment(ctx context.Context, userID string, a domain.CompetencyAssessment) (domain.OnboardingData, error) {
	tr := otel.Tracer("services/OnboardingService")
	ctx, span := tr.Start(ctx, "UpdateAssessment", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("competency.id", a.CompetencyID),
	))
	defer span.End()

	if _, ok := domain.LookupCompetency(a.CompetencyID); !ok {
		return domain.OnboardingData{}, ErrUnknownCompetency
	}
	if a.Score < 1 || a.Score > 5 {
		return domain.OnboardingData{}, ErrInvalidScore
	}
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return domain.OnboardingData{}, err
	}
	return st.Dispatch(store.UpdateCompetencyAssessment{Assessment: a}).Onboarding, nil
}

// Example suggests an example for a competency, tuned to the user's firm type.
func (s *OnboardingService) Example(ctx context.Context, userID, competencyID string) (string, error) {
	if _, ok := domain.LookupCompetency(competencyID); !ok {
		return "", ErrUnknownCompetency
	}
	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.Workspaces.Generator().CompetencyExample(competencyID, st.State().Onboarding.FirmType), nil
}

// Complete derives the manager canvas and promotion path and marks the
// account as onboarded.
func (s *OnboardingService) Complete(ctx context.Context, userID string) (store.State, error) {
	tr := otel.Tracer("services/OnboardingService")
	ctx, span := tr.Start(ctx, "Complete", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	st, err := s.Workspaces.Open(ctx, userID)
	if err != nil {
		return store.State{}, err
	}
	st.Dispatch(store.CompleteOnboarding{})

	done := true
	if _, err := s.Auth.UpdateUser(ctx, userID, repo.AccountFlags{OnboardingCompleted: &done}); err != nil {
		return store.State{}, err
	}
	return st.State(), nil
}
