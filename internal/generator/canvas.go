package generator

import "github.com/tbourn/rocketmentor/internal/domain"

// Canvas style labels.
const (
	StyleDetailOriented = "Detail-oriented and analytical"
	StylePeopleFocused  = "People-focused and collaborative"
	StyleExecution      = "Execution-focused and efficient"
)

// ManagerCanvas derives the manager profile from the calibration answers.
// It starts from a fixed baseline and applies the stress, praise and style
// answers independently; unanswered questions leave the baseline alone.
func (g *Generator) ManagerCanvas(o domain.OnboardingData) domain.ManagerCanvas {
	c := domain.ManagerCanvas{
		ClientImpact:          3,
		Profitability:         3,
		Teamwork:              3,
		InternalContributions: 2,
		Optics:                3,
		KeyBehaviors:          []string{},
	}

	switch o.ManagerStressTrigger {
	case domain.StressDeadlines:
		c.Optics = 4
		c.KeyBehaviors = append(c.KeyBehaviors, "Always meet deadlines, even small ones")
	case domain.StressClient:
		c.ClientImpact = 5
		c.KeyBehaviors = append(c.KeyBehaviors, "Make client satisfaction visible")
	case domain.StressUtilisation:
		c.Profitability = 5
		c.KeyBehaviors = append(c.KeyBehaviors, "Show awareness of project economics")
	case domain.StressPolitics:
		c.InternalContributions = 4
		c.Optics = 4
		c.KeyBehaviors = append(c.KeyBehaviors, "Help navigate stakeholder dynamics")
	}

	switch o.ManagerPraiseTrigger {
	case domain.PraiseSlides:
		c.KeyBehaviors = append(c.KeyBehaviors, "Deliver polished, sharp deliverables")
	case domain.PraiseClientHappy:
		c.ClientImpact = min(5, c.ClientImpact+1)
		c.KeyBehaviors = append(c.KeyBehaviors, "Build direct client relationships")
	case domain.PraiseOwnership:
		c.KeyBehaviors = append(c.KeyBehaviors, "Take initiative without being asked")
	case domain.PraiseTeamSupport:
		c.Teamwork = 5
		c.KeyBehaviors = append(c.KeyBehaviors, "Support and enable teammates")
	}

	switch o.ManagerStyle {
	case domain.StyleProblemSolver:
		c.Style = StyleDetailOriented
		c.KeyBehaviors = append(c.KeyBehaviors, "Be prepared for deep-dive questions")
	case domain.StyleRelationshipBuilder:
		c.Style = StylePeopleFocused
		c.KeyBehaviors = append(c.KeyBehaviors, "Communicate frequently and build rapport")
	case domain.StyleOperator:
		c.Style = StyleExecution
		c.KeyBehaviors = append(c.KeyBehaviors, "Keep things moving, minimize blockers")
	}

	return c
}
