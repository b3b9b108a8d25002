package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Competency ids of the fixed catalog.
const (
	CompetencyProblemSolving = "problem_solving"
	CompetencyClientImpact   = "client_impact"
	CompetencyOwnership      = "ownership"
	CompetencyTeaming        = "teaming"
	CompetencyCommunication  = "communication"
	CompetencyCommercial     = "commercial"
)

var competencies = []Competency{
	{
		ID:               CompetencyProblemSolving,
		Name:             "Problem Solving & Structured Thinking",
		Description:      "Break down complex problems into clear, actionable components using frameworks and hypothesis-driven approaches.",
		LevelDescription: "Consistently apply structured problem-solving frameworks to client challenges.",
		Icon:             "🧩",
	},
	{
		ID:               CompetencyClientImpact,
		Name:             "Client Impact & Stakeholder Management",
		Description:      "Build strong relationships with clients, understand their needs, and deliver visible value.",
		LevelDescription: "Proactively manage client expectations and build trust through reliable delivery.",
		Icon:             "🎯",
	},
	{
		ID:               CompetencyOwnership,
		Name:             "Ownership & Reliability",
		Description:      "Take initiative, follow through on commitments, and own outcomes end-to-end.",
		LevelDescription: "Demonstrate ownership of workstreams and deliver without constant supervision.",
		Icon:             "⚡",
	},
	{
		ID:               CompetencyTeaming,
		Name:             "Teaming & Leading Downwards",
		Description:      "Collaborate effectively, support teammates, and start developing junior team members.",
		LevelDescription: "Be a reliable team player who actively supports others and shares knowledge.",
		Icon:             "🤝",
	},
	{
		ID:               CompetencyCommunication,
		Name:             "Communication & Storylining",
		Description:      "Create clear, compelling narratives in presentations and written communications.",
		LevelDescription: "Structure clear slide decks and emails that convey insights effectively.",
		Icon:             "📝",
	},
	{
		ID:               CompetencyCommercial,
		Name:             "Commercial Awareness",
		Description:      "Understand business context, client economics, and what drives firm success.",
		LevelDescription: "Show awareness of project economics and opportunities for follow-on work.",
		Icon:             "💡",
	},
}

var competencyByID = func() map[string]Competency {
	m := make(map[string]Competency, len(competencies))
	for _, c := range competencies {
		m[c.ID] = c
	}
	return m
}()

// Competencies returns the catalog in its canonical order. The returned slice
// is a copy.
func Competencies() []Competency {
	out := make([]Competency, len(competencies))
	copy(out, competencies)
	return out
}

// LookupCompetency finds a catalog entry by id.
func LookupCompetency(id string) (Competency, bool) {
	c, ok := competencyByID[id]
	return c, ok
}

// CompetencyName returns the display name for id, or id itself when the id
// is not in the catalog.
func CompetencyName(id string) string {
	if c, ok := competencyByID[id]; ok {
		return c.Name
	}
	return id
}

// MilestoneTemplate is a catalog entry used by the milestone generator.
type MilestoneTemplate struct {
	ID           string
	Title        string
	Description  string
	Category     MilestoneCategory
	MonthsBefore int
}

// MilestoneManagerConversation is referenced by the coach when the user asks
// about the promotion conversation.
const MilestoneManagerConversation = "manager_conversation"

var milestoneTemplates = []MilestoneTemplate{
	{
		ID:           "understand_criteria",
		Title:        "Understand the promotion criteria",
		Description:  `Clarify which evaluations/review cycles matter and when. Know exactly what "ready" looks like.`,
		Category:     MilestonePreparation,
		MonthsBefore: 18,
	},
	{
		ID:           MilestoneManagerConversation,
		Title:        "Align with your manager on promotion goal",
		Description:  "Have an explicit conversation about your promotion goal, target timing, and what evidence will be needed.",
		Category:     MilestoneRelationship,
		MonthsBefore: 12,
	},
	{
		ID:           "high_visibility",
		Title:        "Get staffed on high-visibility work",
		Description:  "Ensure you are on at least one high-visibility client engagement where you can demonstrate impact.",
		Category:     MilestoneVisibility,
		MonthsBefore: 9,
	},
	{
		ID:           "build_sponsors",
		Title:        "Build sponsor relationships",
		Description:  "Identify 1-2 senior sponsors and start building those relationships intentionally.",
		Category:     MilestoneRelationship,
		MonthsBefore: 9,
	},
	{
		ID:           "mid_cycle_feedback",
		Title:        "Collect strong mid-cycle feedback",
		Description:  "Get snapshot reviews supporting that you are operating at the next level.",
		Category:     MilestoneExecution,
		MonthsBefore: 6,
	},
	{
		ID:           "blocker_check",
		Title:        "Do a 360 blocker check",
		Description:  "Are there any blockers or detractors you need to address before promotion discussions?",
		Category:     MilestonePreparation,
		MonthsBefore: 4,
	},
	{
		ID:           "prepare_case",
		Title:        "Prepare your promotion case",
		Description:  "Create a one-pager with your main proof points structured by competency.",
		Category:     MilestoneExecution,
		MonthsBefore: 2,
	},
	{
		ID:           "align_supporters",
		Title:        "Align your manager and sponsors",
		Description:  "Ensure they will actively support you in the promotion committee.",
		Category:     MilestoneRelationship,
		MonthsBefore: 1,
	},
}

// MilestoneTemplates returns a copy of the milestone catalog in catalog order.
func MilestoneTemplates() []MilestoneTemplate {
	out := make([]MilestoneTemplate, len(milestoneTemplates))
	copy(out, milestoneTemplates)
	return out
}

// Display labels. Values missing from a table fall back to a title-cased
// rendering of the raw value (see labelOr).
var (
	currentLevelLabels = map[CurrentLevel]string{
		LevelBusinessAnalyst:  "Business Analyst",
		LevelJuniorConsultant: "Junior Consultant",
		LevelAssociate:        "Associate",
		LevelConsultantNow:    "Consultant",
	}
	targetLevelLabels = map[TargetLevel]string{
		TargetConsultant:       "Consultant",
		TargetSeniorConsultant: "Senior Consultant",
		TargetManager:          "Manager",
		TargetSeniorManager:    "Senior Manager",
	}
	firmTypeLabels = map[FirmType]string{
		FirmStrategy: "Strategy Firm (MBB, etc.)",
		FirmBig4:     "Big 4 / Advisory",
		FirmBoutique: "Boutique Consulting",
		FirmInhouse:  "In-house Consulting",
		FirmOther:    "Other",
	}
	horizonLabels = map[PromotionHorizon]string{
		Horizon6Months:      "Less than 6 months",
		Horizon6To12Months:  "6-12 months",
		Horizon12To18Months: "12-18 months",
		Horizon18PlusMonths: "More than 18 months",
	}
	cardTypeLabels = map[CardType]string{
		CardDeliverable: "Deliverable",
		CardMeeting:     "Meeting",
		CardAnalysis:    "Analysis",
		CardWorkshop:    "Workshop",
		CardInternal:    "Internal",
		CardOther:       "Other",
	}
	stressLabels = map[StressTrigger]string{
		StressDeadlines:   "Deadlines and quality of deliverables",
		StressClient:      "Unhappy client / escalation",
		StressUtilisation: "Utilisation / sales / pipeline",
		StressPolitics:    "Internal politics / stakeholders / firm priorities",
	}
	praiseLabels = map[PraiseTrigger]string{
		PraiseSlides:      "Sharp slides and analyses",
		PraiseClientHappy: "Making the client visibly happy",
		PraiseOwnership:   "Taking ownership and fixing things without being asked",
		PraiseTeamSupport: "Supporting the team, mentoring others, fixing internal issues",
	}
	styleLabels = map[ManagerStyle]string{
		StyleProblemSolver:       "Intense problem solver",
		StyleRelationshipBuilder: "Relationship builder",
		StyleOperator:            "Operator",
	}
)

func (l CurrentLevel) Label() string     { return labelOr(currentLevelLabels, l) }
func (l TargetLevel) Label() string      { return labelOr(targetLevelLabels, l) }
func (f FirmType) Label() string         { return labelOr(firmTypeLabels, f) }
func (h PromotionHorizon) Label() string { return labelOr(horizonLabels, h) }
func (t CardType) Label() string         { return labelOr(cardTypeLabels, t) }
func (s StressTrigger) Label() string    { return labelOr(stressLabels, s) }
func (p PraiseTrigger) Label() string    { return labelOr(praiseLabels, p) }
func (m ManagerStyle) Label() string     { return labelOr(styleLabels, m) }
func (d DayOfWeek) Label() string        { return Titleize(string(d)) }

func labelOr[K ~string](table map[K]string, k K) string {
	if v, ok := table[k]; ok {
		return v
	}
	return Titleize(string(k))
}

// Titleize turns an identifier such as "senior_manager" into "Senior Manager".
func Titleize(id string) string {
	id = strings.TrimSpace(strings.ReplaceAll(id, "_", " "))
	if id == "" {
		return ""
	}
	// Casers carry state, so each call builds its own.
	return cases.Title(language.English).String(id)
}
