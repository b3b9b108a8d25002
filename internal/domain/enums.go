package domain

// DayOfWeek is one of the five working days a card can be scheduled on.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
)

// Weekdays lists the board columns in order.
var Weekdays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}

// Index returns the column position of d, or -1 when d is not a weekday.
func (d DayOfWeek) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

func (d DayOfWeek) Valid() bool { return d.Index() >= 0 }

// CardType categorises a kanban card.
type CardType string

const (
	CardMeeting     CardType = "meeting"
	CardWorkshop    CardType = "workshop"
	CardAnalysis    CardType = "analysis"
	CardDeliverable CardType = "deliverable"
	CardInternal    CardType = "internal"
	CardOther       CardType = "other"
)

func (t CardType) Valid() bool {
	switch t {
	case CardMeeting, CardWorkshop, CardAnalysis, CardDeliverable, CardInternal, CardOther:
		return true
	}
	return false
}

// MoveCategory is the fixed category of a career move.
type MoveCategory string

const (
	MoveImpact       MoveCategory = "impact"
	MoveRelationship MoveCategory = "relationship"
	MoveCraft        MoveCategory = "craft"
)

func (c MoveCategory) Valid() bool {
	return c == MoveImpact || c == MoveRelationship || c == MoveCraft
}

// MilestoneCategory groups promotion milestones.
type MilestoneCategory string

const (
	MilestonePreparation  MilestoneCategory = "preparation"
	MilestoneVisibility   MilestoneCategory = "visibility"
	MilestoneRelationship MilestoneCategory = "relationship"
	MilestoneExecution    MilestoneCategory = "execution"
	MilestoneReview       MilestoneCategory = "review"
)

// Momentum describes how a competency is trending.
type Momentum string

const (
	MomentumIncreasing Momentum = "increasing"
	MomentumStable     Momentum = "stable"
	MomentumDecreasing Momentum = "decreasing"
)

// WinSource records where a win came from.
type WinSource string

const (
	WinFromMove   WinSource = "move"
	WinFromKanban WinSource = "kanban"
	WinManual     WinSource = "manual"
)

// ChatRole is the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// CurrentLevel is the user's current grade.
type CurrentLevel string

const (
	LevelBusinessAnalyst  CurrentLevel = "business_analyst"
	LevelJuniorConsultant CurrentLevel = "junior_consultant"
	LevelAssociate        CurrentLevel = "associate"
	LevelConsultantNow    CurrentLevel = "consultant"
)

func (l CurrentLevel) Valid() bool {
	switch l {
	case LevelBusinessAnalyst, LevelJuniorConsultant, LevelAssociate, LevelConsultantNow:
		return true
	}
	return false
}

// TargetLevel is the grade the user is working toward.
type TargetLevel string

const (
	TargetConsultant       TargetLevel = "consultant"
	TargetSeniorConsultant TargetLevel = "senior_consultant"
	TargetManager          TargetLevel = "manager"
	TargetSeniorManager    TargetLevel = "senior_manager"
)

func (l TargetLevel) Valid() bool {
	switch l {
	case TargetConsultant, TargetSeniorConsultant, TargetManager, TargetSeniorManager:
		return true
	}
	return false
}

// FirmType is the kind of consultancy the user works at.
type FirmType string

const (
	FirmStrategy FirmType = "strategy"
	FirmBig4     FirmType = "big4"
	FirmBoutique FirmType = "boutique"
	FirmInhouse  FirmType = "inhouse"
	FirmOther    FirmType = "other"
)

func (f FirmType) Valid() bool {
	switch f {
	case FirmStrategy, FirmBig4, FirmBoutique, FirmInhouse, FirmOther:
		return true
	}
	return false
}

// PromotionHorizon is the answer to "when do you want to be promoted".
type PromotionHorizon string

const (
	Horizon6Months      PromotionHorizon = "6_months"
	Horizon6To12Months  PromotionHorizon = "6_12_months"
	Horizon12To18Months PromotionHorizon = "12_18_months"
	Horizon18PlusMonths PromotionHorizon = "18_plus_months"
)

func (h PromotionHorizon) Valid() bool {
	switch h {
	case Horizon6Months, Horizon6To12Months, Horizon12To18Months, Horizon18PlusMonths:
		return true
	}
	return false
}

// StressTrigger is what stresses the user's manager most.
type StressTrigger string

const (
	StressDeadlines   StressTrigger = "deadlines"
	StressClient      StressTrigger = "client"
	StressUtilisation StressTrigger = "utilisation"
	StressPolitics    StressTrigger = "politics"
)

func (s StressTrigger) Valid() bool {
	switch s {
	case StressDeadlines, StressClient, StressUtilisation, StressPolitics:
		return true
	}
	return false
}

// PraiseTrigger is what the user's manager praises most.
type PraiseTrigger string

const (
	PraiseSlides      PraiseTrigger = "slides"
	PraiseClientHappy PraiseTrigger = "client_happy"
	PraiseOwnership   PraiseTrigger = "ownership"
	PraiseTeamSupport PraiseTrigger = "team_support"
)

func (p PraiseTrigger) Valid() bool {
	switch p {
	case PraiseSlides, PraiseClientHappy, PraiseOwnership, PraiseTeamSupport:
		return true
	}
	return false
}

// ManagerStyle is the working style of the user's manager.
type ManagerStyle string

const (
	StyleProblemSolver       ManagerStyle = "problem_solver"
	StyleRelationshipBuilder ManagerStyle = "relationship_builder"
	StyleOperator            ManagerStyle = "operator"
)

func (m ManagerStyle) Valid() bool {
	switch m {
	case StyleProblemSolver, StyleRelationshipBuilder, StyleOperator:
		return true
	}
	return false
}
