// Package domain defines the rocketmentor data model: the user, onboarding
// answers, the derived manager canvas and promotion path, weekly kanban plans,
// recorded wins and the coach conversation. JSON tags follow the camelCase
// storage schema so persisted slices stay interchangeable with existing
// local-storage snapshots.
package domain

import "time"

// User is the authenticated account as seen by the state store.
//
// ID is immutable once created; OnboardingCompleted only ever transitions
// from false to true.
type User struct {
	ID                      string    `json:"id"`
	FirstName               string    `json:"firstName"`
	Email                   string    `json:"email"`
	CreatedAt               time.Time `json:"createdAt"`
	OnboardingCompleted     bool      `json:"onboardingCompleted"`
	GettingStartedCompleted bool      `json:"gettingStartedCompleted,omitempty"`
	CompletedPageTours      []string  `json:"completedPageTours,omitempty"`
}

// CompetencyAssessment is the self-rating for one catalog competency.
type CompetencyAssessment struct {
	CompetencyID string `json:"competencyId"`
	Score        int    `json:"score"`
	Example      string `json:"example"`
}

// OnboardingData holds the questionnaire answers. Empty enum values mean the
// question has not been answered yet.
//
// CompetencyAssessments always carries exactly one entry per catalog
// competency, in catalog order.
type OnboardingData struct {
	CurrentLevel          CurrentLevel           `json:"currentLevel"`
	FirmType              FirmType               `json:"firmType"`
	Location              string                 `json:"location"`
	Timezone              string                 `json:"timezone"`
	ManagerStressTrigger  StressTrigger          `json:"managerStressTrigger"`
	ManagerPraiseTrigger  PraiseTrigger          `json:"managerPraiseTrigger"`
	ManagerStyle          ManagerStyle           `json:"managerStyle"`
	TargetLevel           TargetLevel            `json:"targetLevel"`
	PromotionHorizon      PromotionHorizon       `json:"promotionHorizon"`
	CompetencyAssessments []CompetencyAssessment `json:"competencyAssessments"`
	WeeklyCheckInDay      string                 `json:"weeklyCheckInDay"`
	WeeklyCheckInTime     string                 `json:"weeklyCheckInTime"`
}

// Assessment returns the assessment for competencyID, if present.
func (o OnboardingData) Assessment(competencyID string) (CompetencyAssessment, bool) {
	for _, a := range o.CompetencyAssessments {
		if a.CompetencyID == competencyID {
			return a, true
		}
	}
	return CompetencyAssessment{}, false
}

// ManagerCanvas is the derived behavioral profile of the user's manager.
// It is regenerated wholesale when onboarding completes.
type ManagerCanvas struct {
	ClientImpact          int      `json:"clientImpact"`
	Profitability         int      `json:"profitability"`
	Teamwork              int      `json:"teamwork"`
	InternalContributions int      `json:"internalContributions"`
	Optics                int      `json:"optics"`
	Style                 string   `json:"style"`
	KeyBehaviors          []string `json:"keyBehaviors"`
}

// Competency is one entry of the fixed competency catalog.
type Competency struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	LevelDescription string `json:"levelDescription"`
	Icon             string `json:"icon"`
}

// FocusArea is a generated development recommendation.
type FocusArea struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	LinkedCompetencies []string `json:"linkedCompetencies"`
	Examples           []string `json:"examples"`
}

// CompetencyProgress tracks one competency against its promotion target.
type CompetencyProgress struct {
	CompetencyID string   `json:"competencyId"`
	CurrentScore int      `json:"currentScore"`
	TargetScore  int      `json:"targetScore"`
	Momentum     Momentum `json:"momentum"`
	RecentWins   int      `json:"recentWins"`
}

// PromotionMilestone is a dated checkpoint toward promotion.
type PromotionMilestone struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TargetDate  time.Time         `json:"targetDate"`
	Completed   bool              `json:"completed"`
	Category    MilestoneCategory `json:"category"`
}

// PromotionPath is the aggregate plan built at onboarding completion.
type PromotionPath struct {
	TargetLevel  TargetLevel          `json:"targetLevel"`
	TargetDate   time.Time            `json:"targetDate"`
	FocusAreas   []FocusArea          `json:"focusAreas"`
	Competencies []CompetencyProgress `json:"competencies"`
	Milestones   []PromotionMilestone `json:"milestones"`
}

// KanbanCard is one weekly task.
type KanbanCard struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Day         DayOfWeek `json:"day"`
	DueTime     string    `json:"dueTime,omitempty"`
	Type        CardType  `json:"type"`
	Project     string    `json:"project,omitempty"`
	Completed   bool      `json:"completed"`
	IsWin       bool      `json:"isWin"`
	IsSuggested bool      `json:"isSuggested"`
	ParentID    string    `json:"parentId,omitempty"` // card a suggestion was generated for
	IsSample    bool      `json:"isSample,omitempty"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CareerMove is a suggested strategic action for the week.
// Completed implies Committed.
type CareerMove struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Category           MoveCategory `json:"category"`
	LinkedCompetencies []string     `json:"linkedCompetencies"`
	Committed          bool         `json:"committed"`
	Completed          bool         `json:"completed"`
	LinkedCardIDs      []string     `json:"linkedCardIds"`
}

// WeekPlan holds the cards and moves of one calendar week, keyed by the
// Monday it starts on.
type WeekPlan struct {
	ID            string       `json:"id"`
	WeekStartDate time.Time    `json:"weekStartDate"`
	Cards         []KanbanCard `json:"cards"`
	CareerMoves   []CareerMove `json:"careerMoves"`
	Reviewed      bool         `json:"reviewed"`
	ReviewNotes   string       `json:"reviewNotes,omitempty"`
}

// Card returns the card with the given id.
func (w WeekPlan) Card(id string) (KanbanCard, bool) {
	for _, c := range w.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return KanbanCard{}, false
}

// Move returns the career move with the given id.
func (w WeekPlan) Move(id string) (CareerMove, bool) {
	for _, m := range w.CareerMoves {
		if m.ID == id {
			return m, true
		}
	}
	return CareerMove{}, false
}

// Win is a recorded accomplishment with a STAR-format description.
type Win struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RawText        string    `json:"rawText,omitempty"`
	Project        string    `json:"project,omitempty"`
	CompetencyTags []string  `json:"competencyTags"`
	Date           time.Time `json:"date"`
	WeekID         string    `json:"weekId,omitempty"`
	SourceType     WinSource `json:"sourceType"`
	SourceID       string    `json:"sourceId,omitempty"`
	Metric         string    `json:"metric,omitempty"`
}

// ChatContext references the entities a coach message was about.
type ChatContext struct {
	WeekPlanID    string   `json:"weekPlanId,omitempty"`
	CareerMoveIDs []string `json:"careerMoveIds,omitempty"`
	WinIDs        []string `json:"winIds,omitempty"`
	MilestoneIDs  []string `json:"milestoneIds,omitempty"`
}

// ChatMessage is one coach conversation turn. Assistant messages are always
// generated.
type ChatMessage struct {
	ID        string       `json:"id"`
	Role      ChatRole     `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Context   *ChatContext `json:"context,omitempty"`
}
