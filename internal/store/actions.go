package store

import (
	"time"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// ActionType names a transition. Values double as metric labels.
type ActionType string

const (
	ActSetUser                    ActionType = "SET_USER"
	ActLogout                     ActionType = "LOGOUT"
	ActLoadState                  ActionType = "LOAD_STATE"
	ActUpdateOnboarding           ActionType = "UPDATE_ONBOARDING"
	ActUpdateCompetencyAssessment ActionType = "UPDATE_COMPETENCY_ASSESSMENT"
	ActCompleteOnboarding         ActionType = "COMPLETE_ONBOARDING"
	ActSetManagerCanvas           ActionType = "SET_MANAGER_CANVAS"
	ActUpdateManagerCanvas        ActionType = "UPDATE_MANAGER_CANVAS"
	ActSetPromotionPath           ActionType = "SET_PROMOTION_PATH"
	ActUpdatePromotionPath        ActionType = "UPDATE_PROMOTION_PATH"
	ActToggleMilestone            ActionType = "TOGGLE_MILESTONE"
	ActAddWeekPlan                ActionType = "ADD_WEEK_PLAN"
	ActUpdateWeekPlan             ActionType = "UPDATE_WEEK_PLAN"
	ActDeleteWeekPlan             ActionType = "DELETE_WEEK_PLAN"
	ActAddCard                    ActionType = "ADD_CARD"
	ActUpdateCard                 ActionType = "UPDATE_CARD"
	ActDeleteCard                 ActionType = "DELETE_CARD"
	ActUpdateCareerMove           ActionType = "UPDATE_CAREER_MOVE"
	ActAddWin                     ActionType = "ADD_WIN"
	ActUpdateWin                  ActionType = "UPDATE_WIN"
	ActDeleteWin                  ActionType = "DELETE_WIN"
	ActAddChatMessage             ActionType = "ADD_CHAT_MESSAGE"
	ActClearChatHistory           ActionType = "CLEAR_CHAT_HISTORY"
	ActCompletePageTour           ActionType = "COMPLETE_PAGE_TOUR"
	ActCompleteGettingStarted     ActionType = "COMPLETE_GETTING_STARTED"
)

// Action is a transition request.
type Action interface {
	Type() ActionType
}

// SetUser replaces the signed-in user; nil signs out without clearing data.
type SetUser struct{ User *domain.User }

// Logout resets the tree to Initial and advances the session epoch.
type Logout struct{}

// LoadState merges a snapshot read from storage. Nil pointers and nil slices
// leave the current value in place.
type LoadState struct {
	User          *domain.User
	Onboarding    *domain.OnboardingData
	ManagerCanvas *domain.ManagerCanvas
	PromotionPath *domain.PromotionPath
	WeekPlans     []domain.WeekPlan
	Wins          []domain.Win
	ChatHistory   []domain.ChatMessage
}

// OnboardingPatch is a partial questionnaire update; nil fields are kept.
type OnboardingPatch struct {
	CurrentLevel          *domain.CurrentLevel          `json:"currentLevel,omitempty"`
	FirmType              *domain.FirmType              `json:"firmType,omitempty"`
	Location              *string                       `json:"location,omitempty"`
	Timezone              *string                       `json:"timezone,omitempty"`
	ManagerStressTrigger  *domain.StressTrigger         `json:"managerStressTrigger,omitempty"`
	ManagerPraiseTrigger  *domain.PraiseTrigger         `json:"managerPraiseTrigger,omitempty"`
	ManagerStyle          *domain.ManagerStyle          `json:"managerStyle,omitempty"`
	TargetLevel           *domain.TargetLevel           `json:"targetLevel,omitempty"`
	PromotionHorizon      *domain.PromotionHorizon      `json:"promotionHorizon,omitempty"`
	CompetencyAssessments []domain.CompetencyAssessment `json:"competencyAssessments,omitempty"`
	WeeklyCheckInDay      *string                       `json:"weeklyCheckInDay,omitempty"`
	WeeklyCheckInTime     *string                       `json:"weeklyCheckInTime,omitempty"`
}

// UpdateOnboarding applies an OnboardingPatch.
type UpdateOnboarding struct{ Patch OnboardingPatch }

// UpdateCompetencyAssessment replaces the assessment with the same id.
type UpdateCompetencyAssessment struct{ Assessment domain.CompetencyAssessment }

// CompleteOnboarding derives the manager canvas and promotion path from the
// current answers and marks the user as onboarded.
type CompleteOnboarding struct{}

type SetManagerCanvas struct{ Canvas domain.ManagerCanvas }

// ManagerCanvasPatch is a partial canvas update; nil fields are kept.
type ManagerCanvasPatch struct {
	ClientImpact          *int
	Profitability         *int
	Teamwork              *int
	InternalContributions *int
	Optics                *int
	Style                 *string
	KeyBehaviors          []string
}

// UpdateManagerCanvas is a no-op while no canvas exists.
type UpdateManagerCanvas struct{ Patch ManagerCanvasPatch }

type SetPromotionPath struct{ Path domain.PromotionPath }

// PromotionPathPatch is a partial path update; nil fields are kept.
type PromotionPathPatch struct {
	TargetLevel  *domain.TargetLevel
	TargetDate   *time.Time
	FocusAreas   []domain.FocusArea
	Competencies []domain.CompetencyProgress
	Milestones   []domain.PromotionMilestone
}

// UpdatePromotionPath is a no-op while no path exists.
type UpdatePromotionPath struct{ Patch PromotionPathPatch }

// ToggleMilestone flips the completed flag of one milestone.
type ToggleMilestone struct{ MilestoneID string }

type AddWeekPlan struct{ Plan domain.WeekPlan }
type UpdateWeekPlan struct{ Plan domain.WeekPlan }
type DeleteWeekPlan struct{ WeekID string }

type AddCard struct {
	WeekID string
	Card   domain.KanbanCard
}

type UpdateCard struct {
	WeekID string
	Card   domain.KanbanCard
}

type DeleteCard struct {
	WeekID string
	CardID string
}

type UpdateCareerMove struct {
	WeekID string
	Move   domain.CareerMove
}

type AddWin struct{ Win domain.Win }
type UpdateWin struct{ Win domain.Win }
type DeleteWin struct{ WinID string }

type AddChatMessage struct{ Message domain.ChatMessage }
type ClearChatHistory struct{}

// CompletePageTour records that the user dismissed a page tour.
type CompletePageTour struct{ Page string }

// CompleteGettingStarted marks the getting-started guide as done.
type CompleteGettingStarted struct{}

func (SetUser) Type() ActionType                    { return ActSetUser }
func (Logout) Type() ActionType                     { return ActLogout }
func (LoadState) Type() ActionType                  { return ActLoadState }
func (UpdateOnboarding) Type() ActionType           { return ActUpdateOnboarding }
func (UpdateCompetencyAssessment) Type() ActionType { return ActUpdateCompetencyAssessment }
func (CompleteOnboarding) Type() ActionType         { return ActCompleteOnboarding }
func (SetManagerCanvas) Type() ActionType           { return ActSetManagerCanvas }
func (UpdateManagerCanvas) Type() ActionType        { return ActUpdateManagerCanvas }
func (SetPromotionPath) Type() ActionType           { return ActSetPromotionPath }
func (UpdatePromotionPath) Type() ActionType        { return ActUpdatePromotionPath }
func (ToggleMilestone) Type() ActionType            { return ActToggleMilestone }
func (AddWeekPlan) Type() ActionType                { return ActAddWeekPlan }
func (UpdateWeekPlan) Type() ActionType             { return ActUpdateWeekPlan }
func (DeleteWeekPlan) Type() ActionType             { return ActDeleteWeekPlan }
func (AddCard) Type() ActionType                    { return ActAddCard }
func (UpdateCard) Type() ActionType                 { return ActUpdateCard }
func (DeleteCard) Type() ActionType                 { return ActDeleteCard }
func (UpdateCareerMove) Type() ActionType           { return ActUpdateCareerMove }
func (AddWin) Type() ActionType                     { return ActAddWin }
func (UpdateWin) Type() ActionType                  { return ActUpdateWin }
func (DeleteWin) Type() ActionType                  { return ActDeleteWin }
func (AddChatMessage) Type() ActionType             { return ActAddChatMessage }
func (ClearChatHistory) Type() ActionType           { return ActClearChatHistory }
func (CompletePageTour) Type() ActionType           { return ActCompletePageTour }
func (CompleteGettingStarted) Type() ActionType     { return ActCompleteGettingStarted }
