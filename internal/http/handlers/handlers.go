// Package handlers wires the HTTP surface onto the application services.
//
// Handlers are transport-thin: they bind and sanity-check input, resolve the
// caller's user id, delegate to a service and translate results and errors
// into responses (including conditional and idempotent ones).
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/http/middleware"
	"github.com/tbourn/rocketmentor/internal/repo"
	"github.com/tbourn/rocketmentor/internal/services"
	"github.com/tbourn/rocketmentor/internal/store"
	"github.com/tbourn/rocketmentor/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService manages accounts and bearer sessions.
type AuthService interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Logout(ctx context.Context, token string) error
	User(ctx context.Context, userID string) (*domain.User, error)
}

// OnboardingService edits the onboarding questionnaire.
type OnboardingService interface {
	Get(ctx context.Context, userID string) (domain.OnboardingData, error)
	Patch(ctx context.Context, userID string, p store.OnboardingPatch) (domain.OnboardingData, error)
	UpdateAssessment(ctx context.Context, userID string, a domain.CompetencyAssessment) (domain.OnboardingData, error)
	Example(ctx context.Context, userID, competencyID string) (string, error)
	Complete(ctx context.Context, userID string) (store.State, error)
}

// WeekService drives the weekly board, career moves and the promotion path.
type WeekService interface {
	Current(ctx context.Context, userID string) (services.Board, error)
	Board(ctx context.Context, userID, weekID string) (services.Board, error)
	AddCard(ctx context.Context, userID, weekID string, in services.CardInput) (domain.KanbanCard, error)
	UpdateCard(ctx context.Context, userID, weekID, cardID string, p services.CardPatch) (domain.KanbanCard, error)
	DeleteCard(ctx context.Context, userID, weekID, cardID string) error
	SubTasks(ctx context.Context, userID, weekID, cardID string) ([]domain.KanbanCard, error)
	ImportDump(ctx context.Context, userID, text string) ([]domain.KanbanCard, error)
	GeneratePlan(ctx context.Context, userID string) (domain.WeekPlan, error)
	CommitMove(ctx context.Context, userID, weekID, moveID string) (domain.CareerMove, error)
	CompleteMove(ctx context.Context, userID, weekID, moveID string) (domain.CareerMove, *domain.Win, error)
	RegenerateMove(ctx context.Context, userID, weekID, moveID string) (domain.CareerMove, error)
	MarkCardWin(ctx context.Context, userID, weekID, cardID string) (domain.KanbanCard, *domain.Win, error)
	ReviewWeek(ctx context.Context, userID, notes string) (domain.WeekPlan, error)
	ToggleMilestone(ctx context.Context, userID, milestoneID string) (domain.PromotionMilestone, error)
	AddMilestoneTask(ctx context.Context, userID, milestoneID string) (domain.KanbanCard, error)
	Path(ctx context.Context, userID string) (domain.PromotionPath, error)
}

// WinService manages the win history.
type WinService interface {
	Add(ctx context.Context, userID string, in services.WinInput) (domain.Win, error)
	Get(ctx context.Context, userID, winID string) (domain.Win, error)
	Update(ctx context.Context, userID, winID string, p services.WinPatch) (domain.Win, error)
	Delete(ctx context.Context, userID, winID string) error
	RegenerateDescription(ctx context.Context, userID, winID string) (domain.Win, error)
	List(ctx context.Context, userID string, f services.WinFilter) ([]domain.Win, error)
	Projects(ctx context.Context, userID string) ([]string, error)
	Export(ctx context.Context, userID, format string) (*services.Export, error)
}

// CoachService runs the coach conversation.
type CoachService interface {
	Send(ctx context.Context, userID, message string, ref *domain.ChatContext) (domain.ChatMessage, error)
	History(ctx context.Context, userID string) ([]domain.ChatMessage, error)
	Message(ctx context.Context, userID, messageID string) (domain.ChatMessage, bool, error)
	Clear(ctx context.Context, userID string) error
}

// ProfileService serves the state snapshot and guided-tour flags.
type ProfileService interface {
	Snapshot(ctx context.Context, userID string) (store.State, error)
	Version(ctx context.Context, userID string) (int64, *time.Time, error)
	CompletePageTour(ctx context.Context, userID, page string) (store.State, error)
	CompleteGettingStarted(ctx context.Context, userID string) (store.State, error)
}

//
// Handler wiring
//

// Deps bundles what New needs. DB backs idempotency records; when nil,
// Idempotency-Key headers are accepted but never replayed.
type Deps struct {
	Auth           AuthService
	Onboarding     OnboardingService
	Weeks          WeekService
	Wins           WinService
	Coach          CoachService
	Profile        ProfileService
	DB             *gorm.DB
	IdempotencyTTL time.Duration
}

// Handlers groups every API endpoint.
type Handlers struct {
	auth       AuthService
	onboarding OnboardingService
	weeks      WeekService
	wins       WinService
	coach      CoachService
	profile    ProfileService
	db         *gorm.DB
	idemTTL    time.Duration
	now        func() time.Time
}

// New constructs a Handlers instance bound to the given services.
func New(d Deps) *Handlers {
	ttl := d.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handlers{
		auth:       d.Auth,
		onboarding: d.Onboarding,
		weeks:      d.Weeks,
		wins:       d.Wins,
		coach:      d.Coach,
		profile:    d.Profile,
		db:         d.DB,
		idemTTL:    ttl,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// userID extracts the authenticated user id from Gin context (set by the
// session middleware). If absent, it falls back to the "X-User-ID" header and
// finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// Pagination
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params.
// A page_size of 0 (the default) means "everything on one page".
func clampPagination(c *gin.Context) (page, pageSize int) {
	const maxPageSize = 100
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), 0)
	if pageSize < 0 {
		pageSize = 0
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginate slices items to the requested page.
func paginate[T any](items []T, page, pageSize int) ([]T, Pagination) {
	if items == nil {
		items = []T{}
	}
	total := len(items)
	if pageSize == 0 {
		return items, Pagination{Page: 1, PageSize: total, Total: int64(total), TotalPages: 1}
	}
	start, end, totalPages := utils.PageBounds(total, page, pageSize)
	return items[start:end], Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int64(total),
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Idempotency
//

// idempotencyKey returns the key validated by the idempotency middleware,
// falling back to the raw header when the middleware is not mounted.
func idempotencyKey(c *gin.Context) string {
	if k, ok := middleware.GetIdempotencyKey(c); ok {
		return k
	}
	return strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
}

// replayID returns the result id recorded for (user, scope, key), if any.
func (h *Handlers) replayID(ctx context.Context, user, scope, key string) (string, bool) {
	if h.db == nil || key == "" {
		return "", false
	}
	rec, err := repo.GetIdempotency(ctx, h.db, user, scope, key, h.now())
	if err != nil || rec == nil {
		return "", false
	}
	return rec.ResultID, true
}

// remember records resultID under (user, scope, key). Best effort.
func (h *Handlers) remember(ctx context.Context, user, scope, key, resultID string, status int) {
	if h.db == nil || key == "" {
		return
	}
	_, _ = repo.CreateIdempotency(ctx, h.db, user, scope, key, resultID, status, h.idemTTL)
}
