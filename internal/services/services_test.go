package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/rocketmentor/internal/domain"
	"github.com/tbourn/rocketmentor/internal/generator"
	"github.com/tbourn/rocketmentor/internal/repo"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---------- test helpers ----------

// Wednesday.
var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type env struct {
	db         *gorm.DB
	gen        *generator.Generator
	auth       *AuthService
	ws         *Workspaces
	onboarding *OnboardingService
	weeks      *WeekService
	wins       *WinService
	coach      *CoachService
	profile    *ProfileService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := newSvcDB(t)
	var n atomic.Int64
	gen := generator.New(
		generator.WithClock(func() time.Time { return testNow }),
		generator.WithIDs(func() string { return fmt.Sprintf("id-%d", n.Add(1)) }),
	)
	ws, err := NewWorkspaces(db, gen, 8)
	if err != nil {
		t.Fatalf("workspaces: %v", err)
	}
	auth := &AuthService{DB: db, HashCost: bcrypt.MinCost}
	auth.OnSessionChange(ws.HandleSessionEvent)
	return &env{
		db:         db,
		gen:        gen,
		auth:       auth,
		ws:         ws,
		onboarding: &OnboardingService{Workspaces: ws, Auth: auth},
		weeks:      &WeekService{Workspaces: ws},
		wins:       &WinService{Workspaces: ws},
		coach:      &CoachService{Workspaces: ws},
		profile:    &ProfileService{Workspaces: ws, Auth: auth},
	}
}

func (e *env) signup(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), SignupInput{
		FirstName:       "Ada",
		Email:           email,
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		AcceptedTerms:   true,
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return res
}

// onboard answers the questionnaire and completes onboarding.
func (e *env) onboard(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	lvl := domain.TargetManager
	h := domain.Horizon6To12Months
	if _, err := e.onboarding.Patch(ctx, userID, patchTarget(lvl, h)); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if _, err := e.onboarding.Complete(ctx, userID); err != nil {
		t.Fatalf("complete: %v", err)
	}
}
