package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(&Session{}, &Account{}, &StorageEntry{})
	})
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		StorageEntry{}.TableName(): "storage_entries",
		Account{}.TableName():      "accounts",
		Session{}.TableName():      "sessions",
		Idempotency{}.TableName():  "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&Account{}, &Session{}, &StorageEntry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasIndex(&StorageEntry{}, "ux_storage_scope_key") {
		t.Fatalf("expected unique index ux_storage_scope_key")
	}
	if !m.HasIndex(&Account{}, "ux_accounts_email") {
		t.Fatalf("expected unique index ux_accounts_email")
	}

	now := time.Now().UTC()
	acc := &Account{ID: "a1", FirstName: "Ada", Email: "ada@example.com", PasswordHash: []byte("x"), CreatedAt: now}
	if err := db.Create(acc).Error; err != nil {
		t.Fatalf("insert account: %v", err)
	}
	dup := &Account{ID: "a2", FirstName: "Ada", Email: "ada@example.com", PasswordHash: []byte("y"), CreatedAt: now}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique violation on email")
	}

	s := &Session{Token: "t1", UserID: "a1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := db.Omit("Account").Create(s).Error; err != nil {
		t.Fatalf("insert session: %v", err)
	}

	// Hard delete the account: the session must cascade.
	if err := db.Unscoped().Delete(&Account{}, "id = ?", "a1").Error; err != nil {
		t.Fatalf("delete account: %v", err)
	}
	var n int64
	db.Model(&Session{}).Where("user_id = ?", "a1").Count(&n)
	if n != 0 {
		t.Fatalf("expected sessions to cascade, got %d", n)
	}

	// (scope, key) is unique for storage entries.
	e1 := &StorageEntry{Scope: "u1", Key: "rocketmentor_wins", Value: []byte("[]")}
	if err := db.Create(e1).Error; err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	e2 := &StorageEntry{Scope: "u1", Key: "rocketmentor_wins", Value: []byte("[]")}
	if err := db.Create(e2).Error; err == nil {
		t.Fatalf("expected unique violation on (scope,key)")
	}
	e3 := &StorageEntry{Scope: "u2", Key: "rocketmentor_wins", Value: []byte("[]")}
	if err := db.Create(e3).Error; err != nil {
		t.Fatalf("same key under another scope should insert: %v", err)
	}
}

func TestJSONShape_CamelCaseStorageSchema(t *testing.T) {
	card := KanbanCard{ID: "c1", Title: "Draft deck", Day: Monday, Type: CardDeliverable, IsSuggested: true}
	b, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, k := range []string{`"isSuggested":true`, `"isWin":false`, `"day":"monday"`, `"createdAt"`} {
		if !strings.Contains(string(b), k) {
			t.Fatalf("card JSON missing %s: %s", k, b)
		}
	}
	if strings.Contains(string(b), "isSample") || strings.Contains(string(b), "dueTime") {
		t.Fatalf("optional fields should be omitted: %s", b)
	}

	// Stored onboarding may carry nulls for unanswered questions.
	var o OnboardingData
	raw := `{"currentLevel":null,"firmType":"big4","competencyAssessments":[{"competencyId":"ownership","score":4,"example":""}],"weeklyCheckInDay":"Monday","weeklyCheckInTime":"08:30"}`
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.CurrentLevel != "" || o.FirmType != FirmBig4 {
		t.Fatalf("unexpected onboarding: %+v", o)
	}
	if a, ok := o.Assessment("ownership"); !ok || a.Score != 4 {
		t.Fatalf("Assessment lookup failed: %+v %v", a, ok)
	}
	if _, ok := o.Assessment("nope"); ok {
		t.Fatalf("unknown assessment should not be found")
	}
}

func TestWeekPlanLookups(t *testing.T) {
	wp := WeekPlan{
		Cards:       []KanbanCard{{ID: "a"}, {ID: "b"}},
		CareerMoves: []CareerMove{{ID: "m"}},
	}
	if c, ok := wp.Card("b"); !ok || c.ID != "b" {
		t.Fatalf("Card(b) = %+v %v", c, ok)
	}
	if _, ok := wp.Card("z"); ok {
		t.Fatalf("Card(z) should be missing")
	}
	if _, ok := wp.Move("m"); !ok {
		t.Fatalf("Move(m) should exist")
	}
}
