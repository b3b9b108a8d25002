// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for accounts, the
// credential records behind users.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// CreateAccount inserts an account with a fresh UUID. Emails are stored
// lower-cased; ErrDuplicate is returned when the email is taken.
func CreateAccount(ctx context.Context, db *gorm.DB, firstName, email string, passwordHash []byte) (*domain.Account, error) {
	now := time.Now().UTC()
	a := &domain.Account{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return a, nil
}

// GetAccount fetches an account by id, or ErrNotFound.
func GetAccount(ctx context.Context, db *gorm.DB, id string) (*domain.Account, error) {
	var a domain.Account
	if err := db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccountByEmail fetches an account by (case-insensitive) email, or
// ErrNotFound.
func GetAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Account, error) {
	var a domain.Account
	if err := db.WithContext(ctx).First(&a, "email = ?", NormalizeEmail(email)).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// AccountFlags is a partial update of the profile flags; nil fields are kept.
type AccountFlags struct {
	FirstName               *string
	OnboardingCompleted     *bool
	GettingStartedCompleted *bool
	CompletedPageTours      []string
}

// UpdateAccount applies f to the account. Returns ErrNotFound when no row
// matched.
func UpdateAccount(ctx context.Context, db *gorm.DB, id string, f AccountFlags) (*domain.Account, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if f.FirstName != nil {
		updates["first_name"] = *f.FirstName
	}
	if f.OnboardingCompleted != nil {
		updates["onboarding_completed"] = *f.OnboardingCompleted
	}
	if f.GettingStartedCompleted != nil {
		updates["getting_started_completed"] = *f.GettingStartedCompleted
	}
	if f.CompletedPageTours != nil {
		updates["completed_page_tours"] = JoinTours(f.CompletedPageTours)
	}
	res := db.WithContext(ctx).Model(&domain.Account{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetAccount(ctx, db, id)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitTours decodes the comma-separated page-tour column.
func SplitTours(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinTours encodes page-tour ids for storage.
func JoinTours(ids []string) string { return strings.Join(ids, ",") }

// AccountUser projects an account onto the public User shape.
func AccountUser(a *domain.Account) domain.User {
	return domain.User{
		ID:                      a.ID,
		FirstName:               a.FirstName,
		Email:                   a.Email,
		CreatedAt:               a.CreatedAt,
		OnboardingCompleted:     a.OnboardingCompleted,
		GettingStartedCompleted: a.GettingStartedCompleted,
		CompletedPageTours:      SplitTours(a.CompletedPageTours),
	}
}
