// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for bearer-token
// sessions.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// CreateSession issues a new token for userID valid for ttl.
func CreateSession(ctx context.Context, db *gorm.DB, userID string, ttl time.Duration) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Omit("Account").Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession returns the non-expired session for token, or ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, token string, now time.Time) (*domain.Session, error) {
	var s domain.Session
	err := db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession revokes token and returns the owning user id. ErrNotFound
// when the token is unknown.
func DeleteSession(ctx context.Context, db *gorm.DB, token string) (string, error) {
	var s domain.Session
	if err := db.WithContext(ctx).First(&s, "token = ?", token).Error; err != nil {
		return "", err
	}
	if err := db.WithContext(ctx).Delete(&domain.Session{}, "token = ?", token).Error; err != nil {
		return "", err
	}
	return s.UserID, nil
}

// PurgeExpiredSessions deletes sessions that expired at or before now.
func PurgeExpiredSessions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}
