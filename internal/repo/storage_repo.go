// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the namespaced key-value rows that back
// each user's "local storage".
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. Entries are scoped: the same key may
// exist once per scope (user id).
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// GetEntry returns the entry for (scope, key) or ErrNotFound.
func GetEntry(ctx context.Context, db *gorm.DB, scope, key string) (*domain.StorageEntry, error) {
	var e domain.StorageEntry
	err := db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// PutEntry inserts or replaces the value under (scope, key).
func PutEntry(ctx context.Context, db *gorm.DB, scope, key string, value []byte) error {
	now := time.Now().UTC()
	e := &domain.StorageEntry{
		Scope:     scope,
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(e).Error
}

// DeleteEntry removes (scope, key). Deleting a missing key is not an error.
func DeleteEntry(ctx context.Context, db *gorm.DB, scope, key string) error {
	return db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		Delete(&domain.StorageEntry{}).Error
}

// ListKeys returns the keys of scope starting with prefix, sorted.
func ListKeys(ctx context.Context, db *gorm.DB, scope, prefix string) ([]string, error) {
	var keys []string
	err := db.WithContext(ctx).
		Model(&domain.StorageEntry{}).
		Where("scope = ? AND key LIKE ? ESCAPE '\\'", scope, likePrefix(prefix)).
		Order("key asc").
		Pluck("key", &keys).Error
	return keys, err
}

// DeleteScope removes every entry of scope and returns how many went.
func DeleteScope(ctx context.Context, db *gorm.DB, scope string) (int64, error) {
	res := db.WithContext(ctx).Where("scope = ?", scope).Delete(&domain.StorageEntry{})
	return res.RowsAffected, res.Error
}

func likePrefix(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(p) + "%"
}

// ScopedStorage exposes one scope's entries as a flat key-value store,
// satisfying persist.Storage.
type ScopedStorage struct {
	db    *gorm.DB
	scope string
}

// NewScopedStorage binds db to scope.
func NewScopedStorage(db *gorm.DB, scope string) *ScopedStorage {
	return &ScopedStorage{db: db, scope: scope}
}

// Scope returns the owner id the storage is bound to.
func (s *ScopedStorage) Scope() string { return s.scope }

func (s *ScopedStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, err := GetEntry(ctx, s.db, s.scope, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e.Value, true, nil
}

func (s *ScopedStorage) Set(ctx context.Context, key string, value []byte) error {
	return PutEntry(ctx, s.db, s.scope, key, value)
}

func (s *ScopedStorage) Remove(ctx context.Context, key string) error {
	return DeleteEntry(ctx, s.db, s.scope, key)
}
