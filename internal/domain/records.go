package domain

import (
	"time"

	"gorm.io/gorm"
)

// StorageEntry is one namespaced local-storage key, scoped to a user. Value
// holds the JSON encoding of the corresponding state slice.
//
// Fields:
//   - Scope: owner of the key (the user id); part of the unique key.
//   - Key: namespaced storage key, e.g. "rocketmentor_wins".
//   - Value: raw JSON payload.
type StorageEntry struct {
	ID        uint      `json:"-"          gorm:"primaryKey;autoIncrement"`
	Scope     string    `json:"scope"      gorm:"type:varchar(64);not null;uniqueIndex:ux_storage_scope_key,priority:1"`
	Key       string    `json:"key"        gorm:"type:varchar(128);not null;uniqueIndex:ux_storage_scope_key,priority:2"`
	Value     []byte    `json:"value"      gorm:"type:blob;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// TableName returns the database table name for StorageEntry.
func (StorageEntry) TableName() string { return "storage_entries" }

// Account is the credential record behind a User. The public profile fields
// mirror User; PasswordHash is a bcrypt hash and never leaves the repo layer.
type Account struct {
	ID                      string         `gorm:"type:char(36);primaryKey"`
	FirstName               string         `gorm:"type:varchar(128);not null"`
	Email                   string         `gorm:"type:varchar(255);not null;uniqueIndex:ux_accounts_email"`
	PasswordHash            []byte         `gorm:"type:blob;not null"`
	OnboardingCompleted     bool           `gorm:"not null;default:false"`
	GettingStartedCompleted bool           `gorm:"not null;default:false"`
	CompletedPageTours      string         `gorm:"type:text;not null;default:''"` // comma separated
	CreatedAt               time.Time      ``
	UpdatedAt               time.Time      ``
	DeletedAt               gorm.DeletedAt `gorm:"index"`
}

// TableName returns the database table name for Account.
func (Account) TableName() string { return "accounts" }

// Session is an issued bearer token. Deleting the row signs the user out.
type Session struct {
	Token     string    `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`

	// Account is the owner; sessions go away with it.
	Account Account `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }
