// Package domain contains core types for bearer-token verification.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Session represents a persisted login session issued by the identity
// provider. This service only ever reads them.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           uuid.UUID    `gorm:"column:user_id;type:uuid;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UserID    uuid.UUID
	SessionID snowflake.ID
}
