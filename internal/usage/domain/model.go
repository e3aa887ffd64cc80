// Package domain contains the AI usage ledger. Entries are append-only;
// the monthly aggregate over them backs the assistant's token cap.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// UsageLog stores one assistant call's estimated token consumption.
type UsageLog struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	RestaurantID uuid.UUID    `gorm:"column:restaurant_id;type:uuid;not null;index"`
	UserID       uuid.UUID    `gorm:"column:user_id;type:uuid;not null"`
	TokensUsed   int64        `gorm:"column:tokens_used;not null"`
	Model        string       `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// TableName sets the database table name.
func (UsageLog) TableName() string { return "ai_usage_logs" }

type RecordRequest struct {
	RestaurantID uuid.UUID
	UserID       uuid.UUID
	TokensUsed   int64
	Model        string
}

type Service interface {
	Record(ctx context.Context, req RecordRequest) error

	// MonthlyTokens sums the restaurant's logged tokens for the calendar
	// month containing now (UTC).
	MonthlyTokens(ctx context.Context, restaurantID uuid.UUID, now time.Time) (int64, error)
}

type Repository interface {
	Insert(ctx context.Context, entry *UsageLog) error
	SumTokens(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) (int64, error)
}

var ErrInvalidTokens = errors.New("invalid_tokens")
