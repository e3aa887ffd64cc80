// Package domain contains the append-only audit trail types.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog records a single action. Actor is nil for system-initiated
// events such as webhook deliveries.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	ActorID    *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	Action     string            `gorm:"type:text;not null"`
	EntityType string            `gorm:"column:entity_type;type:text;not null"`
	EntityID   string            `gorm:"column:entity_id;type:text"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// Entry is what callers record; ids and timestamps are filled in by the
// service.
type Entry struct {
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

// Service appends audit entries. Callers treat a returned error as
// log-and-continue; an audit failure never fails the primary action.
type Service interface {
	Record(ctx context.Context, entry Entry) error
}

type Repository interface {
	Insert(ctx context.Context, entry *AuditLog) error
}

var ErrInvalidAction = errors.New("invalid_action")
