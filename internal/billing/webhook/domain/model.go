// Package domain contains the webhook processing contract and the
// processed-event ledger that makes redelivery safe.
package domain

import (
	"context"
	"errors"
	"time"
)

// ProcessedEvent is the idempotency claim for one provider event.
// Inserted once per distinct event id, never updated or deleted.
type ProcessedEvent struct {
	EventID     string    `gorm:"column:event_id;primaryKey;type:text"`
	EventType   string    `gorm:"column:event_type;type:text;not null"`
	ProcessedAt time.Time `gorm:"column:processed_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ProcessedEvent) TableName() string { return "stripe_processed_events" }

// Result acknowledges a delivery. Received is always true once the
// payload was accepted; Duplicate marks a replay that was skipped.
type Result struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}

type Service interface {
	// Process verifies nothing; the caller has already checked the
	// signature over the raw bytes. It claims the event id, applies the
	// event's subscription effect, and appends the audit entry.
	Process(ctx context.Context, payload []byte) (Result, error)
}

type Repository interface {
	Exists(ctx context.Context, eventID string) (bool, error)

	// Insert claims the event id. The unique constraint makes the claim
	// atomic; callers map duplicate-key failures to a replay outcome.
	Insert(ctx context.Context, event *ProcessedEvent) error
}

var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrAlreadyProcessed = errors.New("event already processed")
)
