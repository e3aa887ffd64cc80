// Package domain contains the per-tenant subscription model. The plan
// tier is the sole input to feature gating elsewhere in the system.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// PlanTier gates feature access.
type PlanTier string

const (
	PlanFree  PlanTier = "free"
	PlanPro   PlanTier = "pro"
	PlanElite PlanTier = "elite"
)

// SubscriptionStatus mirrors the provider's lifecycle states this
// system acts on.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
)

// Subscription captures a restaurant's billing agreement. Exactly one
// row per restaurant; mutated only by the webhook processor.
type Subscription struct {
	ID                   snowflake.ID       `gorm:"primaryKey"`
	RestaurantID         uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex"`
	Plan                 PlanTier           `gorm:"type:text;not null;default:'free'"`
	Status               SubscriptionStatus `gorm:"type:text;not null;default:'active'"`
	StripeCustomerID     *string            `gorm:"column:stripe_customer_id;type:text;index"`
	StripeSubscriptionID *string            `gorm:"column:stripe_subscription_id;type:text;index"`
	CurrentPeriodStart   *time.Time         `gorm:"column:current_period_start"`
	CurrentPeriodEnd     *time.Time         `gorm:"column:current_period_end"`
	CreatedAt            time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// PlanFromLookupKey maps a provider price lookup key to a tier.
// Substring match, elite before pro, anything else is free.
func PlanFromLookupKey(lookupKey string) PlanTier {
	key := strings.ToLower(strings.TrimSpace(lookupKey))
	switch {
	case strings.Contains(key, "elite"):
		return PlanElite
	case strings.Contains(key, "pro"):
		return PlanPro
	default:
		return PlanFree
	}
}

// StatusFromProvider collapses provider statuses: anything that is not
// active is treated as past_due.
func StatusFromProvider(providerStatus string) SubscriptionStatus {
	if strings.TrimSpace(providerStatus) == "active" {
		return StatusActive
	}
	return StatusPastDue
}
