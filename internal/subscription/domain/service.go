package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// StripeUpdate carries the subscription fields derived from a
// subscription.created/updated event.
type StripeUpdate struct {
	Plan                 PlanTier
	Status               SubscriptionStatus
	StripeCustomerID     string
	StripeSubscriptionID string
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
}

type Service interface {
	// PlanFor resolves the restaurant's current tier. A missing row is
	// the free tier, not an error.
	PlanFor(ctx context.Context, restaurantID uuid.UUID) (PlanTier, error)

	// ApplyStripeUpdate updates the row matched by stripe customer id.
	// A zero-row match is reported via the bool, never an error.
	ApplyStripeUpdate(ctx context.Context, update StripeUpdate) (bool, error)

	// ApplyStripeCancel resets the row matched by stripe subscription id
	// to the free tier with canceled status.
	ApplyStripeCancel(ctx context.Context, stripeSubscriptionID string) (bool, error)

	// MarkPastDue flags the row matched by stripe customer id.
	MarkPastDue(ctx context.Context, stripeCustomerID string) (bool, error)
}

type Repository interface {
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) (*Subscription, error)
	UpdateByStripeCustomer(ctx context.Context, stripeCustomerID string, fields map[string]any) (int64, error)
	UpdateByStripeSubscription(ctx context.Context, stripeSubscriptionID string, fields map[string]any) (int64, error)
}

var ErrSubscriptionNotFound = errors.New("subscription not found")
