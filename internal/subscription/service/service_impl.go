package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/clock"
	"github.com/sofrahq/margin/internal/subscription/domain"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("subscription.service"),
		repo:  repo,
		clock: clk,
	}
}

func (s *Service) PlanFor(ctx context.Context, restaurantID uuid.UUID) (domain.PlanTier, error) {
	sub, err := s.repo.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return domain.PlanFree, nil
		}
		return domain.PlanFree, err
	}
	if sub.Plan == "" {
		return domain.PlanFree, nil
	}
	return sub.Plan, nil
}

func (s *Service) ApplyStripeUpdate(ctx context.Context, update domain.StripeUpdate) (bool, error) {
	rows, err := s.repo.UpdateByStripeCustomer(ctx, update.StripeCustomerID, map[string]any{
		"plan":                   update.Plan,
		"status":                 update.Status,
		"stripe_subscription_id": update.StripeSubscriptionID,
		"stripe_customer_id":     update.StripeCustomerID,
		"current_period_start":   update.CurrentPeriodStart.UTC(),
		"current_period_end":     update.CurrentPeriodEnd.UTC(),
		"updated_at":             s.now(),
	})
	if err != nil {
		return false, err
	}
	if rows == 0 {
		s.log.Warn("stripe update matched no subscription",
			zap.String("stripe_customer_id", update.StripeCustomerID))
	}
	return rows > 0, nil
}

func (s *Service) ApplyStripeCancel(ctx context.Context, stripeSubscriptionID string) (bool, error) {
	rows, err := s.repo.UpdateByStripeSubscription(ctx, stripeSubscriptionID, map[string]any{
		"plan":       domain.PlanFree,
		"status":     domain.StatusCanceled,
		"updated_at": s.now(),
	})
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *Service) MarkPastDue(ctx context.Context, stripeCustomerID string) (bool, error) {
	rows, err := s.repo.UpdateByStripeCustomer(ctx, stripeCustomerID, map[string]any{
		"status":     domain.StatusPastDue,
		"updated_at": s.now(),
	})
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *Service) now() time.Time {
	return s.clock.Now()
}
