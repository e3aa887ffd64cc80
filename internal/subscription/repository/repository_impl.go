package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) UpdateByStripeCustomer(ctx context.Context, stripeCustomerID string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("stripe_customer_id = ?", stripeCustomerID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateByStripeSubscription(ctx context.Context, stripeSubscriptionID string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(fields)
	return result.RowsAffected, result.Error
}
