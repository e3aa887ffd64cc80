package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, entry *domain.UsageLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repo) SumTokens(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Select("SUM(tokens_used)").
		Where("restaurant_id = ?", restaurantID).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
