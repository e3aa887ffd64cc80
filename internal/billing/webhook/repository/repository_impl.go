package repository

import (
	"context"

	"github.com/sofrahq/margin/internal/billing/webhook/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProcessedEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Insert(ctx context.Context, event *domain.ProcessedEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
