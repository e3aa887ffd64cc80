package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/menu/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) ListRecipes(ctx context.Context, restaurantID uuid.UUID) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Where("restaurant_id = ?", restaurantID).
		Order("name").
		Find(&recipes).Error
	return recipes, err
}

func (r *repo) ListOperatingCosts(ctx context.Context, restaurantID uuid.UUID) ([]domain.OperatingCost, error) {
	var costs []domain.OperatingCost
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name").
		Find(&costs).Error
	return costs, err
}
