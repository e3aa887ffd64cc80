// Package domain contains the menu data the assistant reasons over:
// recipes, their ingredients, and monthly operating costs.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Ingredient struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string    `gorm:"type:text;not null"`
	Unit         string    `gorm:"type:text;not null"`
	UnitPrice    float64   `gorm:"column:unit_price;not null"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Ingredient) TableName() string { return "ingredients" }

type Recipe struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string    `gorm:"type:text;not null"`
	Category     string    `gorm:"type:text"`
	SellingPrice float64   `gorm:"column:selling_price;not null"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string { return "recipes" }

type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	RecipeID     uuid.UUID `gorm:"column:recipe_id;type:uuid;not null;index"`
	IngredientID uuid.UUID `gorm:"column:ingredient_id;type:uuid;not null"`
	Quantity     float64   `gorm:"not null"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// CostType distinguishes fixed overhead from volume-driven cost.
type CostType string

const (
	CostFixed    CostType = "fixed"
	CostVariable CostType = "variable"
)

type OperatingCost struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	RestaurantID  uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name          string    `gorm:"type:text;not null"`
	CostType      CostType  `gorm:"column:cost_type;type:text;not null"`
	MonthlyAmount float64   `gorm:"column:monthly_amount;not null"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OperatingCost) TableName() string { return "operating_costs" }

// DishCost is one recipe's derived economics.
type DishCost struct {
	Name           string
	Category       string
	IngredientCost float64
	TrueCost       float64
	SellingPrice   float64
	MarginPct      float64
}

// Summary is everything the assistant prompt needs for one tenant.
type Summary struct {
	Dishes           []DishCost
	Costs            []OperatingCost
	TotalMonthlyCost float64
	OverheadPerDish  float64
}

type Service interface {
	Summary(ctx context.Context, restaurantID uuid.UUID) (*Summary, error)
}

type Repository interface {
	ListRecipes(ctx context.Context, restaurantID uuid.UUID) ([]Recipe, error)
	ListOperatingCosts(ctx context.Context, restaurantID uuid.UUID) ([]OperatingCost, error)
}
