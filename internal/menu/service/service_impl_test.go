package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/menu/domain"
	"go.uber.org/zap"
)

type fakeRepo struct {
	recipes []domain.Recipe
	costs   []domain.OperatingCost
}

func (f *fakeRepo) ListRecipes(ctx context.Context, restaurantID uuid.UUID) ([]domain.Recipe, error) {
	return f.recipes, nil
}

func (f *fakeRepo) ListOperatingCosts(ctx context.Context, restaurantID uuid.UUID) ([]domain.OperatingCost, error) {
	return f.costs, nil
}

func ingredient(name string, unitPrice float64) *domain.Ingredient {
	return &domain.Ingredient{ID: uuid.New(), Name: name, Unit: "kg", UnitPrice: unitPrice}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummaryDishEconomics(t *testing.T) {
	repo := &fakeRepo{
		recipes: []domain.Recipe{
			{
				Name:         "Masgouf",
				Category:     "main",
				SellingPrice: 25_000,
				Ingredients: []domain.RecipeIngredient{
					{Quantity: 1.5, Ingredient: ingredient("carp", 8_000)},
					{Quantity: 0.2, Ingredient: ingredient("spices", 5_000)},
				},
			},
			{
				Name:         "Tea",
				Category:     "drink",
				SellingPrice: 1_000,
				Ingredients: []domain.RecipeIngredient{
					{Quantity: 0.01, Ingredient: ingredient("tea leaves", 20_000)},
				},
			},
		},
		costs: []domain.OperatingCost{
			{Name: "rent", CostType: domain.CostFixed, MonthlyAmount: 3_000},
			{Name: "electricity", CostType: domain.CostVariable, MonthlyAmount: 1_000},
		},
	}

	summary, err := New(zap.NewNop(), repo).Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if !almostEqual(summary.TotalMonthlyCost, 4_000) {
		t.Fatalf("total monthly = %v", summary.TotalMonthlyCost)
	}
	if !almostEqual(summary.OverheadPerDish, 2_000) {
		t.Fatalf("overhead per dish = %v", summary.OverheadPerDish)
	}

	masgouf := summary.Dishes[0]
	if !almostEqual(masgouf.IngredientCost, 13_000) {
		t.Fatalf("ingredient cost = %v", masgouf.IngredientCost)
	}
	if !almostEqual(masgouf.TrueCost, 15_000) {
		t.Fatalf("true cost = %v", masgouf.TrueCost)
	}
	if !almostEqual(masgouf.MarginPct, 40) {
		t.Fatalf("margin = %v", masgouf.MarginPct)
	}
}

func TestSummaryEmptyMenu(t *testing.T) {
	repo := &fakeRepo{
		costs: []domain.OperatingCost{
			{Name: "rent", CostType: domain.CostFixed, MonthlyAmount: 3_000},
		},
	}

	summary, err := New(zap.NewNop(), repo).Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.Dishes) != 0 {
		t.Fatalf("dishes = %d, want 0", len(summary.Dishes))
	}
	// No dishes still yields a finite overhead figure.
	if !almostEqual(summary.OverheadPerDish, 3_000) {
		t.Fatalf("overhead per dish = %v", summary.OverheadPerDish)
	}
}

func TestSummaryZeroPriceDish(t *testing.T) {
	repo := &fakeRepo{
		recipes: []domain.Recipe{
			{Name: "Staff meal", SellingPrice: 0},
		},
	}

	summary, err := New(zap.NewNop(), repo).Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got := summary.Dishes[0].MarginPct; !almostEqual(got, 0) {
		t.Fatalf("margin for unpriced dish = %v, want 0", got)
	}
}

func TestSummaryMissingIngredientRowSkipped(t *testing.T) {
	repo := &fakeRepo{
		recipes: []domain.Recipe{
			{
				Name:         "Kebab",
				SellingPrice: 8_000,
				Ingredients: []domain.RecipeIngredient{
					{Quantity: 0.5, Ingredient: ingredient("lamb", 12_000)},
					{Quantity: 1, Ingredient: nil},
				},
			},
		},
	}

	summary, err := New(zap.NewNop(), repo).Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got := summary.Dishes[0].IngredientCost; !almostEqual(got, 6_000) {
		t.Fatalf("ingredient cost = %v, want 6000", got)
	}
}
