package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/menu/domain"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(log *zap.Logger, repo domain.Repository) domain.Service {
	return &Service{
		log:  log.Named("menu.service"),
		repo: repo,
	}
}

// Summary derives per-dish economics: ingredient cost from the recipe's
// components, overhead allocated evenly across dishes, and the margin
// against the selling price.
func (s *Service) Summary(ctx context.Context, restaurantID uuid.UUID) (*domain.Summary, error) {
	recipes, err := s.repo.ListRecipes(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	costs, err := s.repo.ListOperatingCosts(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	var totalMonthly float64
	for _, c := range costs {
		totalMonthly += c.MonthlyAmount
	}

	dishCount := len(recipes)
	if dishCount == 0 {
		dishCount = 1
	}
	overheadPerDish := totalMonthly / float64(dishCount)

	dishes := make([]domain.DishCost, 0, len(recipes))
	for _, r := range recipes {
		ingredientCost := 0.0
		for _, ri := range r.Ingredients {
			if ri.Ingredient == nil {
				continue
			}
			ingredientCost += ri.Quantity * ri.Ingredient.UnitPrice
		}
		trueCost := ingredientCost + overheadPerDish

		marginPct := 0.0
		if r.SellingPrice > 0 {
			marginPct = (r.SellingPrice - trueCost) / r.SellingPrice * 100
		}

		dishes = append(dishes, domain.DishCost{
			Name:           r.Name,
			Category:       r.Category,
			IngredientCost: ingredientCost,
			TrueCost:       trueCost,
			SellingPrice:   r.SellingPrice,
			MarginPct:      marginPct,
		})
	}

	return &domain.Summary{
		Dishes:           dishes,
		Costs:            costs,
		TotalMonthlyCost: totalMonthly,
		OverheadPerDish:  overheadPerDish,
	}, nil
}
