package service

import (
	"fmt"
	"strings"

	menudomain "github.com/sofrahq/margin/internal/menu/domain"
	restaurantdomain "github.com/sofrahq/margin/internal/restaurant/domain"
)

func currencySymbol(code string) string {
	if code == "USD" {
		return "$"
	}
	return "IQD"
}

// buildSystemPrompt grounds the model in the tenant's actual numbers so
// pricing advice stays tied to real dish economics.
func buildSystemPrompt(r *restaurantdomain.Restaurant, summary *menudomain.Summary) string {
	currency := currencySymbol(r.DefaultCurrency)

	var dishes strings.Builder
	for _, d := range summary.Dishes {
		fmt.Fprintf(&dishes, "- %s (%s): ingredients=%.0f%s, true=%.0f%s, price=%.0f%s, margin=%.0f%%\n",
			d.Name, d.Category, d.IngredientCost, currency, d.TrueCost, currency, d.SellingPrice, currency, d.MarginPct)
	}
	dishList := strings.TrimRight(dishes.String(), "\n")
	if dishList == "" {
		dishList = "none recorded"
	}

	var costs strings.Builder
	for _, c := range summary.Costs {
		fmt.Fprintf(&costs, "- %s (%s): %.0f%s/month\n", c.Name, c.CostType, c.MonthlyAmount, currency)
	}
	costList := strings.TrimRight(costs.String(), "\n")
	if costList == "" {
		costList = "none recorded"
	}

	return fmt.Sprintf(`You are a pricing assistant for restaurant cost analysis.

Your tasks:
1. Analyze dish costs and suggest improvements
2. Suggest selling prices from true cost and the target margin
3. Flag low-margin dishes and propose fixes
4. Give practical advice to reduce cost and improve profitability

Rules:
- Use the actual numbers below in every analysis
- Give specific figures, not generalities
- Every suggestion is a recommendation only, nothing is applied automatically
- Always state which data the analysis used

Restaurant:
- Name: %s
- City: %s
- Currency: %s
- Target margin: %.0f%%

Operating costs (total %.0f%s/month, overhead per dish %.0f%s):
%s

Dishes:
%s`,
		r.Name, r.City, currency, r.TargetMarginPct,
		summary.TotalMonthlyCost, currency, summary.OverheadPerDish, currency,
		costList,
		dishList,
	)
}
