package services

import (
	"context"
	"fmt"

	"kharcha/internal/core"
	"kharcha/internal/ports"
)

// BudgetChecker compares a day's spending against the configured daily
// budget.
type BudgetChecker struct {
	lister ports.ExpenseLister
	budget core.Money
}

func NewBudgetChecker(lister ports.ExpenseLister, budget core.Money) *BudgetChecker {
	return &BudgetChecker{lister: lister, budget: budget}
}

// Budget returns the configured daily budget.
func (c *BudgetChecker) Budget() core.Money {
	return c.budget
}

// CheckDay sums the spending on one date and reports whether it exceeds the
// budget. A zero budget disables the check.
func (c *BudgetChecker) CheckDay(ctx context.Context, date core.Date) (core.Money, bool, error) {
	if c.budget.Paise <= 0 {
		return core.Money{}, false, nil
	}

	expenses, err := c.lister.ListMonth(ctx, date.Year(), date.Month())
	if err != nil {
		return core.Money{}, false, fmt.Errorf("list month for budget check: %w", err)
	}

	var spent core.Money
	for _, e := range expenses {
		if e.Date.Equal(date.Time) {
			spent.Paise += e.Amount.Paise
		}
	}
	return spent, spent.Paise > c.budget.Paise, nil
}

// DailyBudgetKey deduplicates budget alerts, one per calendar day.
func DailyBudgetKey(date core.Date) string {
	return fmt.Sprintf("daily_budget_%s", date.String())
}
