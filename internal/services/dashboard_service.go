package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// recentTransactionLimit caps how many transactions the dashboard lists.
const recentTransactionLimit = 5

// DashboardService computes the aggregate view for one user and period:
// total income, total expense, and the per-category expense breakdown.
// It is stateless and read-only.
type DashboardService struct {
	transactions TransactionStore
	categories   CategoryStore
}

func NewDashboardService(transactions TransactionStore, categories CategoryStore) *DashboardService {
	return &DashboardService{
		transactions: transactions,
		categories:   categories,
	}
}

// Dashboard aggregates the user's transactions over the resolved period.
// The reference time is passed explicitly so period windows are deterministic
// under test. The four store reads are independent and issued concurrently;
// any failure fails the whole request, never a partial view.
func (s *DashboardService) Dashboard(ctx context.Context, userID int64, period core.Period, now time.Time) (DashboardView, error) {
	rng, _ := period.Range(now)

	var (
		income  core.Money
		expense core.Money
		recent  []core.Transaction
		sums    []core.CategorySum
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.transactions.SumAmount(gctx, userID, core.Income, rng)
		if err != nil {
			return fmt.Errorf("sum income: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expense, err = s.transactions.SumAmount(gctx, userID, core.Expense, rng)
		if err != nil {
			return fmt.Errorf("sum expense: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = s.transactions.ListTransactions(gctx, userID, rng, core.SortDateDesc, recentTransactionLimit)
		if err != nil {
			return fmt.Errorf("list recent transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sums, err = s.categories.SumByCategory(gctx, userID, rng)
		if err != nil {
			return fmt.Errorf("sum by category: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, fmt.Errorf("aggregate dashboard for user %d: %w", userID, err)
	}

	applyExpenseShares(sums)

	slog.DebugContext(ctx, "Dashboard aggregated",
		"user_id", userID,
		"period", period.Kind,
		"income_cents", income.Cents,
		"expense_cents", expense.Cents,
		"categories", len(sums))

	return DashboardView{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		Transactions: recent,
		Categories:   sums,
		Period:       period,
	}, nil
}

// applyExpenseShares fills in each expense category's share of the total
// expense amount. The denominator is the sum over the matching expense rows;
// when it is zero every percentage is zero. Income rows always carry zero,
// the UI does not chart income breakdown.
func applyExpenseShares(sums []core.CategorySum) {
	var totalExpense int64
	for _, c := range sums {
		if c.Type == core.Expense {
			totalExpense += c.Amount.Cents
		}
	}
	for i := range sums {
		if sums[i].Type == core.Expense {
			sums[i].Percentage = core.SharePercent(sums[i].Amount.Cents, totalExpense)
		} else {
			sums[i].Percentage = 0
		}
	}
}
