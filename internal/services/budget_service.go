package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// BudgetService derives per-budget spend and assembles the history view.
// Budget windows are always anchored to "now" according to each budget's own
// frequency, independent of any dashboard-selected period. The asymmetry with
// DashboardService is intentional and preserved behavior; do not unify the
// two without a product decision.
type BudgetService struct {
	budgets      BudgetStore
	transactions TransactionStore
}

func NewBudgetService(budgets BudgetStore, transactions TransactionStore) *BudgetService {
	return &BudgetService{
		budgets:      budgets,
		transactions: transactions,
	}
}

// History returns the user's full transaction list in the requested order
// together with every budget's current usage.
func (s *BudgetService) History(ctx context.Context, userID int64, order core.SortOrder, now time.Time) (HistoryView, error) {
	budgets, err := s.budgets.ListBudgets(ctx, userID)
	if err != nil {
		return HistoryView{}, fmt.Errorf("list budgets: %w", err)
	}

	txs, err := s.transactions.ListTransactions(ctx, userID, core.DateRange{}, order, 0)
	if err != nil {
		return HistoryView{}, fmt.Errorf("list transactions: %w", err)
	}

	return HistoryView{
		Transactions: txs,
		Budgets:      budgetUsage(budgets, txs, now),
	}, nil
}

// Usage computes current spend for every budget of the user.
func (s *BudgetService) Usage(ctx context.Context, userID int64, now time.Time) ([]BudgetUsage, error) {
	budgets, err := s.budgets.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	txs, err := s.transactions.ListTransactions(ctx, userID, core.DateRange{}, core.SortDateDesc, 0)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return budgetUsage(budgets, txs, now), nil
}

// budgetUsage folds the user's transactions into per-budget spend. For each
// budget: only expense transactions of the budget's category dated inside the
// budget's own frequency window count. An unrecognized frequency matches all
// transactions. Percent is capped at 100 even when overspent.
func budgetUsage(budgets []core.Budget, txs []core.Transaction, now time.Time) []BudgetUsage {
	usage := make([]BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		window, bounded := b.Frequency.Window(now)

		var spent int64
		for _, t := range txs {
			if t.CategoryID != b.CategoryID || t.Type != core.Expense {
				continue
			}
			if bounded && !window.Contains(t.Date.Time) {
				continue
			}
			spent += t.Amount.Cents
		}

		usage = append(usage, BudgetUsage{
			Budget:  b,
			Spent:   core.Money{Cents: spent},
			Percent: core.UsagePercent(spent, b.Limit.Cents),
		})
	}
	return usage
}

// Create adds a budget after validation.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	id, err := s.budgets.CreateBudget(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}
	return id, nil
}

// Get fetches one budget owned by the user.
func (s *BudgetService) Get(ctx context.Context, userID, id int64) (core.Budget, error) {
	b, err := s.budgets.GetBudget(ctx, userID, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

// Update replaces a budget's category, limit and frequency.
func (s *BudgetService) Update(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.budgets.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	return nil
}

// Delete removes a budget owned by the user.
func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.budgets.DeleteBudget(ctx, userID, id); err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	return nil
}
