package services

import "fintrack/internal/core"

type (
	// DashboardView is the read model for one dashboard request: totals and
	// per-category breakdown for the selected period plus the most recent
	// transactions inside it.
	DashboardView struct {
		TotalIncome  core.Money
		TotalExpense core.Money
		Balance      core.Money
		Transactions []core.Transaction
		Categories   []core.CategorySum
		Period       core.Period
	}

	// BudgetUsage is a budget with its derived spend for the budget's own
	// active window.
	BudgetUsage struct {
		core.Budget
		Spent   core.Money
		Percent int
	}

	// HistoryView is the read model for the history page: the full sorted
	// transaction list and every budget with current usage.
	HistoryView struct {
		Transactions []core.Transaction
		Budgets      []BudgetUsage
	}
)
