// Package services contains the business logic of the tracker: dashboard
// aggregation, budget usage calculation, and transaction/budget orchestration.
// Services consume store interfaces and return view models; they never touch
// SQL, sessions, or templates themselves.
package services

import (
	"context"

	"fintrack/internal/core"
)

// Ports for the persistence layer. The SQLite repository implements all of
// them; tests substitute in-memory fakes.
type (
	TransactionStore interface {
		// SumAmount returns the summed amount of the user's transactions of
		// the given type inside the range, zero when none match.
		SumAmount(ctx context.Context, userID int64, tt core.TransactionType, r core.DateRange) (core.Money, error)

		// ListTransactions returns the user's transactions inside the range,
		// joined with category names. A limit <= 0 means no limit.
		ListTransactions(ctx context.Context, userID int64, r core.DateRange, order core.SortOrder, limit int) ([]core.Transaction, error)

		CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
		GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, userID, id int64) error
	}

	CategoryStore interface {
		// SumByCategory returns, for every category with at least one
		// matching transaction, the summed amount joined with the category's
		// name, type and color.
		SumByCategory(ctx context.Context, userID int64, r core.DateRange) ([]core.CategorySum, error)

		// GetCategoryByName resolves a category visible to the user: their
		// own if userID is non-nil, a predefined one if userID is nil.
		GetCategoryByName(ctx context.Context, userID *int64, name string) (core.Category, error)

		CreateCategory(ctx context.Context, c core.Category) (int64, error)

		// ListCategories returns the shared predefined categories and the
		// user's custom ones.
		ListCategories(ctx context.Context, userID int64) (predefined, custom []core.Category, err error)
	}

	BudgetStore interface {
		// ListBudgets returns the user's budgets joined with category names.
		ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)

		GetBudget(ctx context.Context, userID, id int64) (core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) (int64, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, userID, id int64) error
	}
)
