package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestBudgetUsageMonthlyOverspendIsCapped(t *testing.T) {
	// Budget of 100.00 on category A with three expenses totaling 150.00
	// inside the current month: spent is reported raw, percent capped.
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	budgets := []core.Budget{
		{ID: 1, UserID: 7, CategoryID: 2, CategoryName: "Food", Limit: core.Money{Cents: 10000}, Frequency: core.FrequencyMonth},
	}
	txs := []core.Transaction{
		{ID: 1, UserID: 7, Amount: core.Money{Cents: 5000}, Type: core.Expense, CategoryID: 2, Date: core.NewDate(2024, 3, 1)},
		{ID: 2, UserID: 7, Amount: core.Money{Cents: 5000}, Type: core.Expense, CategoryID: 2, Date: core.NewDate(2024, 3, 10)},
		{ID: 3, UserID: 7, Amount: core.Money{Cents: 5000}, Type: core.Expense, CategoryID: 2, Date: core.NewDate(2024, 3, 13)},
	}

	usage := budgetUsage(budgets, txs, now)
	if len(usage) != 1 {
		t.Fatalf("expected 1 usage row, got %d", len(usage))
	}
	if usage[0].Spent.Cents != 15000 {
		t.Errorf("spent = %d, want 15000", usage[0].Spent.Cents)
	}
	if usage[0].Percent != 100 {
		t.Errorf("percent = %d, want 100 (capped)", usage[0].Percent)
	}
}

func TestBudgetUsageWindows(t *testing.T) {
	// Wednesday 2024-03-13; Sunday-start week covers Mar 10 through Mar 16.
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency core.Frequency
		txDate    core.Date
		counted   bool
	}{
		{"day counts today", core.FrequencyDay, core.NewDate(2024, 3, 13), true},
		{"day excludes yesterday", core.FrequencyDay, core.NewDate(2024, 3, 12), false},
		{"week counts Sunday start", core.FrequencyWeek, core.NewDate(2024, 3, 10), true},
		{"week counts Saturday end", core.FrequencyWeek, core.NewDate(2024, 3, 16), true},
		{"week excludes previous Saturday", core.FrequencyWeek, core.NewDate(2024, 3, 9), false},
		{"month counts first of month", core.FrequencyMonth, core.NewDate(2024, 3, 1), true},
		{"month excludes previous month", core.FrequencyMonth, core.NewDate(2024, 2, 29), false},
		{"year counts January", core.FrequencyYear, core.NewDate(2024, 1, 2), true},
		{"year excludes previous year", core.FrequencyYear, core.NewDate(2023, 12, 31), false},
		{"unknown frequency counts everything", core.Frequency("fortnight"), core.NewDate(2019, 6, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budgets := []core.Budget{
				{ID: 1, UserID: 7, CategoryID: 2, Limit: core.Money{Cents: 10000}, Frequency: tt.frequency},
			}
			txs := []core.Transaction{
				{ID: 1, UserID: 7, Amount: core.Money{Cents: 2500}, Type: core.Expense, CategoryID: 2, Date: tt.txDate},
			}

			usage := budgetUsage(budgets, txs, now)
			want := int64(0)
			if tt.counted {
				want = 2500
			}
			if usage[0].Spent.Cents != want {
				t.Errorf("spent = %d, want %d", usage[0].Spent.Cents, want)
			}
		})
	}
}

func TestBudgetUsageIgnoresIncomeAndOtherCategories(t *testing.T) {
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	budgets := []core.Budget{
		{ID: 1, UserID: 7, CategoryID: 2, Limit: core.Money{Cents: 10000}, Frequency: core.FrequencyMonth},
	}
	txs := []core.Transaction{
		// Income in the same category id must not count as spend.
		{ID: 1, UserID: 7, Amount: core.Money{Cents: 9999}, Type: core.Income, CategoryID: 2, Date: core.NewDate(2024, 3, 12)},
		// Expense in a different category.
		{ID: 2, UserID: 7, Amount: core.Money{Cents: 8888}, Type: core.Expense, CategoryID: 3, Date: core.NewDate(2024, 3, 12)},
		{ID: 3, UserID: 7, Amount: core.Money{Cents: 1000}, Type: core.Expense, CategoryID: 2, Date: core.NewDate(2024, 3, 12)},
	}

	usage := budgetUsage(budgets, txs, now)
	if usage[0].Spent.Cents != 1000 {
		t.Errorf("spent = %d, want 1000", usage[0].Spent.Cents)
	}
	if usage[0].Percent != 10 {
		t.Errorf("percent = %d, want 10", usage[0].Percent)
	}
}

func TestBudgetUsageZeroLimit(t *testing.T) {
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	budgets := []core.Budget{
		{ID: 1, UserID: 7, CategoryID: 2, Limit: core.Money{Cents: 0}, Frequency: core.FrequencyMonth},
	}
	txs := []core.Transaction{
		{ID: 1, UserID: 7, Amount: core.Money{Cents: 5000}, Type: core.Expense, CategoryID: 2, Date: core.NewDate(2024, 3, 12)},
	}

	usage := budgetUsage(budgets, txs, now)
	if usage[0].Percent != 0 {
		t.Errorf("percent = %d, want 0 for zero limit", usage[0].Percent)
	}
	if usage[0].Spent.Cents != 5000 {
		t.Errorf("spent = %d, want 5000 even with zero limit", usage[0].Spent.Cents)
	}
}

func TestHistoryBudgetsIgnoreDashboardPeriod(t *testing.T) {
	// Budget windows anchor to "now" per budget frequency; the history view
	// never narrows them by any user-selected reporting period.
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{
		budgets: []core.Budget{
			{ID: 1, UserID: 7, CategoryID: 2, CategoryName: "Food", Limit: core.Money{Cents: 20000}, Frequency: core.FrequencyYear},
		},
		transactions: []core.Transaction{
			{ID: 1, UserID: 7, Amount: core.Money{Cents: 5000}, Type: core.Expense, CategoryID: 2, Description: "jan", Date: core.NewDate(2024, 1, 5)},
			{ID: 2, UserID: 7, Amount: core.Money{Cents: 5000}, Type: core.Expense, CategoryID: 2, Description: "mar", Date: core.NewDate(2024, 3, 12)},
		},
	}

	svc := NewBudgetService(store, store)
	view, err := svc.History(context.Background(), 7, core.SortDateDesc, now)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(view.Budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(view.Budgets))
	}
	// Both transactions fall in the budget's year window even though a
	// dashboard "day" period would only see one of them.
	if view.Budgets[0].Spent.Cents != 10000 {
		t.Errorf("spent = %d, want 10000", view.Budgets[0].Spent.Cents)
	}
	if len(view.Transactions) != 2 {
		t.Errorf("expected full transaction list, got %d", len(view.Transactions))
	}
}

func TestHistorySortOrders(t *testing.T) {
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{
		transactions: []core.Transaction{
			{ID: 1, UserID: 7, Amount: core.Money{Cents: 300}, Type: core.Expense, CategoryID: 1, Description: "mid", Date: core.NewDate(2024, 2, 1)},
			{ID: 2, UserID: 7, Amount: core.Money{Cents: 100}, Type: core.Expense, CategoryID: 1, Description: "old", Date: core.NewDate(2024, 1, 1)},
			{ID: 3, UserID: 7, Amount: core.Money{Cents: 200}, Type: core.Expense, CategoryID: 1, Description: "new", Date: core.NewDate(2024, 3, 1)},
		},
	}
	svc := NewBudgetService(store, store)

	tests := []struct {
		order     core.SortOrder
		wantFirst int64
	}{
		{core.SortDateDesc, 3},
		{core.SortDateAsc, 2},
		{core.SortAmountDesc, 1},
		{core.SortAmountAsc, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			view, err := svc.History(context.Background(), 7, tt.order, now)
			if err != nil {
				t.Fatalf("History() error = %v", err)
			}
			if view.Transactions[0].ID != tt.wantFirst {
				t.Errorf("first transaction id = %d, want %d", view.Transactions[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestHistoryStoreFailure(t *testing.T) {
	boom := errors.New("disk gone")
	store := &fakeStore{err: boom}
	svc := NewBudgetService(store, store)

	_, err := svc.History(context.Background(), 7, core.SortDateDesc, time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("History() error = %v, want wrapped %v", err, boom)
	}
}
